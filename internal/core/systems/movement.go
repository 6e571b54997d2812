package systems

import (
	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// MovementSystemName is the registration name for MovementSystem.
const MovementSystemName ecs.SystemName = "movement"

// MovementSystem integrates velocity and position from acceleration and
// friction (§4.9). Requires transform, movement.
type MovementSystem struct {
	BaseSystem
}

// NewMovementSystem creates the movement system.
func NewMovementSystem() *MovementSystem {
	return &MovementSystem{
		BaseSystem: NewBaseSystem(MovementSystemName, []ecs.ComponentType{
			ecs.ComponentTypeTransform,
			ecs.ComponentTypeMovement,
		}),
	}
}

// Update applies one tick of integration to every matched entity.
func (ms *MovementSystem) Update(ctx ecs.Context, world *ecs.World, entities []ecs.EntityID) error {
	dt := ctx.DeltaTime / 1000

	for _, entity := range entities {
		transformComp, ok := world.GetComponent(entity, ecs.ComponentTypeTransform)
		if !ok {
			continue
		}
		transform, ok := transformComp.(*components.Transform)
		if !ok {
			continue
		}

		movementComp, ok := world.GetComponent(entity, ecs.ComponentTypeMovement)
		if !ok {
			continue
		}
		movement, ok := movementComp.(*components.Movement)
		if !ok {
			continue
		}

		movement.Velocity = movement.Velocity.Add(movement.Acceleration.Scale(dt))

		if speed := movement.Velocity.Length(); movement.MaxSpeed > 0 && speed > movement.MaxSpeed {
			movement.Velocity = movement.Velocity.Normalized().Scale(movement.MaxSpeed)
		}

		decay := 1 - movement.Friction*dt
		if movement.Friction > 0 && decay < 0 {
			decay = 0
		}
		movement.Velocity = movement.Velocity.Scale(decay)

		transform.Position = transform.Position.Add(movement.Velocity.Scale(dt))
	}

	return nil
}

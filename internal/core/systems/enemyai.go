package systems

import (
	"time"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// EnemyAISystemName is the registration name for EnemyAISystem.
const EnemyAISystemName ecs.SystemName = "enemy_ai"

// fleeHealthFraction is the Health.Current/Maximum ratio below which a low
// aggression enemy considers fleeing (§4.14).
const fleeHealthFraction = 0.25

// EnemyAISystem drives the perception, state machine and patrol/chase
// movement of enemy-controlled entities (§4.14). It configures each
// entity's Combat target rather than resolving damage itself — CombatSystem
// performs the actual attack once in range.
type EnemyAISystem struct {
	BaseSystem
	bus *ecs.EventBus
	now func() time.Time
}

// NewEnemyAISystem creates the enemy AI system.
func NewEnemyAISystem(bus *ecs.EventBus) *EnemyAISystem {
	return &EnemyAISystem{
		BaseSystem: NewBaseSystem(EnemyAISystemName, []ecs.ComponentType{
			ecs.ComponentTypeTransform,
			ecs.ComponentTypeEnemyAI,
		}),
		bus: bus,
		now: time.Now,
	}
}

// Update runs one state-machine tick for every matched enemy entity.
func (es *EnemyAISystem) Update(ctx ecs.Context, world *ecs.World, entities []ecs.EntityID) error {
	dt := ctx.DeltaTime / 1000
	now := es.now()

	for _, id := range entities {
		transformComp, ok := world.GetComponent(id, ecs.ComponentTypeTransform)
		if !ok {
			continue
		}
		transform, ok := transformComp.(*components.Transform)
		if !ok {
			continue
		}

		aiComp, ok := world.GetComponent(id, ecs.ComponentTypeEnemyAI)
		if !ok {
			continue
		}
		ai, ok := aiComp.(*components.EnemyAI)
		if !ok {
			continue
		}

		if healthComp, ok := world.GetComponent(id, ecs.ComponentTypeHealth); ok {
			if health, ok := healthComp.(*components.Health); ok && health.IsDead() {
				ai.CurrentState = components.AIStateDead
				continue
			}
		}
		if ai.CurrentState == components.AIStateDead {
			continue
		}

		es.perceive(world, id, transform, ai)
		es.decide(world, id, ai)
		es.act(world, id, transform, ai, dt, now)
	}

	return nil
}

// perceive refreshes the AI's knowledge of its target's position, or drops
// the target if it died or went out of world.
func (es *EnemyAISystem) perceive(world *ecs.World, self ecs.EntityID, transform *components.Transform, ai *components.EnemyAI) {
	if ai.HasTarget {
		if targetTransform, targetHealth, ok := es.liveTarget(world, ai.TargetEntityID); ok {
			ai.LastKnownTargetPosition = targetTransform.Position
			_ = targetHealth
			return
		}
		ai.ClearTarget()
	}

	if ai.CurrentState != components.AIStateIdle && ai.CurrentState != components.AIStateSeeking {
		return
	}

	candidates := world.GetEntitiesWithComponents(ecs.ComponentTypeTransform, ecs.ComponentTypeHealth)
	var bestID ecs.EntityID
	var bestDistance float64
	found := false
	for _, candidateID := range candidates {
		if candidateID == self || world.HasComponent(candidateID, ecs.ComponentTypeEnemyAI) {
			continue
		}
		targetTransform, _, ok := es.liveTarget(world, candidateID)
		if !ok {
			continue
		}
		distance := transform.Position.Distance(targetTransform.Position)
		if distance > ai.DetectionRange {
			continue
		}
		if !found || distance < bestDistance {
			bestID, bestDistance, found = candidateID, distance, true
		}
	}
	if found {
		target, _, _ := es.liveTarget(world, bestID)
		ai.SetTarget(bestID, target.Position)
	}
}

func (es *EnemyAISystem) liveTarget(world *ecs.World, id ecs.EntityID) (*components.Transform, *components.Health, bool) {
	if !world.IsValid(id) {
		return nil, nil, false
	}
	transformComp, ok := world.GetComponent(id, ecs.ComponentTypeTransform)
	if !ok {
		return nil, nil, false
	}
	transform, ok := transformComp.(*components.Transform)
	if !ok {
		return nil, nil, false
	}
	healthComp, ok := world.GetComponent(id, ecs.ComponentTypeHealth)
	if !ok {
		return nil, nil, false
	}
	health, ok := healthComp.(*components.Health)
	if !ok || health.IsDead() {
		return nil, nil, false
	}
	return transform, health, true
}

// decide pushes candidate actions onto ai's priority queue from the current
// perception facts, then pops the winner to update CurrentState.
func (es *EnemyAISystem) decide(world *ecs.World, self ecs.EntityID, ai *components.EnemyAI) {
	healthFraction := 1.0
	if healthComp, ok := world.GetComponent(self, ecs.ComponentTypeHealth); ok {
		if health, ok := healthComp.(*components.Health); ok && health.Maximum > 0 {
			healthFraction = float64(health.Current) / float64(health.Maximum)
		}
	}

	if !ai.HasTarget {
		ai.PushAction("patrol", 1, nil)
	} else {
		ai.PushAction("seek", 5, nil)
		if healthFraction < fleeHealthFraction && ai.AggressionLevel < 0.5 {
			ai.PushAction("flee", 8, nil)
		}
	}

	action, ok := ai.GetNextAction()
	if !ok {
		ai.CurrentState = components.AIStateIdle
		return
	}

	switch action.Kind {
	case "flee":
		ai.CurrentState = components.AIStateFleeing
	case "seek":
		ai.CurrentState = components.AIStateSeeking
	default:
		ai.CurrentState = components.AIStateIdle
	}
}

// act moves self and, once within attack range, hands off the target to
// the Combat component for CombatSystem to resolve.
func (es *EnemyAISystem) act(world *ecs.World, self ecs.EntityID, transform *components.Transform, ai *components.EnemyAI, dt float64, now time.Time) {
	movementComp, hasMovement := world.GetComponent(self, ecs.ComponentTypeMovement)
	var movement *components.Movement
	if hasMovement {
		movement, hasMovement = movementComp.(*components.Movement)
	}

	switch ai.CurrentState {
	case components.AIStateFleeing:
		if hasMovement {
			away := transform.Position.Sub(ai.LastKnownTargetPosition).Normalized()
			es.setChaseVelocity(movement, away, movement.MaxSpeed)
		}
		if transform.Position.Distance(ai.LastKnownTargetPosition) > ai.DetectionRange {
			ai.CurrentState = components.AIStateIdle
			ai.ClearTarget()
		}

	case components.AIStateSeeking:
		distance := transform.Position.Distance(ai.LastKnownTargetPosition)
		if distance <= ai.AttackRange {
			ai.CurrentState = components.AIStateAttacking
			es.assignCombatTarget(world, self, ai.TargetEntityID)
			return
		}
		if hasMovement {
			toward := ai.LastKnownTargetPosition.Sub(transform.Position).Normalized()
			es.setChaseVelocity(movement, toward, movement.MaxSpeed*0.7)
		}
		if distance > ai.DetectionRange {
			ai.CurrentState = components.AIStateIdle
			ai.ClearTarget()
		}

	case components.AIStateAttacking:
		distance := transform.Position.Distance(ai.LastKnownTargetPosition)
		if distance > ai.AttackRange {
			ai.CurrentState = components.AIStateSeeking
			return
		}
		if hasMovement {
			toward := ai.LastKnownTargetPosition.Sub(transform.Position).Normalized()
			es.setChaseVelocity(movement, toward, movement.MaxSpeed*0.5)
		}

	default: // idle: patrol if configured
		if point, ok := ai.CurrentPatrolPoint(); ok && hasMovement {
			if transform.Position.Distance(point.Position) < 1 {
				ai.ArriveAtPatrolPoint(now)
				ai.AdvancePatrolIfWaited(now)
				es.setChaseVelocity(movement, ecs.Vector2{}, 0)
			} else {
				toward := point.Position.Sub(transform.Position).Normalized()
				es.setChaseVelocity(movement, toward, movement.MaxSpeed*0.5)
			}
		}
	}
}

func (es *EnemyAISystem) setChaseVelocity(movement *components.Movement, direction ecs.Vector2, speed float64) {
	movement.Velocity = direction.Scale(speed)
}

func (es *EnemyAISystem) assignCombatTarget(world *ecs.World, self, target ecs.EntityID) {
	combatComp, ok := world.GetComponent(self, ecs.ComponentTypeCombat)
	if !ok {
		return
	}
	combat, ok := combatComp.(*components.Combat)
	if !ok {
		return
	}
	combat.SetTarget(target)
}

package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

func newTestWorld() *ecs.World {
	registry := ecs.NewComponentRegistry(ecs.DefaultObjectPoolConfig())
	components.RegisterAll(registry)
	return ecs.NewWorld(registry)
}

func Test_MovementSystem_IntegratesVelocityAndPosition(t *testing.T) {
	world := newTestWorld()
	entity := world.CreateEntity()

	transform := components.NewTransform()
	movement := components.NewMovement(1000, 0)
	movement.Acceleration = ecs.Vector2{X: 10, Y: 0}

	require.NoError(t, world.AddComponent(entity.ID(), transform))
	require.NoError(t, world.AddComponent(entity.ID(), movement))

	system := NewMovementSystem()
	err := system.Update(ecs.Context{DeltaTime: 1000}, world, []ecs.EntityID{entity.ID()})

	assert.NoError(t, err)
	assert.Equal(t, 10.0, movement.Velocity.X)
	assert.Equal(t, 10.0, transform.Position.X)
}

func Test_MovementSystem_ClampsToMaxSpeed(t *testing.T) {
	world := newTestWorld()
	entity := world.CreateEntity()

	transform := components.NewTransform()
	movement := components.NewMovement(5, 0)
	movement.Velocity = ecs.Vector2{X: 100, Y: 0}

	require.NoError(t, world.AddComponent(entity.ID(), transform))
	require.NoError(t, world.AddComponent(entity.ID(), movement))

	system := NewMovementSystem()
	require.NoError(t, system.Update(ecs.Context{DeltaTime: 16}, world, []ecs.EntityID{entity.ID()}))

	assert.InDelta(t, 5.0, movement.Velocity.Length(), 0.0001)
}

func Test_MovementSystem_ZeroVelocityAndAccelerationDoesNotMove(t *testing.T) {
	world := newTestWorld()
	entity := world.CreateEntity()

	transform := components.NewTransform()
	movement := components.NewMovement(100, 0.1)

	require.NoError(t, world.AddComponent(entity.ID(), transform))
	require.NoError(t, world.AddComponent(entity.ID(), movement))

	system := NewMovementSystem()
	require.NoError(t, system.Update(ecs.Context{DeltaTime: 16}, world, []ecs.EntityID{entity.ID()}))

	assert.Equal(t, ecs.Vector2{}, transform.Position)
}

func Test_MovementSystem_FrictionDecaysVelocity(t *testing.T) {
	world := newTestWorld()
	entity := world.CreateEntity()

	transform := components.NewTransform()
	movement := components.NewMovement(1000, 0.5)
	movement.Velocity = ecs.Vector2{X: 100, Y: 0}

	require.NoError(t, world.AddComponent(entity.ID(), transform))
	require.NoError(t, world.AddComponent(entity.ID(), movement))

	system := NewMovementSystem()
	require.NoError(t, system.Update(ecs.Context{DeltaTime: 1000}, world, []ecs.EntityID{entity.ID()}))

	assert.Equal(t, 50.0, movement.Velocity.X)
}

func Test_MovementSystem_SkipsEntitiesMissingComponents(t *testing.T) {
	world := newTestWorld()
	entity := world.CreateEntity()

	system := NewMovementSystem()
	err := system.Update(ecs.Context{DeltaTime: 16}, world, []ecs.EntityID{entity.ID()})

	assert.NoError(t, err)
}

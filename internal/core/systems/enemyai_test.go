package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

func Test_EnemyAISystem_DetectsAndSeeksTarget(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	enemy := world.CreateEntity()
	enemyTransform := components.NewTransform()
	ai := components.NewEnemyAI("grunt", 100, 10)
	movement := components.NewMovement(50, 0)
	require.NoError(t, world.AddComponent(enemy.ID(), enemyTransform))
	require.NoError(t, world.AddComponent(enemy.ID(), ai))
	require.NoError(t, world.AddComponent(enemy.ID(), movement))

	player := world.CreateEntity()
	playerTransform := components.NewTransform()
	playerTransform.Position = ecs.Vector2{X: 50, Y: 0}
	playerHealth := components.NewHealth(100)
	require.NoError(t, world.AddComponent(player.ID(), playerTransform))
	require.NoError(t, world.AddComponent(player.ID(), playerHealth))

	system := NewEnemyAISystem(bus)
	require.NoError(t, system.Update(ecs.Context{DeltaTime: 16}, world, []ecs.EntityID{enemy.ID()}))

	assert.True(t, ai.HasTarget)
	assert.Equal(t, components.AIStateSeeking, ai.CurrentState)
	assert.Greater(t, movement.Velocity.Length(), 0.0)
}

func Test_EnemyAISystem_TransitionsToAttackingWithinRange(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	enemy := world.CreateEntity()
	enemyTransform := components.NewTransform()
	ai := components.NewEnemyAI("grunt", 100, 20)
	movement := components.NewMovement(50, 0)
	combat := components.NewCombat(components.Weapon{Damage: 5, Range: 20, AttackSpeed: 1}, false)
	require.NoError(t, world.AddComponent(enemy.ID(), enemyTransform))
	require.NoError(t, world.AddComponent(enemy.ID(), ai))
	require.NoError(t, world.AddComponent(enemy.ID(), movement))
	require.NoError(t, world.AddComponent(enemy.ID(), combat))

	player := world.CreateEntity()
	playerTransform := components.NewTransform()
	playerTransform.Position = ecs.Vector2{X: 10, Y: 0}
	playerHealth := components.NewHealth(100)
	require.NoError(t, world.AddComponent(player.ID(), playerTransform))
	require.NoError(t, world.AddComponent(player.ID(), playerHealth))

	system := NewEnemyAISystem(bus)
	require.NoError(t, system.Update(ecs.Context{DeltaTime: 16}, world, []ecs.EntityID{enemy.ID()}))

	assert.Equal(t, components.AIStateAttacking, ai.CurrentState)
	assert.True(t, combat.HasTarget)
	assert.Equal(t, player.ID(), combat.CurrentTarget)
}

func Test_EnemyAISystem_DeadEnemyStopsProcessing(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	enemy := world.CreateEntity()
	enemyTransform := components.NewTransform()
	ai := components.NewEnemyAI("grunt", 100, 20)
	health := components.NewHealth(10)
	health.Current = 0
	require.NoError(t, world.AddComponent(enemy.ID(), enemyTransform))
	require.NoError(t, world.AddComponent(enemy.ID(), ai))
	require.NoError(t, world.AddComponent(enemy.ID(), health))

	system := NewEnemyAISystem(bus)
	require.NoError(t, system.Update(ecs.Context{DeltaTime: 16}, world, []ecs.EntityID{enemy.ID()}))

	assert.Equal(t, components.AIStateDead, ai.CurrentState)
}

func Test_EnemyAISystem_IdleEnemyPatrols(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	enemy := world.CreateEntity()
	enemyTransform := components.NewTransform()
	ai := components.NewEnemyAI("grunt", 5, 1)
	ai.SetPatrolPoints([]components.PatrolPoint{{Position: ecs.Vector2{X: 100, Y: 0}, WaitMs: 500}})
	movement := components.NewMovement(10, 0)
	require.NoError(t, world.AddComponent(enemy.ID(), enemyTransform))
	require.NoError(t, world.AddComponent(enemy.ID(), ai))
	require.NoError(t, world.AddComponent(enemy.ID(), movement))

	system := NewEnemyAISystem(bus)
	system.now = func() time.Time { return time.Unix(0, 0) }
	require.NoError(t, system.Update(ecs.Context{DeltaTime: 16}, world, []ecs.EntityID{enemy.ID()}))

	assert.Equal(t, components.AIStateIdle, ai.CurrentState)
	assert.Greater(t, movement.Velocity.X, 0.0)
}

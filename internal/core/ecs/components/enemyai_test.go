package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nightswarm/internal/core/ecs"
)

func Test_EnemyAI_CreateAndInitialize(t *testing.T) {
	ai := NewEnemyAI("grunt", 200, 40)

	assert.Equal(t, ecs.ComponentTypeEnemyAI, ai.Type())
	assert.Equal(t, AIStateIdle, ai.CurrentState)
	assert.False(t, ai.HasTarget)
}

func Test_EnemyAI_TargetLifecycle(t *testing.T) {
	ai := NewEnemyAI("grunt", 200, 40)

	ai.SetTarget(ecs.EntityID(5), ecs.Vector2{X: 10, Y: 20})
	assert.True(t, ai.HasTarget)
	assert.Equal(t, ecs.EntityID(5), ai.TargetEntityID)

	ai.ClearTarget()
	assert.False(t, ai.HasTarget)
	assert.Equal(t, ecs.InvalidEntityID, ai.TargetEntityID)
}

func Test_EnemyAI_PatrolCircuit(t *testing.T) {
	ai := NewEnemyAI("grunt", 200, 40)
	ai.SetPatrolPoints([]PatrolPoint{
		{Position: ecs.Vector2{X: 0, Y: 0}, WaitMs: 100},
		{Position: ecs.Vector2{X: 10, Y: 0}, WaitMs: 100},
	})

	point, ok := ai.CurrentPatrolPoint()
	assert.True(t, ok)
	assert.Equal(t, ecs.Vector2{X: 0, Y: 0}, point.Position)

	now := time.Now()
	waitUntil := ai.ArriveAtPatrolPoint(now)
	assert.False(t, ai.AdvancePatrolIfWaited(now))

	advanced := ai.AdvancePatrolIfWaited(waitUntil.Add(time.Millisecond))
	assert.True(t, advanced)

	point, _ = ai.CurrentPatrolPoint()
	assert.Equal(t, ecs.Vector2{X: 10, Y: 0}, point.Position)
}

func Test_EnemyAI_RecordDamage(t *testing.T) {
	ai := NewEnemyAI("grunt", 200, 40)
	now := time.Now()

	ai.RecordDamage(15, ecs.EntityID(2), now)

	assert.Equal(t, 15.0, ai.ThreatLevel)
	assert.Equal(t, ecs.EntityID(2), ai.LastDamageSource)
	assert.Equal(t, 15.0, ai.Memory["lastDamage"])
}

func Test_EnemyAI_ActionQueue_PopsHighestPriorityFirst(t *testing.T) {
	ai := NewEnemyAI("grunt", 200, 40)

	ai.PushAction("patrol", 1, nil)
	ai.PushAction("attack", 10, nil)
	ai.PushAction("flee", 5, nil)

	action, ok := ai.GetNextAction()
	assert.True(t, ok)
	assert.Equal(t, "attack", action.Kind)

	action, ok = ai.GetNextAction()
	assert.True(t, ok)
	assert.Equal(t, "flee", action.Kind)

	action, ok = ai.GetNextAction()
	assert.True(t, ok)
	assert.Equal(t, "patrol", action.Kind)

	_, ok = ai.GetNextAction()
	assert.False(t, ok)
}

func Test_EnemyAI_Serialization(t *testing.T) {
	ai := NewEnemyAI("elite", 300, 60)
	ai.SetTarget(ecs.EntityID(9), ecs.Vector2{X: 1, Y: 2})
	ai.RecordDamage(5, ecs.EntityID(1), time.Now())

	data, err := ai.Serialize()
	assert.NoError(t, err)

	roundTripped := NewEnemyAI("", 0, 0)
	assert.NoError(t, roundTripped.Deserialize(data))
	assert.Equal(t, ai.BehaviorType, roundTripped.BehaviorType)
	assert.Equal(t, ai.TargetEntityID, roundTripped.TargetEntityID)
	assert.Equal(t, ai.ThreatLevel, roundTripped.ThreatLevel)
}

func Test_EnemyAI_Clone(t *testing.T) {
	original := NewEnemyAI("grunt", 100, 20)
	original.SetPatrolPoints([]PatrolPoint{{Position: ecs.Vector2{X: 1, Y: 1}}})

	cloned := original.Clone().(*EnemyAI)
	cloned.PatrolPoints[0].Position = ecs.Vector2{X: 9, Y: 9}

	assert.Equal(t, ecs.Vector2{X: 1, Y: 1}, original.PatrolPoints[0].Position)
}

package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nightswarm/internal/core/ecs"
)

func Test_Combat_CreateAndInitialize(t *testing.T) {
	combat := NewCombat(Weapon{Damage: 10, Range: 50, AttackSpeed: 1.0}, true)

	assert.Equal(t, ecs.ComponentTypeCombat, combat.Type())
	assert.True(t, combat.AutoAttack)
	assert.False(t, combat.HasTarget)
}

func Test_Combat_CooldownMs(t *testing.T) {
	combat := NewCombat(Weapon{AttackSpeed: 2.0}, false)
	assert.Equal(t, 500.0, combat.CooldownMs())
}

func Test_Combat_CanAttack_RespectsInitialZeroValue(t *testing.T) {
	combat := NewCombat(Weapon{AttackSpeed: 1.0}, false)
	assert.True(t, combat.CanAttack(time.Now()))
}

func Test_Combat_CanAttack_EnforcesCooldown(t *testing.T) {
	combat := NewCombat(Weapon{AttackSpeed: 1.0}, false)
	now := time.Now()
	combat.LastAttackAt = now

	assert.False(t, combat.CanAttack(now.Add(16*time.Millisecond)))
	assert.True(t, combat.CanAttack(now.Add(1100*time.Millisecond)))
}

func Test_Combat_TargetLifecycle(t *testing.T) {
	combat := NewCombat(Weapon{}, false)

	combat.SetTarget(ecs.EntityID(7))
	assert.True(t, combat.HasTarget)
	assert.Equal(t, ecs.EntityID(7), combat.CurrentTarget)

	combat.ClearTarget()
	assert.False(t, combat.HasTarget)
	assert.Equal(t, ecs.InvalidEntityID, combat.CurrentTarget)
}

func Test_Combat_Clone(t *testing.T) {
	original := NewCombat(Weapon{Damage: 5}, true)
	original.SetTarget(ecs.EntityID(3))

	cloned := original.Clone().(*Combat)
	cloned.ClearTarget()

	assert.True(t, original.HasTarget)
	assert.False(t, cloned.HasTarget)
}

package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nightswarm/internal/core/ecs"
)

func Test_Skills_CreateAndInitialize(t *testing.T) {
	skills := NewSkills()

	assert.Equal(t, ecs.ComponentTypeSkills, skills.Type())
	assert.Empty(t, skills.Owned)
	assert.Equal(t, 0, skills.SkillPoints)
}

func Test_Skills_LearnAndUpgrade(t *testing.T) {
	skills := NewSkills()
	skills.LearnSkill(&Skill{ID: "fireball", Level: 1, MaxLevel: 3})
	skills.SkillPoints = 2

	assert.True(t, skills.UpgradeSkill("fireball"))
	assert.Equal(t, 2, skills.Owned["fireball"].Level)
	assert.Equal(t, 1, skills.SkillPoints)
}

func Test_Skills_UpgradeSkill_FailsAtMaxLevel(t *testing.T) {
	skills := NewSkills()
	skills.LearnSkill(&Skill{ID: "fireball", Level: 3, MaxLevel: 3})
	skills.SkillPoints = 5

	assert.False(t, skills.UpgradeSkill("fireball"))
}

func Test_Skills_UpgradeSkill_FailsWithoutPoints(t *testing.T) {
	skills := NewSkills()
	skills.LearnSkill(&Skill{ID: "fireball", Level: 1, MaxLevel: 3})

	assert.False(t, skills.UpgradeSkill("fireball"))
}

func Test_Skills_ActiveEffects_ExpireByEndTime(t *testing.T) {
	skills := NewSkills()
	now := time.Now()
	skills.AddActiveEffect(ActiveEffect{ID: "a", EndTime: now.Add(-time.Second), HasEndTime: true}, 50)
	skills.AddActiveEffect(ActiveEffect{ID: "b", EndTime: now.Add(time.Minute), HasEndTime: true}, 50)

	expired := skills.ExpireEffects(now)

	assert.Len(t, expired, 1)
	assert.Equal(t, "a", expired[0].ID)
	assert.Len(t, skills.ActiveEffects, 1)
	assert.Equal(t, "b", skills.ActiveEffects[0].ID)
}

func Test_Skills_AddActiveEffect_EvictsOldestPastCap(t *testing.T) {
	skills := NewSkills()
	now := time.Now()
	skills.AddActiveEffect(ActiveEffect{ID: "older", EndTime: now.Add(time.Second), HasEndTime: true}, 1)
	skills.AddActiveEffect(ActiveEffect{ID: "newer", EndTime: now.Add(time.Minute), HasEndTime: true}, 1)

	assert.Len(t, skills.ActiveEffects, 1)
	assert.Equal(t, "newer", skills.ActiveEffects[0].ID)
}

func Test_Skills_CaptureBaseline_OnlyOnce(t *testing.T) {
	skills := NewSkills()

	skills.CaptureBaseline(10, 100)
	skills.CaptureBaseline(999, 999)

	assert.Equal(t, 10.0, skills.Baseline.WeaponDamage)
	assert.Equal(t, 100.0, skills.Baseline.MaxSpeed)
}

func Test_Skills_Serialization(t *testing.T) {
	skills := NewSkills()
	skills.LearnSkill(&Skill{ID: "heal", Kind: SkillKindActive, TargetType: SkillTargetSelf})
	skills.SkillPoints = 3

	data, err := skills.Serialize()
	assert.NoError(t, err)

	roundTripped := NewSkills()
	assert.NoError(t, roundTripped.Deserialize(data))
	assert.Equal(t, skills.SkillPoints, roundTripped.SkillPoints)
	assert.Equal(t, skills.Owned["heal"].ID, roundTripped.Owned["heal"].ID)
}

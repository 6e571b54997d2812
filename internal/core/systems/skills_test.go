package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

func Test_SkillSystem_AreaBlastDamagesEnemiesInRadius(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	caster := world.CreateEntity()
	casterTransform := components.NewTransform()
	skillSet := components.NewSkills()
	blast := &components.Skill{
		ID: "area_blast", Kind: components.SkillKindActive, TargetType: components.SkillTargetArea,
		Level: 1, MaxLevel: 5,
		Effects: []components.Effect{{Type: components.EffectDamage, Value: 15, Radius: 50}},
	}
	skillSet.LearnSkill(blast)
	require.NoError(t, world.AddComponent(caster.ID(), casterTransform))
	require.NoError(t, world.AddComponent(caster.ID(), skillSet))

	near := world.CreateEntity()
	nearTransform := components.NewTransform()
	nearTransform.Position = ecs.Vector2{X: 20, Y: 0}
	nearHealth := components.NewHealth(100)
	require.NoError(t, world.AddComponent(near.ID(), nearTransform))
	require.NoError(t, world.AddComponent(near.ID(), nearHealth))

	far := world.CreateEntity()
	farTransform := components.NewTransform()
	farTransform.Position = ecs.Vector2{X: 500, Y: 0}
	farHealth := components.NewHealth(100)
	require.NoError(t, world.AddComponent(far.ID(), farTransform))
	require.NoError(t, world.AddComponent(far.ID(), farHealth))

	var activated []ecs.SkillActivatedData
	bus.On(ecs.EventSkillActivated, func(ev ecs.Event) { activated = append(activated, ev.Data.(ecs.SkillActivatedData)) })

	system := NewSkillSystem(bus, SkillConfig{SkillSelectionSeed: 1})
	err := system.ActivateSkill(world, caster.ID(), "area_blast", ecs.Vector2{}, false)

	require.NoError(t, err)
	assert.Equal(t, 85, nearHealth.Current)
	assert.Equal(t, 100, farHealth.Current)
	require.Len(t, activated, 1)
}

func Test_SkillSystem_ActivateSkill_RespectsCooldown(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	caster := world.CreateEntity()
	casterTransform := components.NewTransform()
	skillSet := components.NewSkills()
	heal := &components.Skill{
		ID: "self_heal", Kind: components.SkillKindActive, TargetType: components.SkillTargetSelf,
		Level: 1, MaxLevel: 5, CooldownMs: 1000,
		Effects: []components.Effect{{Type: components.EffectHeal, Value: 10}},
	}
	skillSet.LearnSkill(heal)
	health := components.NewHealth(100)
	health.Current = 50
	require.NoError(t, world.AddComponent(caster.ID(), casterTransform))
	require.NoError(t, world.AddComponent(caster.ID(), skillSet))
	require.NoError(t, world.AddComponent(caster.ID(), health))

	system := NewSkillSystem(bus, SkillConfig{SkillSelectionSeed: 1})
	now := time.Now()
	system.now = func() time.Time { return now }

	require.NoError(t, system.ActivateSkill(world, caster.ID(), "self_heal", ecs.Vector2{}, false))
	assert.Equal(t, 60, health.Current)

	err := system.ActivateSkill(world, caster.ID(), "self_heal", ecs.Vector2{}, false)
	assert.ErrorIs(t, err, ErrSkillOnCooldown)

	now = now.Add(1100 * time.Millisecond)
	system.now = func() time.Time { return now }
	require.NoError(t, system.ActivateSkill(world, caster.ID(), "self_heal", ecs.Vector2{}, false))
	assert.Equal(t, 70, health.Current)
}

func Test_SkillSystem_ActivateSkill_UnknownSkillFails(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	caster := world.CreateEntity()
	skillSet := components.NewSkills()
	require.NoError(t, world.AddComponent(caster.ID(), skillSet))

	system := NewSkillSystem(bus, SkillConfig{SkillSelectionSeed: 1})
	err := system.ActivateSkill(world, caster.ID(), "missing", ecs.Vector2{}, false)
	assert.ErrorIs(t, err, ErrSkillNotFound)
}

func Test_SkillSystem_UpgradeSkill_EmitsLevelUp(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	entity := world.CreateEntity()
	skillSet := components.NewSkills()
	skillSet.LearnSkill(&components.Skill{ID: "slash", Level: 1, MaxLevel: 3})
	skillSet.SkillPoints = 1
	require.NoError(t, world.AddComponent(entity.ID(), skillSet))

	var leveled []ecs.SkillLevelUpData
	bus.On(ecs.EventSkillLevelUp, func(ev ecs.Event) { leveled = append(leveled, ev.Data.(ecs.SkillLevelUpData)) })

	system := NewSkillSystem(bus, SkillConfig{SkillSelectionSeed: 1})
	require.NoError(t, system.UpgradeSkill(world, entity.ID(), "slash"))

	require.Len(t, leveled, 1)
	assert.Equal(t, 2, leveled[0].NewLevel)
}

func Test_SkillSystem_GetAvailableSkillsForSelection_ExcludesOwned(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	entity := world.CreateEntity()
	skillSet := components.NewSkills()
	skillSet.LearnSkill(&components.Skill{ID: "slash"})
	require.NoError(t, world.AddComponent(entity.ID(), skillSet))

	system := NewSkillSystem(bus, SkillConfig{SkillSelectionSeed: 42})
	system.RegisterSkillTemplate(&components.Skill{ID: "slash"})
	system.RegisterSkillTemplate(&components.Skill{ID: "fireball"})
	system.RegisterSkillTemplate(&components.Skill{ID: "shield"})

	available := system.GetAvailableSkillsForSelection(world, entity.ID(), 2)

	require.Len(t, available, 2)
	for _, skill := range available {
		assert.NotEqual(t, "slash", skill.ID)
	}
}

func Test_SkillSystem_Update_ExpiresEffectsAndRecomputesAttributes(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	entity := world.CreateEntity()
	skillSet := components.NewSkills()
	combat := components.NewCombat(components.Weapon{Damage: 10}, false)
	require.NoError(t, world.AddComponent(entity.ID(), skillSet))
	require.NoError(t, world.AddComponent(entity.ID(), combat))

	system := NewSkillSystem(bus, SkillConfig{SkillSelectionSeed: 1})
	now := time.Now()
	system.now = func() time.Time { return now }

	skillSet.AddActiveEffect(components.ActiveEffect{
		SkillID: "power_up",
		Effect:  components.Effect{Type: components.EffectAttributeModify, Value: 0.5},
		EndTime: now.Add(100 * time.Millisecond), HasEndTime: true,
	}, 8)

	require.NoError(t, system.Update(ecs.Context{DeltaTime: 16}, world, []ecs.EntityID{entity.ID()}))
	assert.Equal(t, 15.0, combat.Weapon.Damage)

	now = now.Add(200 * time.Millisecond)
	system.now = func() time.Time { return now }
	require.NoError(t, system.Update(ecs.Context{DeltaTime: 16}, world, []ecs.EntityID{entity.ID()}))
	assert.Equal(t, 10.0, combat.Weapon.Damage)
}

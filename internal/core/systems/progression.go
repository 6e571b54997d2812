package systems

import (
	"math"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// ProgressionSystemName is the registration name for ProgressionSystem.
const ProgressionSystemName ecs.SystemName = "progression"

// killXPRewards maps a victim's classification tag to the XP it yields on
// death (§4.11). An untagged entity, or a tag outside this table, yields no
// experience.
var killXPRewards = map[string]int{
	"basic_enemy": 10,
	"elite_enemy": 25,
	"boss_enemy":  100,
}

// statGrowthPerLevel is the fractional stat increase applied to Health.Maximum
// and Combat.Weapon.Damage on each level gained (§4.11), floored at 1.
const statGrowthPerLevel = 0.1

// ProgressionSystem reacts to ENTITY_KILLED by awarding the killer
// experience and, on level up, growing its combat stats (§4.11). All of its
// work happens inside the ENTITY_KILLED listener — Update is a no-op since
// the event bus delivers synchronously at kill time.
type ProgressionSystem struct {
	BaseSystem
	bus   *ecs.EventBus
	world *ecs.World
}

// NewProgressionSystem creates the progression system. It subscribes to
// ENTITY_KILLED once attached to a world via Initialize.
func NewProgressionSystem(bus *ecs.EventBus) *ProgressionSystem {
	return &ProgressionSystem{
		BaseSystem: NewBaseSystem(ProgressionSystemName, []ecs.ComponentType{
			ecs.ComponentTypeExperience,
		}),
		bus: bus,
	}
}

// Initialize implements ecs.Initializer, capturing the world the system was
// attached to and wiring the kill listener.
func (ps *ProgressionSystem) Initialize(world *ecs.World) error {
	ps.world = world
	ps.bus.On(ecs.EventEntityKilled, ps.onEntityKilled)
	return nil
}

func (ps *ProgressionSystem) onEntityKilled(ev ecs.Event) {
	data, ok := ev.Data.(ecs.EntityKilledData)
	if !ok || ps.world == nil {
		return
	}

	reward := ps.rewardFor(data.Victim)
	if reward <= 0 {
		return
	}

	expComp, ok := ps.world.GetComponent(data.Killer, ecs.ComponentTypeExperience)
	if !ok {
		return
	}
	experience, ok := expComp.(*components.Experience)
	if !ok {
		return
	}

	previousLevel := experience.Level
	ps.bus.Emit(ecs.EventExperienceGained, ecs.ExperienceGainedData{Entity: data.Killer, Amount: float64(reward)}, "progression", data.Killer)

	levelsGained := experience.AddExperience(reward)
	if len(levelsGained) == 0 {
		return
	}

	ps.applyLevelUpGrowth(data.Killer, len(levelsGained))

	for _, newLevel := range levelsGained {
		ps.bus.Emit(ecs.EventLevelUp, ecs.LevelUpData{Entity: data.Killer, OldLevel: previousLevel, NewLevel: newLevel}, "progression", data.Killer)
		previousLevel = newLevel
	}
}

// rewardFor classifies victim by its world tag and looks up its XP reward.
func (ps *ProgressionSystem) rewardFor(victim ecs.EntityID) int {
	tag, ok := ps.world.GetTag(victim)
	if !ok {
		return 0
	}
	return killXPRewards[tag]
}

// applyLevelUpGrowth grows the killer's max health (healing to full) and
// weapon damage by statGrowthPerLevel per level gained, flooring each
// increment at 1.
func (ps *ProgressionSystem) applyLevelUpGrowth(entity ecs.EntityID, levels int) {
	if healthComp, ok := ps.world.GetComponent(entity, ecs.ComponentTypeHealth); ok {
		if health, ok := healthComp.(*components.Health); ok {
			for i := 0; i < levels; i++ {
				growth := int(math.Floor(float64(health.Maximum) * statGrowthPerLevel))
				if growth < 1 {
					growth = 1
				}
				health.Maximum += growth
			}
			health.Current = health.Maximum
		}
	}

	if combatComp, ok := ps.world.GetComponent(entity, ecs.ComponentTypeCombat); ok {
		if combat, ok := combatComp.(*components.Combat); ok {
			for i := 0; i < levels; i++ {
				growth := combat.Weapon.Damage * statGrowthPerLevel
				if growth < 1 {
					growth = 1
				}
				combat.Weapon.Damage += growth
			}
		}
	}
}

// Update is a no-op: all progression work happens reactively in
// onEntityKilled.
func (ps *ProgressionSystem) Update(ctx ecs.Context, world *ecs.World, entities []ecs.EntityID) error {
	return nil
}

package systems

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// CombatSystemName is the registration name for CombatSystem.
const CombatSystemName ecs.SystemName = "combat"

// CombatSystem resolves attack cadence, target selection and damage
// application (§4.10). Requires transform, combat.
type CombatSystem struct {
	BaseSystem
	bus    *ecs.EventBus
	logger logrus.FieldLogger
	rng    *rand.Rand
	now    func() time.Time
}

// NewCombatSystem creates the combat system, emitting through bus.
func NewCombatSystem(bus *ecs.EventBus, logger logrus.FieldLogger) *CombatSystem {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CombatSystem{
		BaseSystem: NewBaseSystem(CombatSystemName, []ecs.ComponentType{
			ecs.ComponentTypeTransform,
			ecs.ComponentTypeCombat,
		}),
		bus:    bus,
		logger: logger,
		rng:    rand.New(rand.NewSource(1)),
		now:    time.Now,
	}
}

// Update resolves one attack attempt per matched entity with a combat
// component whose attack cooldown has elapsed.
func (cs *CombatSystem) Update(ctx ecs.Context, world *ecs.World, entities []ecs.EntityID) error {
	now := cs.now()

	for _, attackerID := range entities {
		transformComp, ok := world.GetComponent(attackerID, ecs.ComponentTypeTransform)
		if !ok {
			continue
		}
		transform, ok := transformComp.(*components.Transform)
		if !ok {
			continue
		}

		combatComp, ok := world.GetComponent(attackerID, ecs.ComponentTypeCombat)
		if !ok {
			continue
		}
		combat, ok := combatComp.(*components.Combat)
		if !ok {
			continue
		}

		if !combat.CanAttack(now) {
			continue
		}

		targetID, _, targetHealth, found := cs.selectTarget(world, attackerID, transform, combat)
		if !found {
			continue
		}

		cs.attack(attackerID, targetID, targetHealth, combat, now)
	}

	return nil
}

func (cs *CombatSystem) selectTarget(world *ecs.World, attackerID ecs.EntityID, attackerTransform *components.Transform, combat *components.Combat) (ecs.EntityID, *components.Transform, *components.Health, bool) {
	if combat.HasTarget && world.IsValid(combat.CurrentTarget) {
		if transform, health, ok := cs.liveTargetInRange(world, attackerTransform, combat.CurrentTarget, combat.Weapon.Range); ok {
			return combat.CurrentTarget, transform, health, true
		}
	}

	if !combat.AutoAttack {
		return ecs.InvalidEntityID, nil, nil, false
	}

	candidates := world.GetEntitiesWithComponents(ecs.ComponentTypeTransform, ecs.ComponentTypeHealth)
	var (
		bestID        ecs.EntityID
		bestTransform *components.Transform
		bestHealth    *components.Health
		bestDistance  float64
		found         bool
	)
	for _, candidateID := range candidates {
		if candidateID == attackerID {
			continue
		}
		transform, health, ok := cs.liveTargetInRange(world, attackerTransform, candidateID, combat.Weapon.Range)
		if !ok {
			continue
		}
		distance := attackerTransform.Position.Distance(transform.Position)
		if !found || distance < bestDistance || (distance == bestDistance && candidateID < bestID) {
			bestID, bestTransform, bestHealth, bestDistance, found = candidateID, transform, health, distance, true
		}
	}
	return bestID, bestTransform, bestHealth, found
}

func (cs *CombatSystem) liveTargetInRange(world *ecs.World, attackerTransform *components.Transform, targetID ecs.EntityID, weaponRange float64) (*components.Transform, *components.Health, bool) {
	if !world.IsValid(targetID) {
		return nil, nil, false
	}
	transformComp, ok := world.GetComponent(targetID, ecs.ComponentTypeTransform)
	if !ok {
		return nil, nil, false
	}
	transform, ok := transformComp.(*components.Transform)
	if !ok {
		return nil, nil, false
	}
	healthComp, ok := world.GetComponent(targetID, ecs.ComponentTypeHealth)
	if !ok {
		return nil, nil, false
	}
	health, ok := healthComp.(*components.Health)
	if !ok || health.IsDead() {
		return nil, nil, false
	}
	if attackerTransform.Position.Distance(transform.Position) > weaponRange {
		return nil, nil, false
	}
	return transform, health, true
}

func (cs *CombatSystem) attack(attackerID, targetID ecs.EntityID, targetHealth *components.Health, combat *components.Combat, now time.Time) {
	if attackerID == targetID {
		return
	}

	damage := combat.Weapon.Damage
	critical := combat.Weapon.CriticalChance > 0 && cs.rng.Float64() < combat.Weapon.CriticalChance
	if critical {
		damage *= combat.Weapon.CriticalMultiplier
	}

	combat.LastAttackAt = now

	cs.bus.Emit(ecs.EventDamageDealt, ecs.DamageDealtData{Attacker: attackerID, Target: targetID, Amount: damage, Critical: critical}, "combat", attackerID)

	wasDead := targetHealth.IsDead()
	targetHealth.TakeDamage(int(damage), now)
	if !wasDead && targetHealth.IsDead() {
		cs.bus.Emit(ecs.EventEntityKilled, ecs.EntityKilledData{Killer: attackerID, Victim: targetID}, "combat", targetID)
	}
}

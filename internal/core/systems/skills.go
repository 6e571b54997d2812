package systems

import (
	"time"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// SkillSystemName is the registration name for SkillSystem.
const SkillSystemName ecs.SystemName = "skills"

// Errors returned by ActivateSkill/UpgradeSkill/EvolveSkill (§4.15),
// constructed against the shared ecs.ECSError taxonomy. errors.Is matches by
// Code (ecs.ECSError.Is), so a freshly raised error carrying its own entity
// context still satisfies assert.ErrorIs against these sentinels.
var (
	ErrSkillNotFound        = ecs.NewSystemError(ecs.ErrSkillNotFound, "skill not found", SkillSystemName)
	ErrSkillNotActive       = ecs.NewSystemError(ecs.ErrSkillNotActive, "skill is not active", SkillSystemName)
	ErrSkillOnCooldown      = ecs.NewSystemError(ecs.ErrSkillOnCooldown, "skill is on cooldown", SkillSystemName)
	ErrRequirementsNotMet   = ecs.NewSystemError(ecs.ErrRequirementsNotMet, "requirements not met", SkillSystemName)
	ErrEvolutionUnavailable = ecs.NewSystemError(ecs.ErrEvolutionUnavailable, "evolution not available", SkillSystemName)
)

// SkillConfig tunes the per-entity effect cap, the default area-effect
// radius and projectile speed, and the evolution-scan cadence (§4.15).
type SkillConfig struct {
	// MaxActiveEffects bounds AddActiveEffect's eviction per entity.
	MaxActiveEffects int
	// BaseEffectRadius is the AREA/ENEMIES target radius used when a
	// skill's effects name no radius of their own.
	BaseEffectRadius float64
	// BaseProjectileSpeed stamps PROJECTILE_CREATED.Speed for skills that
	// don't carry their own projectile speed.
	BaseProjectileSpeed float64
	// EvolutionCheckInterval gates how often scanEvolutions runs; it does
	// not need to run every tick since evolution availability changes only
	// on level-up or requirement changes.
	EvolutionCheckInterval time.Duration
	// SkillSelectionSeed seeds the deterministic splitmix64 generator used
	// by GetAvailableSkillsForSelection; zero falls back to a fixed default.
	SkillSelectionSeed uint64
}

// DefaultSkillConfig returns the system's documented defaults (§4.15).
func DefaultSkillConfig() SkillConfig {
	return SkillConfig{
		MaxActiveEffects:       50,
		BaseEffectRadius:       0,
		BaseProjectileSpeed:    300,
		EvolutionCheckInterval: time.Second,
		SkillSelectionSeed:     0x9E3779B97F4A7C15,
	}
}

// SkillSystem resolves activation, cooldowns, per-tick effect lifecycle and
// evolution of owned skills (§4.15).
type SkillSystem struct {
	BaseSystem
	bus       *ecs.EventBus
	now       func() time.Time
	templates map[string]*components.Skill
	rngState  uint64
	config    SkillConfig

	nextEvolutionScan time.Time
}

// NewSkillSystem creates the skill system with config. A zero-value field
// in config falls back to DefaultSkillConfig's value for that field.
func NewSkillSystem(bus *ecs.EventBus, config SkillConfig) *SkillSystem {
	defaults := DefaultSkillConfig()
	if config.SkillSelectionSeed == 0 {
		config.SkillSelectionSeed = defaults.SkillSelectionSeed
	}
	if config.MaxActiveEffects <= 0 {
		config.MaxActiveEffects = defaults.MaxActiveEffects
	}
	if config.BaseProjectileSpeed <= 0 {
		config.BaseProjectileSpeed = defaults.BaseProjectileSpeed
	}
	if config.EvolutionCheckInterval <= 0 {
		config.EvolutionCheckInterval = defaults.EvolutionCheckInterval
	}
	return &SkillSystem{
		BaseSystem: NewBaseSystem(SkillSystemName, []ecs.ComponentType{
			ecs.ComponentTypeSkills,
		}),
		bus:       bus,
		now:       time.Now,
		templates: make(map[string]*components.Skill),
		rngState:  config.SkillSelectionSeed,
		config:    config,
	}
}

// RegisterSkillTemplate adds skill to the catalogue consulted by
// GetAvailableSkillsForSelection. It is not itself learned by anyone.
func (ss *SkillSystem) RegisterSkillTemplate(skill *components.Skill) {
	ss.templates[skill.ID] = skill
}

// nextRand advances and returns the next splitmix64 value (§4.15).
func (ss *SkillSystem) nextRand() uint64 {
	ss.rngState += 0x9E3779B97F4A7C15
	z := ss.rngState
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// GetAvailableSkillsForSelection returns up to count skill templates the
// entity does not already own, in a deterministic shuffled order driven by
// the system's seeded splitmix64 generator (§4.15).
func (ss *SkillSystem) GetAvailableSkillsForSelection(world *ecs.World, entity ecs.EntityID, count int) []*components.Skill {
	var owned map[string]*components.Skill
	if skillsComp, ok := world.GetComponent(entity, ecs.ComponentTypeSkills); ok {
		if skillSet, ok := skillsComp.(*components.Skills); ok {
			owned = skillSet.Owned
		}
	}

	candidates := make([]*components.Skill, 0, len(ss.templates))
	for id, tmpl := range ss.templates {
		if _, has := owned[id]; !has {
			candidates = append(candidates, tmpl)
		}
	}

	for i := len(candidates) - 1; i > 0; i-- {
		j := int(ss.nextRand() % uint64(i+1))
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	if count < len(candidates) {
		candidates = candidates[:count]
	}
	return candidates
}

// ActivateSkill runs entity's owned skillID against targetPos (ignored for
// SELF targeting), applying every one of its effects and emitting
// SKILL_ACTIVATED (§4.15).
func (ss *SkillSystem) ActivateSkill(world *ecs.World, entity ecs.EntityID, skillID string, targetPos ecs.Vector2, hasTargetPos bool) error {
	skillSet, err := ss.skillsOf(world, entity)
	if err != nil {
		return err
	}

	skill, ok := skillSet.Owned[skillID]
	if !ok {
		return ecs.SkillNotFoundErr(SkillSystemName, entity, skillID)
	}
	if skill.Kind != components.SkillKindActive {
		return ecs.SkillNotActiveErr(SkillSystemName, entity, skillID)
	}

	now := ss.now()
	if !skill.LastUsed.IsZero() && now.Sub(skill.LastUsed) < time.Duration(skill.CooldownMs)*time.Millisecond {
		return ecs.SkillOnCooldownErr(SkillSystemName, entity, skillID)
	}
	for _, req := range skill.Requirements {
		if _, met := skillSet.Owned[req]; !met {
			return ecs.RequirementsNotMetErr(SkillSystemName, entity, skillID)
		}
	}

	targets := ss.resolveTargets(world, entity, skill, targetPos, hasTargetPos)
	if len(targets) == 0 && skill.TargetType != components.SkillTargetProjectile {
		return ecs.EmptyTargetListErr(SkillSystemName, entity)
	}

	skill.LastUsed = now
	for _, effect := range skill.Effects {
		ss.applyEffect(world, entity, skill, effect, targets, now)
	}

	ss.bus.Emit(ecs.EventSkillActivated, ecs.SkillActivatedData{Entity: entity, SkillID: skillID, Targets: targets}, "skills", entity)
	return nil
}

func (ss *SkillSystem) resolveTargets(world *ecs.World, entity ecs.EntityID, skill *components.Skill, targetPos ecs.Vector2, hasTargetPos bool) []ecs.EntityID {
	switch skill.TargetType {
	case components.SkillTargetSelf:
		return []ecs.EntityID{entity}

	case components.SkillTargetEnemies, components.SkillTargetArea:
		origin := targetPos
		if !hasTargetPos {
			if transform, ok := ss.transformOf(world, entity); ok {
				origin = transform.Position
			}
		}
		radius := ss.effectRadius(skill)
		candidates := world.GetEntitiesWithComponents(ecs.ComponentTypeTransform)
		var targets []ecs.EntityID
		for _, candidateID := range candidates {
			if skill.TargetType == components.SkillTargetEnemies && candidateID == entity {
				continue
			}
			transform, ok := ss.transformOf(world, candidateID)
			if !ok {
				continue
			}
			if transform.Position.Distance(origin) <= radius {
				targets = append(targets, candidateID)
			}
		}
		return targets

	case components.SkillTargetProjectile:
		if transform, ok := ss.transformOf(world, entity); ok {
			direction := ecs.Vector2{}
			if hasTargetPos {
				direction = targetPos.Sub(transform.Position).Normalized()
			}
			ss.bus.Emit(ecs.EventProjectileCreated, ecs.ProjectileCreatedData{
				Owner:     entity,
				SkillID:   skill.ID,
				Position:  transform.Position,
				Direction: direction,
				Speed:     ss.config.BaseProjectileSpeed,
				Damage:    ss.projectileDamage(skill),
			}, "skills", entity)
		}
		return nil
	}
	return nil
}

// effectRadius returns the largest radius named by skill's effects, falling
// back to the system's configured default for effects that name none.
func (ss *SkillSystem) effectRadius(skill *components.Skill) float64 {
	radius := 0.0
	for _, e := range skill.Effects {
		if e.Radius > radius {
			radius = e.Radius
		}
	}
	if radius == 0 {
		return ss.config.BaseEffectRadius
	}
	return radius
}

// projectileDamage returns skill's largest DAMAGE effect value, scaled by
// level the same way applyEffect scales it.
func (ss *SkillSystem) projectileDamage(skill *components.Skill) float64 {
	damage := 0.0
	for _, e := range skill.Effects {
		if e.Type == components.EffectDamage && e.Value > damage {
			damage = e.Value
		}
	}
	return damage * float64(skill.Level)
}

func (ss *SkillSystem) applyEffect(world *ecs.World, source ecs.EntityID, skill *components.Skill, effect components.Effect, targets []ecs.EntityID, now time.Time) {
	scaled := effect
	scaled.Value = effect.Value * float64(skill.Level)

	switch effect.Type {
	case components.EffectDamage:
		for _, targetID := range targets {
			if health, ok := ss.healthOf(world, targetID); ok {
				wasDead := health.IsDead()
				health.TakeDamage(int(scaled.Value), now)
				ss.bus.Emit(ecs.EventDamageDealt, ecs.DamageDealtData{Attacker: source, Target: targetID, Amount: scaled.Value}, "skills", source)
				if !wasDead && health.IsDead() {
					ss.bus.Emit(ecs.EventEntityKilled, ecs.EntityKilledData{Killer: source, Victim: targetID}, "skills", targetID)
				}
			}
		}

	case components.EffectHeal:
		for _, targetID := range targets {
			if health, ok := ss.healthOf(world, targetID); ok {
				health.Heal(int(scaled.Value))
			}
		}

	case components.EffectBuff, components.EffectDebuff, components.EffectAttributeModify:
		for _, targetID := range targets {
			ss.addPersistentEffect(world, source, skill.ID, scaled, targetID, now)
		}
	}

	ss.bus.Emit(ecs.EventSkillEffectApplied, ecs.SkillEffectAppliedData{Entity: source, SkillID: skill.ID, Effect: string(effect.Type)}, "skills", source)
}

func (ss *SkillSystem) addPersistentEffect(world *ecs.World, source ecs.EntityID, skillID string, effect components.Effect, target ecs.EntityID, now time.Time) {
	skillSet, err := ss.skillsOf(world, target)
	if err != nil {
		return
	}
	active := components.ActiveEffect{
		ID:             skillID,
		SkillID:        skillID,
		SourceEntityID: source,
		Effect:         effect,
		StartTime:      now,
	}
	if effect.Duration > 0 {
		active.EndTime = now.Add(time.Duration(effect.Duration) * time.Millisecond)
		active.HasEndTime = true
	}
	skillSet.AddActiveEffect(active, ss.config.MaxActiveEffects)
}

// UpgradeSkill spends one skill point to raise skillID's level, emitting
// SKILL_LEVEL_UP on success.
func (ss *SkillSystem) UpgradeSkill(world *ecs.World, entity ecs.EntityID, skillID string) error {
	skillSet, err := ss.skillsOf(world, entity)
	if err != nil {
		return err
	}
	if !skillSet.UpgradeSkill(skillID) {
		return ecs.RequirementsNotMetErr(SkillSystemName, entity, skillID)
	}
	ss.bus.Emit(ecs.EventSkillLevelUp, ecs.SkillLevelUpData{Entity: entity, SkillID: skillID, NewLevel: skillSet.Owned[skillID].Level}, "skills", entity)
	return nil
}

// EvolveSkill replaces an entity's maxed-out skillID with intoID, which must
// appear in skillID's EvolveInto list, learning intoID at level 1 and
// dropping the predecessor.
func (ss *SkillSystem) EvolveSkill(world *ecs.World, entity ecs.EntityID, skillID, intoID string) error {
	skillSet, err := ss.skillsOf(world, entity)
	if err != nil {
		return err
	}
	skill, ok := skillSet.Owned[skillID]
	if !ok {
		return ecs.SkillNotFoundErr(SkillSystemName, entity, skillID)
	}
	if skill.Level < skill.MaxLevel {
		return ecs.EvolutionUnavailableErr(SkillSystemName, entity, skillID, intoID)
	}
	allowed := false
	for _, candidate := range skill.EvolveInto {
		if candidate == intoID {
			allowed = true
			break
		}
	}
	if !allowed {
		return ecs.EvolutionUnavailableErr(SkillSystemName, entity, skillID, intoID)
	}

	template, ok := ss.templates[intoID]
	if !ok {
		return ecs.SkillNotFoundErr(SkillSystemName, entity, intoID)
	}
	evolved := *template
	delete(skillSet.Owned, skillID)
	skillSet.LearnSkill(&evolved)
	skillSet.EvolutionProgress[intoID] = true
	return nil
}

// scanEvolutions emits SKILL_EVOLUTION_AVAILABLE, once, for every owned
// maxed-out skill whose evolution target's prerequisites entity already
// meets. It marks skillSet.EvolutionProgress[targetID] itself, keyed by the
// evolution target rather than the predecessor, so the same target is never
// re-announced on a later tick.
func (ss *SkillSystem) scanEvolutions(entity ecs.EntityID, skillSet *components.Skills) {
	for _, skill := range skillSet.Owned {
		if skill.Level < skill.MaxLevel || len(skill.EvolveInto) == 0 {
			continue
		}
		for _, targetID := range skill.EvolveInto {
			if skillSet.EvolutionProgress[targetID] {
				continue
			}
			template, ok := ss.templates[targetID]
			if !ok {
				continue
			}
			prereqsMet := true
			for _, req := range template.Requirements {
				if _, has := skillSet.Owned[req]; !has {
					prereqsMet = false
					break
				}
			}
			if !prereqsMet {
				continue
			}
			skillSet.EvolutionProgress[targetID] = true
			ss.bus.Emit(ecs.EventSkillEvolutionAvailable, ecs.SkillEvolutionAvailableData{Entity: entity, SkillID: targetID}, "skills", entity)
		}
	}
}

// Update expires lapsed active effects, re-applies periodic DAMAGE/HEAL
// effects and recomputes ATTRIBUTE_MODIFY composition against each matched
// entity's captured baseline (§4.15). scanEvolutions only runs once every
// config.EvolutionCheckInterval.
func (ss *SkillSystem) Update(ctx ecs.Context, world *ecs.World, entities []ecs.EntityID) error {
	dt := ctx.DeltaTime / 1000
	now := ss.now()

	runEvolutionScan := ss.nextEvolutionScan.IsZero() || !now.Before(ss.nextEvolutionScan)
	if runEvolutionScan {
		ss.nextEvolutionScan = now.Add(ss.config.EvolutionCheckInterval)
	}

	for _, entity := range entities {
		skillsComp, ok := world.GetComponent(entity, ecs.ComponentTypeSkills)
		if !ok {
			continue
		}
		skillSet, ok := skillsComp.(*components.Skills)
		if !ok {
			continue
		}

		skillSet.ExpireEffects(now)
		ss.tickPeriodicEffects(world, entity, skillSet, dt, now)
		ss.recomputeAttributeModifiers(world, entity, skillSet)
		if runEvolutionScan {
			ss.scanEvolutions(entity, skillSet)
		}
	}

	return nil
}

func (ss *SkillSystem) tickPeriodicEffects(world *ecs.World, entity ecs.EntityID, skillSet *components.Skills, dt float64, now time.Time) {
	for _, active := range skillSet.ActiveEffects {
		switch active.Effect.Type {
		case components.EffectDamage, components.EffectHeal:
			if active.Effect.Chance > 0 && active.Effect.Chance < 1 {
				if float64(ss.nextRand()%1000)/1000 > active.Effect.Chance {
					continue
				}
			}
			amount := int(active.Effect.Value * dt)
			if amount <= 0 {
				continue
			}
			if health, ok := ss.healthOf(world, entity); ok {
				if active.Effect.Type == components.EffectHeal {
					health.Heal(amount)
				} else {
					health.TakeDamage(amount, now)
				}
			}
		}
	}
}

func (ss *SkillSystem) recomputeAttributeModifiers(world *ecs.World, entity ecs.EntityID, skillSet *components.Skills) {
	combat, hasCombat := ss.combatOf(world, entity)
	movement, hasMovement := ss.movementOf(world, entity)
	if !hasCombat && !hasMovement {
		return
	}

	baseDamage := 0.0
	if hasCombat {
		baseDamage = combat.Weapon.Damage
	}
	baseSpeed := 0.0
	if hasMovement {
		baseSpeed = movement.MaxSpeed
	}
	skillSet.CaptureBaseline(baseDamage, baseSpeed)

	damageMultiplier, speedMultiplier := 1.0, 1.0
	for _, active := range skillSet.ActiveEffects {
		if active.Effect.Type != components.EffectAttributeModify {
			continue
		}
		if metaAttr, ok := active.Effect.Metadata["attribute"]; ok {
			switch metaAttr {
			case "speed":
				speedMultiplier += active.Effect.Value
				continue
			}
		}
		damageMultiplier += active.Effect.Value
	}

	if hasCombat {
		combat.Weapon.Damage = skillSet.Baseline.WeaponDamage * damageMultiplier
	}
	if hasMovement {
		movement.MaxSpeed = skillSet.Baseline.MaxSpeed * speedMultiplier
	}
}

func (ss *SkillSystem) skillsOf(world *ecs.World, entity ecs.EntityID) (*components.Skills, error) {
	comp, ok := world.GetComponent(entity, ecs.ComponentTypeSkills)
	if !ok {
		return nil, ecs.ComponentNotFoundErr(entity, ecs.ComponentTypeSkills)
	}
	skillSet, ok := comp.(*components.Skills)
	if !ok {
		return nil, ecs.ComponentNotFoundErr(entity, ecs.ComponentTypeSkills)
	}
	return skillSet, nil
}

func (ss *SkillSystem) transformOf(world *ecs.World, entity ecs.EntityID) (*components.Transform, bool) {
	comp, ok := world.GetComponent(entity, ecs.ComponentTypeTransform)
	if !ok {
		return nil, false
	}
	transform, ok := comp.(*components.Transform)
	return transform, ok
}

func (ss *SkillSystem) healthOf(world *ecs.World, entity ecs.EntityID) (*components.Health, bool) {
	comp, ok := world.GetComponent(entity, ecs.ComponentTypeHealth)
	if !ok {
		return nil, false
	}
	health, ok := comp.(*components.Health)
	return health, ok
}

func (ss *SkillSystem) combatOf(world *ecs.World, entity ecs.EntityID) (*components.Combat, bool) {
	comp, ok := world.GetComponent(entity, ecs.ComponentTypeCombat)
	if !ok {
		return nil, false
	}
	combat, ok := comp.(*components.Combat)
	return combat, ok
}

func (ss *SkillSystem) movementOf(world *ecs.World, entity ecs.EntityID) (*components.Movement, bool) {
	comp, ok := world.GetComponent(entity, ecs.ComponentTypeMovement)
	if !ok {
		return nil, false
	}
	movement, ok := comp.(*components.Movement)
	return movement, ok
}

package systems

import (
	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// DifficultySystemName is the registration name for DifficultySystem.
const DifficultySystemName ecs.SystemName = "difficulty"

// Difficulty transition thresholds, expressed as a rolling performance
// score (kills per minute, penalized per death). Resolves the Open
// Question left unspecified for CurrentLevel's transition points; decision
// recorded in DESIGN.md.
const (
	hardScoreThreshold = 15.0
	easyScoreThreshold = -5.0
	deathPenalty       = 2.0
)

var difficultyModifiers = map[components.DifficultyLevel]components.Modifiers{
	components.DifficultyEasy:   {EnemyHealthMultiplier: 0.75, EnemyDamageMultiplier: 0.75, SpawnRateMultiplier: 0.75},
	components.DifficultyNormal: {EnemyHealthMultiplier: 1, EnemyDamageMultiplier: 1, SpawnRateMultiplier: 1},
	components.DifficultyHard:   {EnemyHealthMultiplier: 1.5, EnemyDamageMultiplier: 1.5, SpawnRateMultiplier: 1.3},
}

// DifficultySystem tracks rolling kill/death performance per entity and
// retunes its Difficulty tier and modifiers accordingly (§12 supplement).
type DifficultySystem struct {
	BaseSystem
	bus   *ecs.EventBus
	world *ecs.World
}

// NewDifficultySystem creates the difficulty system, subscribing to
// ENTITY_KILLED and DAMAGE_DEALT once attached via Initialize.
func NewDifficultySystem(bus *ecs.EventBus) *DifficultySystem {
	return &DifficultySystem{
		BaseSystem: NewBaseSystem(DifficultySystemName, []ecs.ComponentType{
			ecs.ComponentTypeDifficulty,
		}),
		bus: bus,
	}
}

// Initialize implements ecs.Initializer.
func (ds *DifficultySystem) Initialize(world *ecs.World) error {
	ds.world = world
	ds.bus.On(ecs.EventEntityKilled, ds.onEntityKilled)
	ds.bus.On(ecs.EventDamageDealt, ds.onDamageDealt)
	return nil
}

func (ds *DifficultySystem) onEntityKilled(ev ecs.Event) {
	data, ok := ev.Data.(ecs.EntityKilledData)
	if !ok || ds.world == nil {
		return
	}
	if difficulty, ok := ds.difficultyOf(data.Killer); ok {
		difficulty.Metrics.Kills++
	}
	if difficulty, ok := ds.difficultyOf(data.Victim); ok {
		difficulty.Metrics.Deaths++
	}
}

func (ds *DifficultySystem) onDamageDealt(ev ecs.Event) {
	data, ok := ev.Data.(ecs.DamageDealtData)
	if !ok || ds.world == nil {
		return
	}
	if difficulty, ok := ds.difficultyOf(data.Target); ok {
		difficulty.Metrics.DamageTaken += data.Amount
	}
}

func (ds *DifficultySystem) difficultyOf(entity ecs.EntityID) (*components.Difficulty, bool) {
	comp, ok := ds.world.GetComponent(entity, ecs.ComponentTypeDifficulty)
	if !ok {
		return nil, false
	}
	difficulty, ok := comp.(*components.Difficulty)
	return difficulty, ok
}

// Update advances TimeAliveSec for every matched entity and re-evaluates
// its difficulty tier from the accumulated performance score.
func (ds *DifficultySystem) Update(ctx ecs.Context, world *ecs.World, entities []ecs.EntityID) error {
	dt := ctx.DeltaTime / 1000

	for _, entity := range entities {
		comp, ok := world.GetComponent(entity, ecs.ComponentTypeDifficulty)
		if !ok {
			continue
		}
		difficulty, ok := comp.(*components.Difficulty)
		if !ok {
			continue
		}

		difficulty.Metrics.TimeAliveSec += dt
		ds.retune(world, entity, difficulty)
	}

	return nil
}

// retune computes a rolling kills-per-minute score, penalized per death,
// and transitions CurrentLevel when it crosses hardScoreThreshold or
// easyScoreThreshold, emitting DIFFICULTY_CHANGED.
func (ds *DifficultySystem) retune(world *ecs.World, entity ecs.EntityID, difficulty *components.Difficulty) {
	if difficulty.Metrics.TimeAliveSec <= 0 {
		return
	}

	killsPerMinute := float64(difficulty.Metrics.Kills) / (difficulty.Metrics.TimeAliveSec / 60)
	score := killsPerMinute - float64(difficulty.Metrics.Deaths)*deathPenalty

	newLevel := components.DifficultyNormal
	switch {
	case score >= hardScoreThreshold:
		newLevel = components.DifficultyHard
	case score <= easyScoreThreshold:
		newLevel = components.DifficultyEasy
	}

	if newLevel == difficulty.CurrentLevel {
		return
	}

	oldScore := difficultyScore(difficulty.CurrentLevel)
	difficulty.CurrentLevel = newLevel
	difficulty.Modifiers = difficultyModifiers[newLevel]

	ds.bus.Emit(ecs.EventDifficultyChanged, ecs.DifficultyChangedData{Entity: entity, OldLevel: oldScore, NewLevel: difficultyScore(newLevel)}, "difficulty", entity)
}

// difficultyScore maps a tier to the ordinal numeric value carried by
// DifficultyChangedData (EASY=0, NORMAL=1, HARD=2).
func difficultyScore(level components.DifficultyLevel) float64 {
	switch level {
	case components.DifficultyEasy:
		return 0
	case components.DifficultyHard:
		return 2
	default:
		return 1
	}
}

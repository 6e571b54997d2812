package systems

import (
	"fmt"
	"math/rand"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// SpawnerSystemName is the registration name for SpawnerSystem.
const SpawnerSystemName ecs.SystemName = "spawner"

// defaultEnemyHealth seeds a freshly spawned enemy's health component;
// every spawned enemy starts with it, whatever its type.
const defaultEnemyHealth = 20

// SpawnerSystem advances each spawner's wave timer and creates enemy
// entities from its catalogue, emitting WAVE_STARTED, ENEMY_SPAWNED and
// WAVE_COMPLETED (§12 supplement — wave-based spawning, grounded on the
// catalogue's batch entity creation pattern).
type SpawnerSystem struct {
	BaseSystem
	bus *ecs.EventBus
	rng *rand.Rand
}

// NewSpawnerSystem creates the spawner system.
func NewSpawnerSystem(bus *ecs.EventBus) *SpawnerSystem {
	return &SpawnerSystem{
		BaseSystem: NewBaseSystem(SpawnerSystemName, []ecs.ComponentType{
			ecs.ComponentTypeSpawner,
		}),
		bus: bus,
		rng: rand.New(rand.NewSource(3)),
	}
}

// Update advances every matched spawner by one tick of wave logic.
func (ss *SpawnerSystem) Update(ctx ecs.Context, world *ecs.World, entities []ecs.EntityID) error {
	for _, spawnerID := range entities {
		comp, ok := world.GetComponent(spawnerID, ecs.ComponentTypeSpawner)
		if !ok {
			continue
		}
		spawner, ok := comp.(*components.Spawner)
		if !ok || !spawner.Active {
			continue
		}

		ss.tick(world, spawnerID, spawner, ctx.TotalTime)
	}
	return nil
}

func (ss *SpawnerSystem) tick(world *ecs.World, spawnerID ecs.EntityID, spawner *components.Spawner, totalTime float64) {
	wave := spawner.CurrentWavePtr()
	if wave == nil {
		return
	}

	waveGroup := ss.waveGroupName(spawnerID, spawner.CurrentWave)

	if spawner.SpawnedCount == 0 && spawner.NextSpawnAt == 0 {
		spawner.NextSpawnAt = totalTime
		_ = world.CreateGroup(waveGroup)
		ss.bus.Emit(ecs.EventWaveStarted, ecs.WaveStartedData{Spawner: spawnerID, WaveID: spawner.CurrentWave, Count: wave.Count}, "spawner", spawnerID)
	}

	if totalTime >= spawner.NextSpawnAt && spawner.SpawnedCount < wave.Count {
		entries := wave.Entries
		if len(entries) == 0 {
			entries = spawner.Catalogue
		}
		enemyType := ss.pickWeighted(entries)
		if enemyType != "" {
			enemyID := ss.spawnEnemy(world, spawner, enemyType)
			_ = world.AddToGroup(enemyID, waveGroup)
			ss.bus.Emit(ecs.EventEnemySpawned, ecs.EnemySpawnedData{Spawner: spawnerID, Enemy: enemyID, WaveID: spawner.CurrentWave}, "spawner", spawnerID)
		}
		spawner.SpawnedCount++
		spawner.NextSpawnAt = totalTime + wave.IntervalMs
	}

	if spawner.SpawnedCount >= wave.Count {
		ss.bus.Emit(ecs.EventWaveCompleted, ecs.WaveCompletedData{Spawner: spawnerID, WaveID: spawner.CurrentWave}, "spawner", spawnerID)
		spawner.AdvanceWave()
	}
}

// waveGroupName names the entity group holding every enemy a given
// spawner's current wave has produced, so callers can address "everything
// wave 2 of spawner 7 spawned" without tracking individual entity IDs.
func (ss *SpawnerSystem) waveGroupName(spawnerID ecs.EntityID, waveIndex int) string {
	return fmt.Sprintf("spawner:%d:wave:%d", spawnerID, waveIndex)
}

// pickWeighted rolls a weighted random entry from entries; empty input
// yields "".
func (ss *SpawnerSystem) pickWeighted(entries []components.SpawnEntry) string {
	total := 0.0
	for _, e := range entries {
		total += e.Weight
	}
	if total <= 0 {
		return ""
	}
	roll := ss.rng.Float64() * total
	for _, e := range entries {
		roll -= e.Weight
		if roll <= 0 {
			return e.EnemyType
		}
	}
	return entries[len(entries)-1].EnemyType
}

// spawnEnemy creates a new entity tagged enemyType, positioned inside
// spawner.Area per spawner.Pattern, with baseline transform and health
// components.
func (ss *SpawnerSystem) spawnEnemy(world *ecs.World, spawner *components.Spawner, enemyType string) ecs.EntityID {
	entity := world.CreateEntity()
	transform := components.NewTransform()
	transform.Position = ss.positionFor(spawner)
	_ = world.AddComponent(entity.ID(), transform)
	_ = world.AddComponent(entity.ID(), components.NewHealth(defaultEnemyHealth))
	_ = world.SetTag(entity.ID(), enemyType)
	return entity.ID()
}

func (ss *SpawnerSystem) positionFor(spawner *components.Spawner) ecs.Vector2 {
	width := spawner.Area.Max.X - spawner.Area.Min.X
	height := spawner.Area.Max.Y - spawner.Area.Min.Y

	switch spawner.Pattern {
	case components.SpawnPatternPerimeter:
		if ss.rng.Intn(2) == 0 {
			x := spawner.Area.Min.X
			if ss.rng.Intn(2) == 1 {
				x = spawner.Area.Max.X
			}
			return ecs.Vector2{X: x, Y: spawner.Area.Min.Y + ss.rng.Float64()*height}
		}
		y := spawner.Area.Min.Y
		if ss.rng.Intn(2) == 1 {
			y = spawner.Area.Max.Y
		}
		return ecs.Vector2{X: spawner.Area.Min.X + ss.rng.Float64()*width, Y: y}

	case components.SpawnPatternClustered:
		centerX := spawner.Area.Min.X + width/2
		centerY := spawner.Area.Min.Y + height/2
		jitter := width * 0.1
		return ecs.Vector2{X: centerX + (ss.rng.Float64()*2-1)*jitter, Y: centerY + (ss.rng.Float64()*2-1)*jitter}

	default: // RANDOM
		return ecs.Vector2{X: spawner.Area.Min.X + ss.rng.Float64()*width, Y: spawner.Area.Min.Y + ss.rng.Float64()*height}
	}
}

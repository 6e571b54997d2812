package components

import (
	"encoding/json"

	"nightswarm/internal/core/ecs"
)

// SpawnEntry is one enemy type in a spawner's catalogue, with its relative
// weight among entries of the same wave.
type SpawnEntry struct {
	EnemyType string  `json:"enemy_type"`
	Weight    float64 `json:"weight"`
}

// Wave is one queued batch of spawns.
type Wave struct {
	Entries   []SpawnEntry `json:"entries"`
	Count     int          `json:"count"`
	IntervalMs float64     `json:"interval_ms"`
}

// SpawnPattern controls where new enemies appear relative to Area.
type SpawnPattern string

const (
	SpawnPatternRandom    SpawnPattern = "RANDOM"
	SpawnPatternPerimeter SpawnPattern = "PERIMETER"
	SpawnPatternClustered SpawnPattern = "CLUSTERED"
)

// Spawner drives wave-based enemy creation (§3, §12 supplement).
type Spawner struct {
	Catalogue    []SpawnEntry `json:"catalogue"`
	Waves        []Wave       `json:"waves"`
	Pattern      SpawnPattern `json:"pattern"`
	Area         ecs.AABB     `json:"area"`
	CurrentWave  int          `json:"current_wave"`
	SpawnedCount int          `json:"spawned_count"`
	NextSpawnAt  float64      `json:"next_spawn_at"`
	Active       bool         `json:"active"`
}

// NewSpawner creates a spawner over the given area with the given pattern.
func NewSpawner(area ecs.AABB, pattern SpawnPattern) *Spawner {
	return &Spawner{Area: area, Pattern: pattern, Active: true}
}

func (s *Spawner) Type() ecs.ComponentType { return ecs.ComponentTypeSpawner }

func (s *Spawner) Clone() ecs.Component {
	clone := *s
	clone.Catalogue = append([]SpawnEntry(nil), s.Catalogue...)
	clone.Waves = make([]Wave, len(s.Waves))
	for i, w := range s.Waves {
		clone.Waves[i] = Wave{Entries: append([]SpawnEntry(nil), w.Entries...), Count: w.Count, IntervalMs: w.IntervalMs}
	}
	return &clone
}

func (s *Spawner) Reset() { *s = Spawner{} }

func (s *Spawner) Serialize() ([]byte, error)   { return json.Marshal(s) }
func (s *Spawner) Deserialize(data []byte) error { return json.Unmarshal(data, s) }

// CurrentWavePtr returns the wave currently being processed, or nil if the
// queue is exhausted.
func (s *Spawner) CurrentWavePtr() *Wave {
	if s.CurrentWave < 0 || s.CurrentWave >= len(s.Waves) {
		return nil
	}
	return &s.Waves[s.CurrentWave]
}

// AdvanceWave moves to the next queued wave and resets spawn counters.
func (s *Spawner) AdvanceWave() {
	s.CurrentWave++
	s.SpawnedCount = 0
	s.NextSpawnAt = 0
}

// HasMoreWaves reports whether a wave remains to be started or completed.
func (s *Spawner) HasMoreWaves() bool {
	return s.CurrentWave < len(s.Waves)
}

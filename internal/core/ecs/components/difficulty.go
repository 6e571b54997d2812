package components

import (
	"encoding/json"

	"nightswarm/internal/core/ecs"
)

// DifficultyLevel is a named difficulty tier (§3, §9 Open Question resolved
// in DESIGN.md).
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "EASY"
	DifficultyNormal DifficultyLevel = "NORMAL"
	DifficultyHard   DifficultyLevel = "HARD"
)

// PerformanceMetrics are the rolling player-performance signals the
// difficulty system reads to adjust CurrentLevel.
type PerformanceMetrics struct {
	Kills        int     `json:"kills"`
	Deaths       int     `json:"deaths"`
	DamageTaken  float64 `json:"damage_taken"`
	TimeAliveSec float64 `json:"time_alive_sec"`
}

// Modifiers are multiplicative scalars the difficulty system derives from
// CurrentLevel and applies to spawn/enemy tuning.
type Modifiers struct {
	EnemyHealthMultiplier float64 `json:"enemy_health_multiplier"`
	EnemyDamageMultiplier float64 `json:"enemy_damage_multiplier"`
	SpawnRateMultiplier   float64 `json:"spawn_rate_multiplier"`
}

// Difficulty tracks the current difficulty tier, the metrics driving it and
// the modifiers it currently applies (§3, §12 supplement).
type Difficulty struct {
	CurrentLevel DifficultyLevel    `json:"current_level"`
	Metrics      PerformanceMetrics `json:"metrics"`
	Modifiers    Modifiers          `json:"modifiers"`
}

// NewDifficulty creates a NORMAL-tier difficulty component with neutral
// modifiers.
func NewDifficulty() *Difficulty {
	return &Difficulty{
		CurrentLevel: DifficultyNormal,
		Modifiers:    Modifiers{EnemyHealthMultiplier: 1, EnemyDamageMultiplier: 1, SpawnRateMultiplier: 1},
	}
}

func (d *Difficulty) Type() ecs.ComponentType { return ecs.ComponentTypeDifficulty }

func (d *Difficulty) Clone() ecs.Component {
	clone := *d
	return &clone
}

func (d *Difficulty) Reset() { *d = Difficulty{} }

func (d *Difficulty) Serialize() ([]byte, error)   { return json.Marshal(d) }
func (d *Difficulty) Deserialize(data []byte) error { return json.Unmarshal(data, d) }

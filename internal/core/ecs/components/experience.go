package components

import (
	"encoding/json"
	"math"

	"nightswarm/internal/core/ecs"
)

// xpToNextLevel implements the level curve xpToNextLevel(L) = floor(100*L^1.5)
// (§3/§4.11).
func xpToNextLevel(level int) int {
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// Experience tracks an entity's level and progress toward the next one
// (§3/§4.11).
type Experience struct {
	Level         int `json:"level"`
	CurrentXP     int `json:"current_xp"`
	TotalXP       int `json:"total_xp"`
	XPToNextLevel int `json:"xp_to_next_level"`
}

// NewExperience creates a level-1 experience component.
func NewExperience() *Experience {
	return &Experience{Level: 1, XPToNextLevel: xpToNextLevel(1)}
}

func (e *Experience) Type() ecs.ComponentType { return ecs.ComponentTypeExperience }

func (e *Experience) Clone() ecs.Component {
	clone := *e
	return &clone
}

func (e *Experience) Reset() {
	e.Level = 1
	e.CurrentXP = 0
	e.TotalXP = 0
	e.XPToNextLevel = xpToNextLevel(1)
}

func (e *Experience) Serialize() ([]byte, error)   { return json.Marshal(e) }
func (e *Experience) Deserialize(data []byte) error { return json.Unmarshal(data, e) }

// AddExperience applies n points of XP, rolling over as many levels as n
// covers. Returns the list of levels reached, in order, empty if n <= 0.
func (e *Experience) AddExperience(n int) []int {
	if n <= 0 {
		return nil
	}
	e.CurrentXP += n
	e.TotalXP += n
	var levelsGained []int
	for e.CurrentXP >= e.XPToNextLevel {
		e.CurrentXP -= e.XPToNextLevel
		e.Level++
		levelsGained = append(levelsGained, e.Level)
		e.XPToNextLevel = xpToNextLevel(e.Level)
	}
	return levelsGained
}

// SetLevel jumps directly to level L, resetting progress toward the next
// level. TotalXP is left untouched.
func (e *Experience) SetLevel(level int) {
	e.Level = level
	e.CurrentXP = 0
	e.XPToNextLevel = xpToNextLevel(level + 1)
}

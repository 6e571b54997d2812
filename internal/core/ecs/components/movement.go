package components

import (
	"encoding/json"

	"nightswarm/internal/core/ecs"
)

// Movement holds an entity's velocity, acceleration and speed constraints
// consumed by the movement system (§3/§4.9).
type Movement struct {
	Velocity     ecs.Vector2 `json:"velocity"`
	Acceleration ecs.Vector2 `json:"acceleration"`
	MaxSpeed     float64     `json:"max_speed"`
	Friction     float64     `json:"friction"`
}

// NewMovement creates a movement component with the given speed cap and
// friction coefficient.
func NewMovement(maxSpeed, friction float64) *Movement {
	return &Movement{MaxSpeed: maxSpeed, Friction: friction}
}

func (m *Movement) Type() ecs.ComponentType { return ecs.ComponentTypeMovement }

func (m *Movement) Clone() ecs.Component {
	clone := *m
	return &clone
}

func (m *Movement) Reset() {
	m.Velocity = ecs.Vector2{}
	m.Acceleration = ecs.Vector2{}
	m.MaxSpeed = 0
	m.Friction = 0
}

func (m *Movement) Serialize() ([]byte, error)   { return json.Marshal(m) }
func (m *Movement) Deserialize(data []byte) error { return json.Unmarshal(data, m) }

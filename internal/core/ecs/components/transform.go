package components

import (
	"encoding/json"

	"nightswarm/internal/core/ecs"
)

// Transform holds an entity's position, rotation and scale (§3).
type Transform struct {
	Position ecs.Vector2 `json:"position"`
	Rotation float64     `json:"rotation"`
	Scale    ecs.Vector2 `json:"scale"`
}

// NewTransform creates a transform at the origin with unit scale.
func NewTransform() *Transform {
	return &Transform{Scale: ecs.Vector2{X: 1, Y: 1}}
}

// Type implements ecs.Component.
func (t *Transform) Type() ecs.ComponentType { return ecs.ComponentTypeTransform }

// Clone implements ecs.Component.
func (t *Transform) Clone() ecs.Component {
	clone := *t
	return &clone
}

// Reset implements ecs.Component, restoring pool-release defaults.
func (t *Transform) Reset() {
	t.Position = ecs.Vector2{}
	t.Rotation = 0
	t.Scale = ecs.Vector2{X: 1, Y: 1}
}

// Serialize implements ecs.Component.
func (t *Transform) Serialize() ([]byte, error) { return json.Marshal(t) }

// Deserialize implements ecs.Component.
func (t *Transform) Deserialize(data []byte) error { return json.Unmarshal(data, t) }

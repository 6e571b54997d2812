package components

import (
	"encoding/json"
	"time"

	"nightswarm/internal/core/ecs"
)

// Health tracks current/maximum hit points and the last time damage was
// applied (§3). Invariant: 0 <= current <= maximum.
type Health struct {
	Current      int       `json:"current"`
	Maximum      int       `json:"maximum"`
	LastDamageAt time.Time `json:"last_damage_at"`
}

// NewHealth creates a health component at full maximum.
func NewHealth(maximum int) *Health {
	return &Health{Current: maximum, Maximum: maximum}
}

// Type implements ecs.Component.
func (h *Health) Type() ecs.ComponentType { return ecs.ComponentTypeHealth }

// Clone implements ecs.Component.
func (h *Health) Clone() ecs.Component {
	clone := *h
	return &clone
}

// Reset implements ecs.Component.
func (h *Health) Reset() {
	h.Current = 0
	h.Maximum = 0
	h.LastDamageAt = time.Time{}
}

// Serialize implements ecs.Component.
func (h *Health) Serialize() ([]byte, error) { return json.Marshal(h) }

// Deserialize implements ecs.Component.
func (h *Health) Deserialize(data []byte) error { return json.Unmarshal(data, h) }

// TakeDamage reduces Current by amount, clamped to zero, and stamps
// LastDamageAt. Non-positive amounts are a no-op. Returns the actual
// amount applied.
func (h *Health) TakeDamage(amount int, now time.Time) int {
	if amount <= 0 {
		return 0
	}
	applied := amount
	if applied > h.Current {
		applied = h.Current
	}
	h.Current -= applied
	h.LastDamageAt = now
	return applied
}

// Heal restores Current by amount, clamped to Maximum. Non-positive
// amounts are a no-op. Returns the actual amount restored.
func (h *Health) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	restored := amount
	if h.Current+restored > h.Maximum {
		restored = h.Maximum - h.Current
	}
	h.Current += restored
	return restored
}

// IsDead reports whether Current has reached zero.
func (h *Health) IsDead() bool {
	return h.Current <= 0
}

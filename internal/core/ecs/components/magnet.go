package components

import (
	"encoding/json"

	"nightswarm/internal/core/ecs"
)

// MagneticField describes a collector's attraction radius and pull strength
// (§3/§4.13).
type MagneticField struct {
	Range    float64 `json:"range"`
	Strength float64 `json:"strength"`
}

// Magnet makes an entity attract collectibles within its field (§3/§4.13).
type Magnet struct {
	Field    MagneticField `json:"field"`
	IsActive bool          `json:"is_active"`
	// Filters restricts attraction to these collectible kinds; empty means
	// all kinds are attracted.
	Filters []CollectibleType `json:"filters,omitempty"`
}

// NewMagnet creates an active magnet with the given field.
func NewMagnet(field MagneticField) *Magnet {
	return &Magnet{Field: field, IsActive: true}
}

func (m *Magnet) Type() ecs.ComponentType { return ecs.ComponentTypeMagnet }

func (m *Magnet) Clone() ecs.Component {
	clone := *m
	clone.Filters = append([]CollectibleType(nil), m.Filters...)
	return &clone
}

func (m *Magnet) Reset() { *m = Magnet{} }

func (m *Magnet) Serialize() ([]byte, error)   { return json.Marshal(m) }
func (m *Magnet) Deserialize(data []byte) error { return json.Unmarshal(data, m) }

// Accepts reports whether the magnet attracts the given collectible kind.
func (m *Magnet) Accepts(kind CollectibleType) bool {
	if len(m.Filters) == 0 {
		return true
	}
	for _, f := range m.Filters {
		if f == kind {
			return true
		}
	}
	return false
}

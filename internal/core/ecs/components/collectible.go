package components

import (
	"encoding/json"

	"nightswarm/internal/core/ecs"
)

// CollectibleType classifies the effect a collectible applies on pickup
// (§3/§4.13).
type CollectibleType string

const (
	CollectibleTypeExperience CollectibleType = "EXPERIENCE"
	CollectibleTypeHealth     CollectibleType = "HEALTH"
	CollectibleTypeMana       CollectibleType = "MANA"
	CollectibleTypeCurrency   CollectibleType = "CURRENCY"
)

// Collectible is a pickup entity's payload (§3/§4.13).
type Collectible struct {
	Kind   CollectibleType `json:"kind"`
	Value  float64         `json:"value"`
	Rarity string          `json:"rarity"`
}

// NewCollectible creates a collectible of the given kind, value and rarity.
func NewCollectible(kind CollectibleType, value float64, rarity string) *Collectible {
	return &Collectible{Kind: kind, Value: value, Rarity: rarity}
}

func (c *Collectible) Type() ecs.ComponentType { return ecs.ComponentTypeCollectible }

func (c *Collectible) Clone() ecs.Component {
	clone := *c
	return &clone
}

func (c *Collectible) Reset() { *c = Collectible{} }

func (c *Collectible) Serialize() ([]byte, error)   { return json.Marshal(c) }
func (c *Collectible) Deserialize(data []byte) error { return json.Unmarshal(data, c) }

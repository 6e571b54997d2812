package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nightswarm/internal/core/ecs"
)

func Test_Collectible_CreateAndInitialize(t *testing.T) {
	collectible := NewCollectible(CollectibleTypeHealth, 25, "common")

	assert.Equal(t, ecs.ComponentTypeCollectible, collectible.Type())
	assert.Equal(t, CollectibleTypeHealth, collectible.Kind)
	assert.Equal(t, 25.0, collectible.Value)
}

func Test_Collectible_Serialization(t *testing.T) {
	collectible := NewCollectible(CollectibleTypeExperience, 10, "rare")

	data, err := collectible.Serialize()
	assert.NoError(t, err)

	roundTripped := &Collectible{}
	assert.NoError(t, roundTripped.Deserialize(data))
	assert.Equal(t, collectible.Kind, roundTripped.Kind)
	assert.Equal(t, collectible.Value, roundTripped.Value)
	assert.Equal(t, collectible.Rarity, roundTripped.Rarity)
}

func Test_Collectible_Reset(t *testing.T) {
	collectible := NewCollectible(CollectibleTypeMana, 5, "common")

	collectible.Reset()

	assert.Equal(t, CollectibleType(""), collectible.Kind)
	assert.Equal(t, 0.0, collectible.Value)
}

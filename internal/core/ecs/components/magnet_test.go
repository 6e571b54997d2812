package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nightswarm/internal/core/ecs"
)

func Test_Magnet_CreateAndInitialize(t *testing.T) {
	magnet := NewMagnet(MagneticField{Range: 100, Strength: 50})

	assert.Equal(t, ecs.ComponentTypeMagnet, magnet.Type())
	assert.True(t, magnet.IsActive)
	assert.Equal(t, 100.0, magnet.Field.Range)
}

func Test_Magnet_Accepts_NoFiltersAcceptsAll(t *testing.T) {
	magnet := NewMagnet(MagneticField{Range: 50, Strength: 10})

	assert.True(t, magnet.Accepts(CollectibleTypeHealth))
	assert.True(t, magnet.Accepts(CollectibleTypeCurrency))
}

func Test_Magnet_Accepts_RespectsFilters(t *testing.T) {
	magnet := NewMagnet(MagneticField{Range: 50, Strength: 10})
	magnet.Filters = []CollectibleType{CollectibleTypeHealth}

	assert.True(t, magnet.Accepts(CollectibleTypeHealth))
	assert.False(t, magnet.Accepts(CollectibleTypeCurrency))
}

func Test_Magnet_Clone_CopiesFilters(t *testing.T) {
	original := NewMagnet(MagneticField{Range: 50, Strength: 10})
	original.Filters = []CollectibleType{CollectibleTypeMana}

	cloned := original.Clone().(*Magnet)
	cloned.Filters[0] = CollectibleTypeCurrency

	assert.Equal(t, CollectibleTypeMana, original.Filters[0])
}

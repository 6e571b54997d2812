package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nightswarm/internal/core/ecs"
)

func Test_Spawner_CreateAndInitialize(t *testing.T) {
	spawner := NewSpawner(ecs.AABB{Max: ecs.Vector2{X: 1000, Y: 1000}}, SpawnPatternRandom)

	assert.Equal(t, ecs.ComponentTypeSpawner, spawner.Type())
	assert.True(t, spawner.Active)
	assert.False(t, spawner.HasMoreWaves())
}

func Test_Spawner_WaveProgression(t *testing.T) {
	spawner := NewSpawner(ecs.AABB{}, SpawnPatternRandom)
	spawner.Waves = []Wave{
		{Entries: []SpawnEntry{{EnemyType: "grunt", Weight: 1}}, Count: 5},
		{Entries: []SpawnEntry{{EnemyType: "elite", Weight: 1}}, Count: 2},
	}

	assert.True(t, spawner.HasMoreWaves())
	current := spawner.CurrentWavePtr()
	assert.Equal(t, "grunt", current.Entries[0].EnemyType)

	spawner.AdvanceWave()
	assert.Equal(t, 1, spawner.CurrentWave)
	assert.Equal(t, 0, spawner.SpawnedCount)

	spawner.AdvanceWave()
	assert.False(t, spawner.HasMoreWaves())
	assert.Nil(t, spawner.CurrentWavePtr())
}

func Test_Spawner_Serialization(t *testing.T) {
	spawner := NewSpawner(ecs.AABB{Max: ecs.Vector2{X: 500, Y: 500}}, SpawnPatternPerimeter)
	spawner.Waves = []Wave{{Count: 3}}

	data, err := spawner.Serialize()
	assert.NoError(t, err)

	roundTripped := &Spawner{}
	assert.NoError(t, roundTripped.Deserialize(data))
	assert.Equal(t, spawner.Pattern, roundTripped.Pattern)
	assert.Equal(t, spawner.Waves, roundTripped.Waves)
}

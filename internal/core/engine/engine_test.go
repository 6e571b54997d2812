package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

func Test_Engine_New_StartsWithEmptyWorld(t *testing.T) {
	e := New(DefaultConfig(), nil)
	require.NotNil(t, e.GetWorld())
	assert.Equal(t, 0, e.GetWorld().EntityCount())
}

func Test_Engine_TickDoesNothingBeforeStart(t *testing.T) {
	e := New(DefaultConfig(), nil)
	e.Tick()
	assert.False(t, e.Running())
}

func Test_Engine_StartAndTick_AdvancesFrameCount(t *testing.T) {
	e := New(DefaultConfig(), nil)
	e.Start()

	e.mu.Lock()
	e.lastTick = time.Now().Add(-100 * time.Millisecond)
	e.mu.Unlock()

	e.Tick()

	assert.Greater(t, e.GetWorld().FrameCount(), uint64(0))
}

func Test_Engine_EventHistory_RecordsEmittedEvents(t *testing.T) {
	e := New(DefaultConfig(), nil)

	entity := e.GetWorld().CreateEntity()
	e.GetBus().Emit(ecs.EventEntityKilled, ecs.EntityKilledData{Killer: entity.ID(), Victim: entity.ID()}, "test", entity.ID())

	events := e.GetEvents()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.EventEntityKilled, events[0].Type)
}

func Test_Engine_EventHistory_IsBoundedBySize(t *testing.T) {
	config := DefaultConfig()
	config.EventHistorySize = 3
	e := New(config, nil)

	entity := e.GetWorld().CreateEntity()
	for i := 0; i < 10; i++ {
		e.GetBus().Emit(ecs.EventEntityKilled, ecs.EntityKilledData{Killer: entity.ID(), Victim: entity.ID()}, "test", entity.ID())
	}

	assert.Len(t, e.GetEvents(), 3)
}

func Test_Engine_Destroy_ClearsWorldAndHistory(t *testing.T) {
	e := New(DefaultConfig(), nil)
	entity := e.GetWorld().CreateEntity()
	e.GetWorld().AddComponent(entity.ID(), components.NewTransform())
	e.GetBus().Emit(ecs.EventEntityKilled, ecs.EntityKilledData{Killer: entity.ID(), Victim: entity.ID()}, "test", entity.ID())

	e.Destroy()

	assert.Equal(t, 0, e.GetWorld().EntityCount())
	assert.Empty(t, e.GetEvents())
}

func Test_Engine_Stop_HaltsTicking(t *testing.T) {
	e := New(DefaultConfig(), nil)
	e.Start()
	e.Stop()
	assert.False(t, e.Running())
}

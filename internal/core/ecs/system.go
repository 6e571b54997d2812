package ecs

import "time"

// Context is passed to every System.Update call. Time values are in
// milliseconds; FrameCount is the World's tick counter (§3).
type Context struct {
	DeltaTime  float64
	TotalTime  float64
	FrameCount uint64
}

// System is a named capability with a required-component signature and an
// update function over the entities that satisfy it. Systems are enabled by
// default (§3, §4.4).
type System interface {
	Name() SystemName
	RequiredComponents() []ComponentType
	Update(ctx Context, world *World, entities []EntityID) error
	Enabled() bool
	SetEnabled(bool)
}

// Initializer is implemented by systems that need one-time setup when
// attached to a world.
type Initializer interface {
	Initialize(world *World) error
}

// Destroyer is implemented by systems that need teardown when detached or
// when the world is destroyed.
type Destroyer interface {
	Destroy() error
}

// SystemMetrics records per-tick timing for one attached system, updated by
// World.Update after every call to System.Update (§4.4).
type SystemMetrics struct {
	Name            SystemName
	ExecutionCount  int64
	TotalTime       time.Duration
	LastEntityCount int
	LastElapsed     time.Duration
	ErrorCount      int64
}

// Package engine hosts the fixed-timestep simulation loop that drives the
// ECS world independently of any rendering front end (§4.6). cmd/enginedemo
// wires an ebiten.Game around it purely to pump Update calls.
package engine

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// maxSubsteps bounds how many fixed steps a single Tick call will run
// before giving up on catching the accumulator up to real time, guarding
// against the spiral of death after a long stall (debugger breakpoint,
// GC pause, laptop lid close).
const maxSubsteps = 5

// Config tunes the engine's timestep and event-history retention.
type Config struct {
	TargetFPS       int
	FixedTimeStepMs float64

	// FixedTimeStep selects the accumulator-driven fixed-step loop when
	// true (§4.6). When false, Tick instead advances the world once per
	// call by the actual measured wall-clock delta, with no accumulation
	// and no substep cap — the variable-timestep mode §4.6 also requires.
	FixedTimeStep bool

	EnableEventHistory bool
	EventHistorySize   int

	// EnableProfiler attaches a Profiler to the World so every system's
	// Update is recorded as a "system.<name>" mark (§4.4, §4.7).
	EnableProfiler bool
}

// DefaultConfig returns a 60Hz fixed-step configuration with a bounded
// 256-entry event history.
func DefaultConfig() Config {
	return Config{
		TargetFPS:          60,
		FixedTimeStepMs:    1000.0 / 60.0,
		FixedTimeStep:      true,
		EnableEventHistory: true,
		EventHistorySize:   256,
		EnableProfiler:     true,
	}
}

// Engine owns a World and EventBus and advances them on a fixed timestep,
// accumulating leftover real time across ticks the way a variable-framerate
// host (ebiten, a headless driver, a test harness) naturally produces.
type Engine struct {
	mu     sync.Mutex
	config Config
	world  *ecs.World
	bus    *ecs.EventBus
	logger logrus.FieldLogger

	running     bool
	accumulator float64
	lastTick    time.Time

	profiler *ecs.Profiler

	history     []ecs.Event
	historyOnce sync.Once
}

// New creates an Engine around a freshly constructed World wired to every
// registered component type, and an EventBus that appends to the engine's
// bounded history when EnableEventHistory is set.
func New(config Config, logger logrus.FieldLogger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	registry := ecs.NewComponentRegistry(ecs.DefaultObjectPoolConfig())
	components.RegisterAll(registry)
	world := ecs.NewWorld(registry)
	bus := ecs.NewEventBus(logger)

	e := &Engine{
		config: config,
		world:  world,
		bus:    bus,
		logger: logger,
	}

	if config.EnableEventHistory {
		bus.OnAll(e.recordEvent)
	}

	if config.EnableProfiler {
		e.profiler = ecs.NewProfiler(ecs.DefaultProfilerConfig(), logger)
		world.SetProfiler(e.profiler)
	}

	return e
}

func (e *Engine) recordEvent(ev ecs.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = append(e.history, ev)
	if overflow := len(e.history) - e.config.EventHistorySize; overflow > 0 {
		e.history = e.history[overflow:]
	}
}

// Start arms the tick accumulator. Calling Start on an already-running
// engine is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return
	}
	e.running = true
	e.accumulator = 0
	e.lastTick = time.Now()
}

// Stop halts ticking without discarding world state; Start resumes it.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// Destroy clears the world and drops the retained event history. The
// engine is unusable afterward.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.running = false
	e.world.Clear()
	e.history = nil
}

// GetWorld returns the engine's World.
func (e *Engine) GetWorld() *ecs.World { return e.world }

// GetBus returns the engine's EventBus.
func (e *Engine) GetBus() *ecs.EventBus { return e.bus }

// GetEvents returns a copy of the retained event history, oldest first.
func (e *Engine) GetEvents() []ecs.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]ecs.Event, len(e.history))
	copy(out, e.history)
	return out
}

// GetProfiler returns the engine's Profiler, or nil if EnableProfiler was
// false at construction.
func (e *Engine) GetProfiler() *ecs.Profiler { return e.profiler }

// Tick advances the world by the wall-clock time elapsed since the
// previous Tick call. Call this once per host frame (an ebiten.Game.Update,
// a headless loop iteration, ...).
//
// When config.FixedTimeStep is true (the default), elapsed time accumulates
// and the world advances in fixed FixedTimeStepMs steps, capped at
// maxSubsteps per call, guarding against the spiral of death after a long
// stall (debugger breakpoint, GC pause, laptop lid close). When false, the
// world advances once per call by the measured elapsed delta directly, with
// no accumulation and no substep cap (§4.6's variable-timestep mode).
func (e *Engine) Tick() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}

	now := time.Now()
	elapsed := now.Sub(e.lastTick).Seconds() * 1000
	e.lastTick = now
	fixed := e.config.FixedTimeStep
	step := e.config.FixedTimeStepMs
	world := e.world
	if fixed {
		e.accumulator += elapsed
	}
	e.mu.Unlock()

	if !fixed {
		world.Update(elapsed)
		return
	}

	substeps := 0
	for e.accumulator >= step && substeps < maxSubsteps {
		world.Update(step)
		e.accumulator -= step
		substeps++
	}

	if substeps == maxSubsteps {
		e.mu.Lock()
		e.accumulator = 0
		e.mu.Unlock()
		e.logger.WithField("substeps", substeps).Warn("engine: dropped accumulated time after hitting substep cap")
	}
}

// Running reports whether the engine is currently ticking.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

package ecs

import "sync"

// ObjectPoolConfig configures a single-type object pool (§4.1).
type ObjectPoolConfig struct {
	InitialSize   int
	MaxSize       int
	AutoResize    bool
	EnableMetrics bool
}

// DefaultObjectPoolConfig returns sane defaults for a gameplay component pool.
func DefaultObjectPoolConfig() ObjectPoolConfig {
	return ObjectPoolConfig{
		InitialSize:   DefaultPoolSize,
		MaxSize:       DefaultPoolSize * 8,
		AutoResize:    true,
		EnableMetrics: true,
	}
}

// ObjectPoolStats is a point-in-time snapshot of pool activity.
type ObjectPoolStats struct {
	Acquired    int64
	Released    int64
	CurrentSize int
	PeakSize    int
	Overflow    int64
}

// ObjectPool is a bounded, metrics-tracked reuse pool for a single Component
// type. It is process-wide per component type: created on first registration
// of the type, torn down on World.Clear (§4.1).
type ObjectPool struct {
	mu             sync.Mutex
	factory        ComponentFactory
	config         ObjectPoolConfig
	available      []Component
	totalAllocated int
	stats          ObjectPoolStats
}

// NewObjectPool builds a pool around factory and prewarms it to InitialSize.
func NewObjectPool(factory ComponentFactory, config ObjectPoolConfig) *ObjectPool {
	p := &ObjectPool{factory: factory, config: config}
	p.Prewarm(config.InitialSize)
	return p
}

// Prewarm allocates up to n additional instances, bounded by MaxSize.
func (p *ObjectPool) Prewarm(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < n && p.totalAllocated < p.config.MaxSize; i++ {
		p.available = append(p.available, p.factory())
		p.totalAllocated++
	}
	p.recordSize()
}

// Acquire returns a free instance, allocates a new one below MaxSize, or
// hands back an unpooled transient instance past MaxSize (tracked as
// overflow).
func (p *ObjectPool) Acquire() Component {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.available); n > 0 {
		c := p.available[n-1]
		p.available = p.available[:n-1]
		p.recordAcquire()
		return c
	}

	if p.totalAllocated < p.config.MaxSize {
		c := p.factory()
		p.totalAllocated++
		p.recordAcquire()
		p.recordSize()
		return c
	}

	p.stats.Overflow++
	p.recordAcquire()
	return p.factory()
}

// Release resets c via its own Reset hook and returns it to the pool, or
// discards it if the pool is already at capacity (an overflow transient).
func (p *ObjectPool) Release(c Component) {
	if c == nil {
		return
	}
	c.Reset()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.available) < p.totalAllocated {
		p.available = append(p.available, c)
	}
	if p.config.EnableMetrics {
		p.stats.Released++
	}
}

// Clear tears the pool down: every pooled instance is discarded and the
// pool's allocation count resets to zero. Cumulative counters survive.
func (p *ObjectPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available = nil
	p.totalAllocated = 0
	p.stats.CurrentSize = 0
}

// Statistics returns a snapshot of the pool's counters.
func (p *ObjectPool) Statistics() ObjectPoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *ObjectPool) recordAcquire() {
	if p.config.EnableMetrics {
		p.stats.Acquired++
	}
}

func (p *ObjectPool) recordSize() {
	p.stats.CurrentSize = p.totalAllocated
	if p.totalAllocated > p.stats.PeakSize {
		p.stats.PeakSize = p.totalAllocated
	}
}

// Package systems implements the gameplay systems that drive the ECS
// simulation core: movement, combat, progression, economy, collection,
// enemy AI, skills, spawning and difficulty.
package systems

import (
	"sync"

	"nightswarm/internal/core/ecs"
)

// BaseSystem provides the Name/RequiredComponents/Enabled bookkeeping every
// concrete system embeds (§3, §4.4). Concrete systems supply their own
// Update.
type BaseSystem struct {
	name       ecs.SystemName
	required   []ecs.ComponentType
	mu         sync.RWMutex
	enabled    bool
}

// NewBaseSystem creates an enabled-by-default base system.
func NewBaseSystem(name ecs.SystemName, required []ecs.ComponentType) BaseSystem {
	return BaseSystem{name: name, required: required, enabled: true}
}

// Name implements ecs.System.
func (b *BaseSystem) Name() ecs.SystemName { return b.name }

// RequiredComponents implements ecs.System.
func (b *BaseSystem) RequiredComponents() []ecs.ComponentType { return b.required }

// Enabled implements ecs.System.
func (b *BaseSystem) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled implements ecs.System.
func (b *BaseSystem) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

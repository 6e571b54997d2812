package ecs

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies an event by its stable, string-keyed name (§6).
type EventType string

// Canonical event vocabulary. Stable across releases.
const (
	EventDamageDealt             EventType = "DAMAGE_DEALT"
	EventEntityKilled            EventType = "ENTITY_KILLED"
	EventExperienceGained        EventType = "EXPERIENCE_GAINED"
	EventLevelUp                 EventType = "LEVEL_UP"
	EventResourceGained          EventType = "RESOURCE_GAINED"
	EventResourceTransferred     EventType = "RESOURCE_TRANSFERRED"
	EventItemTransferred         EventType = "ITEM_TRANSFERRED"
	EventItemPurchased           EventType = "ITEM_PURCHASED"
	EventCollectibleCollected    EventType = "COLLECTIBLE_COLLECTED"
	EventSkillActivated          EventType = "SKILL_ACTIVATED"
	EventSkillEffectApplied      EventType = "SKILL_EFFECT_APPLIED"
	EventSkillLevelUp            EventType = "SKILL_LEVEL_UP"
	EventSkillEvolutionAvailable EventType = "SKILL_EVOLUTION_AVAILABLE"
	EventSkillPointsAwarded      EventType = "SKILL_POINTS_AWARDED"
	EventProjectileCreated       EventType = "PROJECTILE_CREATED"
	EventEnemySpawned            EventType = "ENEMY_SPAWNED"
	EventWaveStarted             EventType = "WAVE_STARTED"
	EventWaveCompleted           EventType = "WAVE_COMPLETED"
	EventDifficultyChanged       EventType = "DIFFICULTY_CHANGED"
)

// Event is the envelope every emission carries: {type, timestamp, data,
// source?, entityId?} plus a correlation ID for replay/history consumers
// (§6, SPEC_FULL §11 — the uuid wiring).
type Event struct {
	ID        uuid.UUID
	Type      EventType
	Timestamp time.Time
	Data      interface{}
	Source    string
	EntityID  EntityID
}

// NewEvent builds an Event envelope stamped with a fresh correlation ID and
// the current wall-clock time.
func NewEvent(eventType EventType, data interface{}, source string, entityID EntityID) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Source:    source,
		EntityID:  entityID,
	}
}

// ==============================================
// Per-event payload schemas (§4)
// ==============================================

// DamageDealtData is the payload for EventDamageDealt.
type DamageDealtData struct {
	Attacker  EntityID
	Target    EntityID
	Amount    float64
	Critical  bool
}

// EntityKilledData is the payload for EventEntityKilled.
type EntityKilledData struct {
	Killer EntityID
	Victim EntityID
}

// ExperienceGainedData is the payload for EventExperienceGained.
type ExperienceGainedData struct {
	Entity EntityID
	Amount float64
}

// LevelUpData is the payload for EventLevelUp.
type LevelUpData struct {
	Entity   EntityID
	OldLevel int
	NewLevel int
}

// ResourceGainedData is the payload for EventResourceGained.
type ResourceGainedData struct {
	Entity       EntityID
	ResourceKind string
	Amount       int
}

// ResourceTransferredData is the payload for EventResourceTransferred.
type ResourceTransferredData struct {
	From         EntityID
	To           EntityID
	ResourceKind string
	Amount       int
}

// ItemTransferredData is the payload for EventItemTransferred.
type ItemTransferredData struct {
	From   EntityID
	To     EntityID
	ItemID string
}

// ItemPurchasedData is the payload for EventItemPurchased.
type ItemPurchasedData struct {
	Buyer  EntityID
	Shop   string
	ItemID string
	Cost   int
}

// CollectibleCollectedData is the payload for EventCollectibleCollected.
type CollectibleCollectedData struct {
	Collector    EntityID
	Collectible  EntityID
	CollectType  string
	Value        float64
}

// SkillActivatedData is the payload for EventSkillActivated.
type SkillActivatedData struct {
	Entity  EntityID
	SkillID string
	Targets []EntityID
}

// SkillEffectAppliedData is the payload for EventSkillEffectApplied.
type SkillEffectAppliedData struct {
	Entity  EntityID
	SkillID string
	Effect  string
}

// SkillLevelUpData is the payload for EventSkillLevelUp.
type SkillLevelUpData struct {
	Entity   EntityID
	SkillID  string
	NewLevel int
}

// SkillEvolutionAvailableData is the payload for EventSkillEvolutionAvailable.
type SkillEvolutionAvailableData struct {
	Entity  EntityID
	SkillID string
}

// SkillPointsAwardedData is the payload for EventSkillPointsAwarded.
type SkillPointsAwardedData struct {
	Entity EntityID
	Points int
}

// ProjectileCreatedData is the payload for EventProjectileCreated (§4.15).
type ProjectileCreatedData struct {
	Owner     EntityID
	SkillID   string
	Position  Vector2
	Direction Vector2
	Speed     float64
	Damage    float64
}

// EnemySpawnedData is the payload for EventEnemySpawned.
type EnemySpawnedData struct {
	Spawner  EntityID
	Enemy    EntityID
	WaveID   int
}

// WaveStartedData is the payload for EventWaveStarted.
type WaveStartedData struct {
	Spawner EntityID
	WaveID  int
	Count   int
}

// WaveCompletedData is the payload for EventWaveCompleted.
type WaveCompletedData struct {
	Spawner EntityID
	WaveID  int
}

// DifficultyChangedData is the payload for EventDifficultyChanged.
type DifficultyChangedData struct {
	Entity   EntityID
	OldLevel float64
	NewLevel float64
}

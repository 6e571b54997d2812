package components

import (
	"container/heap"
	"encoding/json"
	"time"

	"nightswarm/internal/core/ecs"
)

// PatrolPoint is one stop in a patrol circuit: the AI waits WaitMs once it
// arrives within arrivalEpsilon of Position before advancing.
type PatrolPoint struct {
	Position ecs.Vector2 `json:"position"`
	WaitMs   float64     `json:"wait_ms"`
}

// actionQueue is a max-priority queue of AIAction, highest Priority first.
type actionQueue []AIAction

func (q actionQueue) Len() int            { return len(q) }
func (q actionQueue) Less(i, j int) bool  { return q[i].Priority > q[j].Priority }
func (q actionQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *actionQueue) Push(x interface{}) { *q = append(*q, x.(AIAction)) }
func (q *actionQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// EnemyAI drives an enemy's state machine, patrol route, threat memory and
// queued actions (§3/§4.14).
type EnemyAI struct {
	BehaviorType            string        `json:"behavior_type"`
	CurrentState            AIState       `json:"current_state"`
	TargetEntityID          ecs.EntityID  `json:"target_entity_id"`
	LastKnownTargetPosition ecs.Vector2   `json:"last_known_target_position"`
	HasTarget               bool          `json:"has_target"`
	DetectionRange          float64       `json:"detection_range"`
	AttackRange             float64       `json:"attack_range"`
	AggressionLevel         float64       `json:"aggression_level"`
	LastActionTime          time.Time     `json:"last_action_time"`
	PatrolPoints            []PatrolPoint `json:"patrol_points"`
	ThreatLevel             float64       `json:"threat_level"`
	LastDamageTime          time.Time     `json:"last_damage_time"`
	LastDamageSource        ecs.EntityID  `json:"last_damage_source"`
	Memory                  map[string]interface{} `json:"memory"`

	patrolIndex int
	waitUntil   time.Time
	actions     actionQueue
}

// NewEnemyAI creates an idle enemy AI with the given detection and attack
// ranges.
func NewEnemyAI(behaviorType string, detectionRange, attackRange float64) *EnemyAI {
	return &EnemyAI{
		BehaviorType:   behaviorType,
		CurrentState:   AIStateIdle,
		DetectionRange: detectionRange,
		AttackRange:    attackRange,
		Memory:         make(map[string]interface{}),
	}
}

func (a *EnemyAI) Type() ecs.ComponentType { return ecs.ComponentTypeEnemyAI }

func (a *EnemyAI) Clone() ecs.Component {
	clone := *a
	clone.PatrolPoints = append([]PatrolPoint(nil), a.PatrolPoints...)
	clone.Memory = make(map[string]interface{}, len(a.Memory))
	for k, v := range a.Memory {
		clone.Memory[k] = v
	}
	clone.actions = append(actionQueue(nil), a.actions...)
	return &clone
}

func (a *EnemyAI) Reset() {
	*a = EnemyAI{Memory: make(map[string]interface{})}
}

func (a *EnemyAI) Serialize() ([]byte, error) {
	return json.Marshal(struct {
		BehaviorType            string                 `json:"behavior_type"`
		CurrentState            AIState                `json:"current_state"`
		TargetEntityID          ecs.EntityID           `json:"target_entity_id"`
		LastKnownTargetPosition ecs.Vector2            `json:"last_known_target_position"`
		HasTarget               bool                   `json:"has_target"`
		DetectionRange          float64                `json:"detection_range"`
		AttackRange             float64                `json:"attack_range"`
		AggressionLevel         float64                `json:"aggression_level"`
		LastActionTime          time.Time              `json:"last_action_time"`
		PatrolPoints            []PatrolPoint          `json:"patrol_points"`
		ThreatLevel             float64                `json:"threat_level"`
		LastDamageTime          time.Time              `json:"last_damage_time"`
		LastDamageSource        ecs.EntityID           `json:"last_damage_source"`
		Memory                  map[string]interface{} `json:"memory"`
		PatrolIndex             int                    `json:"patrol_index"`
	}{
		BehaviorType:            a.BehaviorType,
		CurrentState:            a.CurrentState,
		TargetEntityID:          a.TargetEntityID,
		LastKnownTargetPosition: a.LastKnownTargetPosition,
		HasTarget:               a.HasTarget,
		DetectionRange:          a.DetectionRange,
		AttackRange:             a.AttackRange,
		AggressionLevel:         a.AggressionLevel,
		LastActionTime:          a.LastActionTime,
		PatrolPoints:            a.PatrolPoints,
		ThreatLevel:             a.ThreatLevel,
		LastDamageTime:          a.LastDamageTime,
		LastDamageSource:        a.LastDamageSource,
		Memory:                  a.Memory,
		PatrolIndex:             a.patrolIndex,
	})
}

func (a *EnemyAI) Deserialize(data []byte) error {
	var decoded struct {
		BehaviorType            string                 `json:"behavior_type"`
		CurrentState            AIState                `json:"current_state"`
		TargetEntityID          ecs.EntityID           `json:"target_entity_id"`
		LastKnownTargetPosition ecs.Vector2            `json:"last_known_target_position"`
		HasTarget               bool                   `json:"has_target"`
		DetectionRange          float64                `json:"detection_range"`
		AttackRange             float64                `json:"attack_range"`
		AggressionLevel         float64                `json:"aggression_level"`
		LastActionTime          time.Time              `json:"last_action_time"`
		PatrolPoints            []PatrolPoint          `json:"patrol_points"`
		ThreatLevel             float64                `json:"threat_level"`
		LastDamageTime          time.Time              `json:"last_damage_time"`
		LastDamageSource        ecs.EntityID           `json:"last_damage_source"`
		Memory                  map[string]interface{} `json:"memory"`
		PatrolIndex             int                    `json:"patrol_index"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	a.BehaviorType = decoded.BehaviorType
	a.CurrentState = decoded.CurrentState
	a.TargetEntityID = decoded.TargetEntityID
	a.LastKnownTargetPosition = decoded.LastKnownTargetPosition
	a.HasTarget = decoded.HasTarget
	a.DetectionRange = decoded.DetectionRange
	a.AttackRange = decoded.AttackRange
	a.AggressionLevel = decoded.AggressionLevel
	a.LastActionTime = decoded.LastActionTime
	a.PatrolPoints = decoded.PatrolPoints
	a.ThreatLevel = decoded.ThreatLevel
	a.LastDamageTime = decoded.LastDamageTime
	a.LastDamageSource = decoded.LastDamageSource
	if decoded.Memory == nil {
		decoded.Memory = make(map[string]interface{})
	}
	a.Memory = decoded.Memory
	a.patrolIndex = decoded.PatrolIndex
	return nil
}

// SetTarget assigns a tracked target entity and its last known position.
func (a *EnemyAI) SetTarget(target ecs.EntityID, position ecs.Vector2) {
	a.TargetEntityID = target
	a.LastKnownTargetPosition = position
	a.HasTarget = true
}

// ClearTarget drops the tracked target.
func (a *EnemyAI) ClearTarget() {
	a.TargetEntityID = ecs.InvalidEntityID
	a.HasTarget = false
}

// SetPatrolPoints installs a new patrol circuit and resets the cursor.
func (a *EnemyAI) SetPatrolPoints(points []PatrolPoint) {
	a.PatrolPoints = append([]PatrolPoint(nil), points...)
	a.patrolIndex = 0
	a.waitUntil = time.Time{}
}

// CurrentPatrolPoint returns the patrol point the AI is heading toward, and
// whether any patrol points are configured.
func (a *EnemyAI) CurrentPatrolPoint() (PatrolPoint, bool) {
	if len(a.PatrolPoints) == 0 {
		return PatrolPoint{}, false
	}
	return a.PatrolPoints[a.patrolIndex], true
}

// ArriveAtPatrolPoint marks the current patrol point reached at now, setting
// waitUntil and returning it. Call AdvancePatrolIfWaited once waitUntil has
// elapsed to move to the next point.
func (a *EnemyAI) ArriveAtPatrolPoint(now time.Time) time.Time {
	if len(a.PatrolPoints) == 0 {
		return now
	}
	a.waitUntil = now.Add(time.Duration(a.PatrolPoints[a.patrolIndex].WaitMs) * time.Millisecond)
	return a.waitUntil
}

// AdvancePatrolIfWaited moves to the next patrol point once now has passed
// the wait deadline set by ArriveAtPatrolPoint. Returns true if it advanced.
func (a *EnemyAI) AdvancePatrolIfWaited(now time.Time) bool {
	if len(a.PatrolPoints) == 0 || a.waitUntil.IsZero() || now.Before(a.waitUntil) {
		return false
	}
	a.patrolIndex = (a.patrolIndex + 1) % len(a.PatrolPoints)
	a.waitUntil = time.Time{}
	return true
}

// RecordDamage updates threat and memory in response to incoming damage.
func (a *EnemyAI) RecordDamage(amount float64, source ecs.EntityID, now time.Time) {
	a.LastDamageTime = now
	a.LastDamageSource = source
	a.ThreatLevel += amount
	if a.Memory == nil {
		a.Memory = make(map[string]interface{})
	}
	a.Memory["lastDamage"] = amount
}

// PushAction enqueues an action at the given priority; higher pops first.
func (a *EnemyAI) PushAction(kind string, priority int, data map[string]interface{}) {
	heap.Push(&a.actions, AIAction{Kind: kind, Priority: priority, Data: data})
}

// GetNextAction pops the highest-priority queued action, if any.
func (a *EnemyAI) GetNextAction() (AIAction, bool) {
	if a.actions.Len() == 0 {
		return AIAction{}, false
	}
	return heap.Pop(&a.actions).(AIAction), true
}

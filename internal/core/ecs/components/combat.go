package components

import (
	"encoding/json"
	"time"

	"nightswarm/internal/core/ecs"
)

// Weapon describes one combatant's attack profile (§3).
type Weapon struct {
	Damage             float64 `json:"damage"`
	Range              float64 `json:"range"`
	AttackSpeed        float64 `json:"attack_speed"`
	CriticalChance     float64 `json:"critical_chance,omitempty"`
	CriticalMultiplier float64 `json:"critical_multiplier,omitempty"`
}

// Combat holds an entity's weapon, current target and attack cadence state
// (§3/§4.10).
type Combat struct {
	Weapon         Weapon       `json:"weapon"`
	CurrentTarget  ecs.EntityID `json:"current_target"`
	HasTarget      bool         `json:"has_target"`
	LastAttackAt   time.Time    `json:"last_attack_at"`
	AutoAttack     bool         `json:"auto_attack"`
}

// NewCombat creates a combat component with the given weapon.
func NewCombat(weapon Weapon, autoAttack bool) *Combat {
	return &Combat{Weapon: weapon, AutoAttack: autoAttack}
}

func (c *Combat) Type() ecs.ComponentType { return ecs.ComponentTypeCombat }

func (c *Combat) Clone() ecs.Component {
	clone := *c
	return &clone
}

func (c *Combat) Reset() {
	*c = Combat{}
}

func (c *Combat) Serialize() ([]byte, error)   { return json.Marshal(c) }
func (c *Combat) Deserialize(data []byte) error { return json.Unmarshal(data, c) }

// CooldownMs returns the milliseconds required between attacks.
func (c *Combat) CooldownMs() float64 {
	if c.Weapon.AttackSpeed <= 0 {
		return 0
	}
	return 1000 / c.Weapon.AttackSpeed
}

// CanAttack reports whether enough time has elapsed since LastAttackAt.
func (c *Combat) CanAttack(now time.Time) bool {
	if c.LastAttackAt.IsZero() {
		return true
	}
	return now.Sub(c.LastAttackAt).Seconds()*1000 >= c.CooldownMs()
}

// SetTarget assigns the current target.
func (c *Combat) SetTarget(target ecs.EntityID) {
	c.CurrentTarget = target
	c.HasTarget = true
}

// ClearTarget drops the current target.
func (c *Combat) ClearTarget() {
	c.CurrentTarget = ecs.InvalidEntityID
	c.HasTarget = false
}

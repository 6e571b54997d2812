package components

import (
	"encoding/json"

	"nightswarm/internal/core/ecs"
)

// ItemStack is one slot's contents.
type ItemStack struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Inventory holds bounded item slots and a resource map consumed by the
// economy system (§3/§4.12).
type Inventory struct {
	Capacity  int                `json:"capacity"`
	Items     []ItemStack        `json:"items"`
	Resources map[string]float64 `json:"resources"`
}

// NewInventory creates an empty inventory with the given slot capacity.
func NewInventory(capacity int) *Inventory {
	return &Inventory{Capacity: capacity, Resources: make(map[string]float64)}
}

func (inv *Inventory) Type() ecs.ComponentType { return ecs.ComponentTypeInventory }

func (inv *Inventory) Clone() ecs.Component {
	clone := *inv
	clone.Items = append([]ItemStack(nil), inv.Items...)
	clone.Resources = make(map[string]float64, len(inv.Resources))
	for k, v := range inv.Resources {
		clone.Resources[k] = v
	}
	return &clone
}

func (inv *Inventory) Reset() {
	inv.Capacity = 0
	inv.Items = nil
	inv.Resources = make(map[string]float64)
}

func (inv *Inventory) Serialize() ([]byte, error)   { return json.Marshal(inv) }
func (inv *Inventory) Deserialize(data []byte) error {
	if err := json.Unmarshal(data, inv); err != nil {
		return err
	}
	if inv.Resources == nil {
		inv.Resources = make(map[string]float64)
	}
	return nil
}

// AddResource adds amount of kind (amount may be negative; never pushes
// below zero).
func (inv *Inventory) AddResource(kind string, amount float64) {
	if inv.Resources == nil {
		inv.Resources = make(map[string]float64)
	}
	next := inv.Resources[kind] + amount
	if next < 0 {
		next = 0
	}
	inv.Resources[kind] = next
}

// HasResource reports whether at least amount of kind is held.
func (inv *Inventory) HasResource(kind string, amount float64) bool {
	return inv.Resources[kind] >= amount
}

// IsFull reports whether every item slot is occupied.
func (inv *Inventory) IsFull() bool {
	return inv.Capacity > 0 && len(inv.Items) >= inv.Capacity
}

// AddItem stacks quantity units of itemID onto an existing stack, or
// allocates a new slot if capacity allows. Returns false if the inventory
// lacks room for a new item.
func (inv *Inventory) AddItem(itemID string, quantity int) bool {
	for i := range inv.Items {
		if inv.Items[i].ItemID == itemID {
			inv.Items[i].Quantity += quantity
			return true
		}
	}
	if inv.IsFull() {
		return false
	}
	inv.Items = append(inv.Items, ItemStack{ItemID: itemID, Quantity: quantity})
	return true
}

// RemoveItem removes up to quantity units of itemID, deleting the slot if
// it empties. Returns the amount actually removed.
func (inv *Inventory) RemoveItem(itemID string, quantity int) int {
	for i := range inv.Items {
		if inv.Items[i].ItemID != itemID {
			continue
		}
		removed := quantity
		if removed > inv.Items[i].Quantity {
			removed = inv.Items[i].Quantity
		}
		inv.Items[i].Quantity -= removed
		if inv.Items[i].Quantity <= 0 {
			inv.Items = append(inv.Items[:i:i], inv.Items[i+1:]...)
		}
		return removed
	}
	return 0
}

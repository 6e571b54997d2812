package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nightswarm/internal/core/ecs"
)

func Test_Inventory_CreateAndInitialize(t *testing.T) {
	inventory := NewInventory(10)

	assert.Equal(t, ecs.ComponentTypeInventory, inventory.Type())
	assert.Equal(t, 10, inventory.Capacity)
	assert.Empty(t, inventory.Items)
}

func Test_Inventory_AddResource(t *testing.T) {
	inventory := NewInventory(5)

	inventory.AddResource("currency", 100)
	inventory.AddResource("currency", 50)

	assert.Equal(t, 150.0, inventory.Resources["currency"])
	assert.True(t, inventory.HasResource("currency", 150))
	assert.False(t, inventory.HasResource("currency", 151))
}

func Test_Inventory_AddResource_DoesNotGoNegative(t *testing.T) {
	inventory := NewInventory(5)
	inventory.AddResource("mana", 10)

	inventory.AddResource("mana", -100)

	assert.Equal(t, 0.0, inventory.Resources["mana"])
}

func Test_Inventory_AddItem_StacksExisting(t *testing.T) {
	inventory := NewInventory(2)

	assert.True(t, inventory.AddItem("potion", 1))
	assert.True(t, inventory.AddItem("potion", 2))

	assert.Len(t, inventory.Items, 1)
	assert.Equal(t, 3, inventory.Items[0].Quantity)
}

func Test_Inventory_AddItem_FailsWhenFull(t *testing.T) {
	inventory := NewInventory(1)
	assert.True(t, inventory.AddItem("sword", 1))

	assert.False(t, inventory.AddItem("shield", 1))
	assert.True(t, inventory.IsFull())
}

func Test_Inventory_RemoveItem_DeletesEmptiedSlot(t *testing.T) {
	inventory := NewInventory(2)
	inventory.AddItem("potion", 2)

	removed := inventory.RemoveItem("potion", 2)

	assert.Equal(t, 2, removed)
	assert.Empty(t, inventory.Items)
}

func Test_Inventory_Serialization(t *testing.T) {
	inventory := NewInventory(3)
	inventory.AddResource("currency", 42)
	inventory.AddItem("potion", 2)

	data, err := inventory.Serialize()
	assert.NoError(t, err)

	roundTripped := NewInventory(0)
	assert.NoError(t, roundTripped.Deserialize(data))
	assert.Equal(t, inventory.Capacity, roundTripped.Capacity)
	assert.Equal(t, inventory.Resources["currency"], roundTripped.Resources["currency"])
	assert.Equal(t, inventory.Items, roundTripped.Items)
}

package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

func Test_EconomySystem_BossKillDropsGoldAndEssence(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	killer := world.CreateEntity()
	inventory := components.NewInventory(10)
	require.NoError(t, world.AddComponent(killer.ID(), inventory))

	victim := world.CreateEntity()
	require.NoError(t, world.SetTag(victim.ID(), "boss_enemy"))

	system := NewEconomySystem(bus)
	require.NoError(t, world.AddSystem(system))

	var gained []ecs.ResourceGainedData
	bus.On(ecs.EventResourceGained, func(ev ecs.Event) { gained = append(gained, ev.Data.(ecs.ResourceGainedData)) })

	bus.Emit(ecs.EventEntityKilled, ecs.EntityKilledData{Killer: killer.ID(), Victim: victim.ID()}, "combat", victim.ID())

	require.NotEmpty(t, gained)
	assert.True(t, inventory.HasResource("gold", 1))
}

func Test_EconomySystem_TransferResource_FailsWhenInsufficient(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	from := world.CreateEntity()
	to := world.CreateEntity()
	fromInv := components.NewInventory(10)
	toInv := components.NewInventory(10)
	require.NoError(t, world.AddComponent(from.ID(), fromInv))
	require.NoError(t, world.AddComponent(to.ID(), toInv))

	system := NewEconomySystem(bus)
	require.NoError(t, world.AddSystem(system))

	err := system.TransferResource(from.ID(), to.ID(), "gold", 10)
	assert.Error(t, err)
}

func Test_EconomySystem_TransferResource_MovesBalance(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	from := world.CreateEntity()
	to := world.CreateEntity()
	fromInv := components.NewInventory(10)
	fromInv.AddResource("gold", 20)
	toInv := components.NewInventory(10)
	require.NoError(t, world.AddComponent(from.ID(), fromInv))
	require.NoError(t, world.AddComponent(to.ID(), toInv))

	system := NewEconomySystem(bus)
	require.NoError(t, world.AddSystem(system))

	var transferred []ecs.ResourceTransferredData
	bus.On(ecs.EventResourceTransferred, func(ev ecs.Event) { transferred = append(transferred, ev.Data.(ecs.ResourceTransferredData)) })

	require.NoError(t, system.TransferResource(from.ID(), to.ID(), "gold", 15))

	assert.Equal(t, 5.0, fromInv.Resources["gold"])
	assert.Equal(t, 15.0, toInv.Resources["gold"])
	require.Len(t, transferred, 1)
}

func Test_EconomySystem_PurchaseItem(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	buyer := world.CreateEntity()
	inventory := components.NewInventory(10)
	inventory.AddResource("gold", 50)
	require.NoError(t, world.AddComponent(buyer.ID(), inventory))

	system := NewEconomySystem(bus)
	require.NoError(t, world.AddSystem(system))
	system.RegisterShopItem("general_store", "health_potion", map[string]int{"gold": 30}, -1)

	var purchased []ecs.ItemPurchasedData
	bus.On(ecs.EventItemPurchased, func(ev ecs.Event) { purchased = append(purchased, ev.Data.(ecs.ItemPurchasedData)) })

	require.NoError(t, system.PurchaseItem(buyer.ID(), "general_store", "health_potion"))

	assert.Equal(t, 20.0, inventory.Resources["gold"])
	require.Len(t, purchased, 1)
	assert.Equal(t, 30, purchased[0].Cost)
}

func Test_EconomySystem_PurchaseItem_FailsWithoutFunds(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	buyer := world.CreateEntity()
	inventory := components.NewInventory(10)
	require.NoError(t, world.AddComponent(buyer.ID(), inventory))

	system := NewEconomySystem(bus)
	require.NoError(t, world.AddSystem(system))
	system.RegisterShopItem("general_store", "health_potion", map[string]int{"gold": 30}, -1)

	err := system.PurchaseItem(buyer.ID(), "general_store", "health_potion")
	assert.Error(t, err)
}

func Test_EconomySystem_PurchaseItem_DecrementsBoundedStock(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	buyer := world.CreateEntity()
	inventory := components.NewInventory(10)
	inventory.AddResource("gold", 100)
	require.NoError(t, world.AddComponent(buyer.ID(), inventory))

	system := NewEconomySystem(bus)
	require.NoError(t, world.AddSystem(system))
	system.RegisterShopItem("general_store", "rare_gem", map[string]int{"gold": 10}, 1)

	require.NoError(t, system.PurchaseItem(buyer.ID(), "general_store", "rare_gem"))

	err := system.PurchaseItem(buyer.ID(), "general_store", "rare_gem")
	assert.Error(t, err)
}

func Test_EconomySystem_CalculateNetWorth(t *testing.T) {
	world := newTestWorld()
	bus := ecs.NewEventBus(nil)

	entity := world.CreateEntity()
	inventory := components.NewInventory(10)
	inventory.AddResource("gold", 40)
	inventory.AddItem("shield", 2)
	require.NoError(t, world.AddComponent(entity.ID(), inventory))

	system := NewEconomySystem(bus)
	require.NoError(t, world.AddSystem(system))

	worth, err := system.CalculateNetWorth(entity.ID())
	require.NoError(t, err)
	assert.Equal(t, 42.0, worth)
}

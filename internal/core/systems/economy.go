package systems

import (
	"math/rand"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// EconomySystemName is the registration name for EconomySystem.
const EconomySystemName ecs.SystemName = "economy"

// DropEntry is one possible resource drop in a DropTable: Chance in [0,1],
// rolled independently per entry so a single kill can yield several kinds.
type DropEntry struct {
	ResourceKind string
	MinAmount    int
	MaxAmount    int
	Chance       float64
}

// DropTable is the set of DropEntry rolled when an entity tagged with its
// key dies (§4.12).
type DropTable struct {
	Entries []DropEntry
}

// ShopItem is a purchasable catalogue entry scoped to a shop ID. Costs
// names every resource kind and amount required; Stock is the remaining
// purchase count, with a negative Stock meaning unbounded (§4.12).
type ShopItem struct {
	ItemID string
	Costs  map[string]int
	Stock  int
}

// EconomySystem resolves resource/item drops on kill, peer-to-peer
// transfers, and shop purchases (§4.12). Like ProgressionSystem, its work
// is event-driven; Update is a no-op.
type EconomySystem struct {
	BaseSystem
	bus        *ecs.EventBus
	world      *ecs.World
	rng        *rand.Rand
	dropTables map[string]DropTable
	shops      map[string]map[string]ShopItem
}

// NewEconomySystem creates the economy system pre-registered with the
// default drop tables for basic, elite and boss enemies (§4.12).
func NewEconomySystem(bus *ecs.EventBus) *EconomySystem {
	es := &EconomySystem{
		BaseSystem: NewBaseSystem(EconomySystemName, []ecs.ComponentType{
			ecs.ComponentTypeInventory,
		}),
		bus:        bus,
		rng:        rand.New(rand.NewSource(2)),
		dropTables: make(map[string]DropTable),
		shops:      make(map[string]map[string]ShopItem),
	}
	es.registerDefaultDropTables()
	return es
}

func (es *EconomySystem) registerDefaultDropTables() {
	es.RegisterDropTable("basic_enemy", DropTable{Entries: []DropEntry{
		{ResourceKind: "gold", MinAmount: 1, MaxAmount: 3, Chance: 1.0},
	}})
	es.RegisterDropTable("elite_enemy", DropTable{Entries: []DropEntry{
		{ResourceKind: "gold", MinAmount: 5, MaxAmount: 10, Chance: 1.0},
		{ResourceKind: "essence", MinAmount: 1, MaxAmount: 1, Chance: 0.25},
	}})
	es.RegisterDropTable("boss_enemy", DropTable{Entries: []DropEntry{
		{ResourceKind: "gold", MinAmount: 25, MaxAmount: 50, Chance: 1.0},
		{ResourceKind: "essence", MinAmount: 2, MaxAmount: 5, Chance: 1.0},
	}})
}

// Initialize implements ecs.Initializer, capturing the world and wiring
// the kill listener.
func (es *EconomySystem) Initialize(world *ecs.World) error {
	es.world = world
	es.bus.On(ecs.EventEntityKilled, es.onEntityKilled)
	return nil
}

// RegisterDropTable associates table with every entity tagged enemyType.
func (es *EconomySystem) RegisterDropTable(enemyType string, table DropTable) {
	es.dropTables[enemyType] = table
}

func (es *EconomySystem) onEntityKilled(ev ecs.Event) {
	data, ok := ev.Data.(ecs.EntityKilledData)
	if !ok || es.world == nil {
		return
	}
	es.dropResources(data.Killer, data.Victim)
}

// dropResources rolls victim's drop table (by world tag) and credits each
// successful roll to killer's inventory, emitting RESOURCE_GAINED per kind.
func (es *EconomySystem) dropResources(killer, victim ecs.EntityID) {
	tag, ok := es.world.GetTag(victim)
	if !ok {
		return
	}
	table, ok := es.dropTables[tag]
	if !ok {
		return
	}

	invComp, ok := es.world.GetComponent(killer, ecs.ComponentTypeInventory)
	if !ok {
		return
	}
	inventory, ok := invComp.(*components.Inventory)
	if !ok {
		return
	}

	for _, entry := range table.Entries {
		if es.rng.Float64() > entry.Chance {
			continue
		}
		amount := entry.MinAmount
		if entry.MaxAmount > entry.MinAmount {
			amount += es.rng.Intn(entry.MaxAmount - entry.MinAmount + 1)
		}
		if amount <= 0 {
			continue
		}
		inventory.AddResource(entry.ResourceKind, float64(amount))
		es.bus.Emit(ecs.EventResourceGained, ecs.ResourceGainedData{Entity: killer, ResourceKind: entry.ResourceKind, Amount: amount}, "economy", killer)
	}
}

// TransferResource atomically moves amount of kind from the from entity's
// inventory to the to entity's, failing if the source lacks sufficient
// balance. Emits RESOURCE_TRANSFERRED on success.
func (es *EconomySystem) TransferResource(from, to ecs.EntityID, kind string, amount float64) error {
	if amount <= 0 {
		return ecs.InvalidAmountErr(EconomySystemName, amount)
	}

	fromInv, err := es.inventoryOf(from)
	if err != nil {
		return err
	}
	toInv, err := es.inventoryOf(to)
	if err != nil {
		return err
	}
	if !fromInv.HasResource(kind, amount) {
		return ecs.InsufficientResourcesErr(EconomySystemName, from, kind)
	}

	fromInv.AddResource(kind, -amount)
	toInv.AddResource(kind, amount)
	es.bus.Emit(ecs.EventResourceTransferred, ecs.ResourceTransferredData{From: from, To: to, ResourceKind: kind, Amount: int(amount)}, "economy", from)
	return nil
}

// TransferItem moves one unit of itemID from from's inventory to to's,
// failing if the destination lacks capacity. Emits ITEM_TRANSFERRED on
// success.
func (es *EconomySystem) TransferItem(from, to ecs.EntityID, itemID string) error {
	fromInv, err := es.inventoryOf(from)
	if err != nil {
		return err
	}
	toInv, err := es.inventoryOf(to)
	if err != nil {
		return err
	}
	if fromInv.RemoveItem(itemID, 1) == 0 {
		return ecs.ItemNotFoundErr(EconomySystemName, from, itemID)
	}
	if !toInv.AddItem(itemID, 1) {
		fromInv.AddItem(itemID, 1)
		return ecs.InventoryFullErr(EconomySystemName, to)
	}
	es.bus.Emit(ecs.EventItemTransferred, ecs.ItemTransferredData{From: from, To: to, ItemID: itemID}, "economy", from)
	return nil
}

// RegisterShopItem adds itemID, priced in costs (resource kind -> amount),
// to the catalogue of shopID. A negative stock means unbounded; a
// non-negative stock is decremented on every successful purchase.
func (es *EconomySystem) RegisterShopItem(shopID, itemID string, costs map[string]int, stock int) {
	if es.shops[shopID] == nil {
		es.shops[shopID] = make(map[string]ShopItem)
	}
	es.shops[shopID][itemID] = ShopItem{ItemID: itemID, Costs: costs, Stock: stock}
}

// PurchaseItem spends buyer's resources to acquire itemID from shopID,
// failing if the item is not in the catalogue, its stock is exhausted, the
// buyer lacks sufficient balance across any of its cost's resource kinds, or
// the buyer's inventory lacks capacity. Decrements Stock when bounded and
// emits ITEM_PURCHASED on success (§4.12).
func (es *EconomySystem) PurchaseItem(buyer ecs.EntityID, shopID, itemID string) error {
	catalogue, ok := es.shops[shopID]
	if !ok {
		return ecs.ShopNotFoundErr(EconomySystemName, shopID)
	}
	item, ok := catalogue[itemID]
	if !ok {
		return ecs.ItemNotFoundErr(EconomySystemName, buyer, itemID)
	}
	if item.Stock == 0 {
		return ecs.InsufficientStockErr(EconomySystemName, buyer, itemID)
	}

	inventory, err := es.inventoryOf(buyer)
	if err != nil {
		return err
	}
	for kind, amount := range item.Costs {
		if !inventory.HasResource(kind, float64(amount)) {
			return ecs.InsufficientResourcesErr(EconomySystemName, buyer, kind)
		}
	}
	if !inventory.AddItem(itemID, 1) {
		return ecs.InventoryFullErr(EconomySystemName, buyer)
	}

	totalCost := 0
	for kind, amount := range item.Costs {
		inventory.AddResource(kind, -float64(amount))
		totalCost += amount
	}
	if item.Stock > 0 {
		item.Stock--
		catalogue[itemID] = item
	}
	es.bus.Emit(ecs.EventItemPurchased, ecs.ItemPurchasedData{Buyer: buyer, Shop: shopID, ItemID: itemID, Cost: totalCost}, "economy", buyer)
	return nil
}

// CalculateNetWorth sums an entity's resource balances plus one point per
// held item stack unit.
func (es *EconomySystem) CalculateNetWorth(entity ecs.EntityID) (float64, error) {
	inventory, err := es.inventoryOf(entity)
	if err != nil {
		return 0, err
	}
	worth := 0.0
	for _, amount := range inventory.Resources {
		worth += amount
	}
	for _, stack := range inventory.Items {
		worth += float64(stack.Quantity)
	}
	return worth, nil
}

func (es *EconomySystem) inventoryOf(entity ecs.EntityID) (*components.Inventory, error) {
	comp, ok := es.world.GetComponent(entity, ecs.ComponentTypeInventory)
	if !ok {
		return nil, ecs.ComponentNotFoundErr(entity, ecs.ComponentTypeInventory)
	}
	inventory, ok := comp.(*components.Inventory)
	if !ok {
		return nil, ecs.ComponentNotFoundErr(entity, ecs.ComponentTypeInventory)
	}
	return inventory, nil
}

// Update is a no-op: drop resolution happens reactively in onEntityKilled;
// transfers and purchases are invoked directly by callers.
func (es *EconomySystem) Update(ctx ecs.Context, world *ecs.World, entities []ecs.EntityID) error {
	return nil
}

package systems

import (
	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
)

// CollectionSystemName is the registration name for CollectionSystem.
const CollectionSystemName ecs.SystemName = "collection"

// defaultCollectionRadius is the distance inside which a collectible is
// picked up outright, independent of magnet range (§4.13).
const defaultCollectionRadius = 30.0

// CollectionSystem pulls collectibles toward magnet-carrying collectors and
// applies their effect on pickup (§4.13). Requires transform, magnet on the
// matched (collector) side; collectibles are found separately since they
// carry a disjoint component set (transform, collectible).
type CollectionSystem struct {
	BaseSystem
	bus    *ecs.EventBus
	radius float64
}

// NewCollectionSystem creates the collection system with the default
// collection radius.
func NewCollectionSystem(bus *ecs.EventBus) *CollectionSystem {
	return &CollectionSystem{
		BaseSystem: NewBaseSystem(CollectionSystemName, []ecs.ComponentType{
			ecs.ComponentTypeTransform,
			ecs.ComponentTypeMagnet,
		}),
		bus:    bus,
		radius: defaultCollectionRadius,
	}
}

// Update checks every collector against every live collectible: in range of
// the collection radius, it is collected; in range of the magnet field, it
// is attracted.
func (cs *CollectionSystem) Update(ctx ecs.Context, world *ecs.World, entities []ecs.EntityID) error {
	dt := ctx.DeltaTime / 1000
	collectibleIDs := world.GetEntitiesWithComponents(ecs.ComponentTypeTransform, ecs.ComponentTypeCollectible)

	for _, collectorID := range entities {
		collectorTransform, magnet, ok := cs.collector(world, collectorID)
		if !ok || !magnet.IsActive {
			continue
		}

		for _, collectibleID := range collectibleIDs {
			if !world.IsValid(collectibleID) {
				continue
			}
			collectibleTransform, collectible, ok := cs.collectible(world, collectibleID)
			if !ok || !magnet.Accepts(collectible.Kind) {
				continue
			}

			distance := collectorTransform.Position.Distance(collectibleTransform.Position)

			if distance <= cs.radius {
				cs.collect(world, collectorID, collectibleID, collectible)
				continue
			}

			if distance <= magnet.Field.Range {
				cs.attract(collectorTransform, collectibleTransform, magnet.Field, distance, dt)
			}
		}
	}

	return nil
}

func (cs *CollectionSystem) collector(world *ecs.World, id ecs.EntityID) (*components.Transform, *components.Magnet, bool) {
	transformComp, ok := world.GetComponent(id, ecs.ComponentTypeTransform)
	if !ok {
		return nil, nil, false
	}
	transform, ok := transformComp.(*components.Transform)
	if !ok {
		return nil, nil, false
	}
	magnetComp, ok := world.GetComponent(id, ecs.ComponentTypeMagnet)
	if !ok {
		return nil, nil, false
	}
	magnet, ok := magnetComp.(*components.Magnet)
	if !ok {
		return nil, nil, false
	}
	return transform, magnet, true
}

func (cs *CollectionSystem) collectible(world *ecs.World, id ecs.EntityID) (*components.Transform, *components.Collectible, bool) {
	transformComp, ok := world.GetComponent(id, ecs.ComponentTypeTransform)
	if !ok {
		return nil, nil, false
	}
	transform, ok := transformComp.(*components.Transform)
	if !ok {
		return nil, nil, false
	}
	collectibleComp, ok := world.GetComponent(id, ecs.ComponentTypeCollectible)
	if !ok {
		return nil, nil, false
	}
	collectible, ok := collectibleComp.(*components.Collectible)
	if !ok {
		return nil, nil, false
	}
	return transform, collectible, true
}

// attract nudges collectibleTransform toward collectorTransform, scaled by
// the magnet's strength, proximity (closer pulls harder) and elapsed time
// (§4.13).
func (cs *CollectionSystem) attract(collectorTransform, collectibleTransform *components.Transform, field components.MagneticField, distance, dt float64) {
	if distance == 0 || field.Range <= 0 {
		return
	}
	direction := collectorTransform.Position.Sub(collectibleTransform.Position).Normalized()
	pull := field.Strength * (1 - distance/field.Range) * dt
	collectibleTransform.Position = collectibleTransform.Position.Add(direction.Scale(pull))
}

// collect applies the collectible's effect to the collector, destroys the
// collectible entity, and emits COLLECTIBLE_COLLECTED.
func (cs *CollectionSystem) collect(world *ecs.World, collectorID, collectibleID ecs.EntityID, collectible *components.Collectible) {
	switch collectible.Kind {
	case components.CollectibleTypeHealth:
		if healthComp, ok := world.GetComponent(collectorID, ecs.ComponentTypeHealth); ok {
			if health, ok := healthComp.(*components.Health); ok {
				health.Heal(int(collectible.Value))
			}
		}
	case components.CollectibleTypeExperience:
		if expComp, ok := world.GetComponent(collectorID, ecs.ComponentTypeExperience); ok {
			if experience, ok := expComp.(*components.Experience); ok {
				levelsGained := experience.AddExperience(int(collectible.Value))
				previous := experience.Level - len(levelsGained)
				for _, newLevel := range levelsGained {
					cs.bus.Emit(ecs.EventLevelUp, ecs.LevelUpData{Entity: collectorID, OldLevel: previous, NewLevel: newLevel}, "collection", collectorID)
					previous = newLevel
				}
			}
		}
	case components.CollectibleTypeCurrency, components.CollectibleTypeMana:
		if invComp, ok := world.GetComponent(collectorID, ecs.ComponentTypeInventory); ok {
			if inventory, ok := invComp.(*components.Inventory); ok {
				inventory.AddResource(string(collectible.Kind), collectible.Value)
			}
		}
	}

	cs.bus.Emit(ecs.EventCollectibleCollected, ecs.CollectibleCollectedData{
		Collector:   collectorID,
		Collectible: collectibleID,
		CollectType: string(collectible.Kind),
		Value:       collectible.Value,
	}, "collection", collectorID)

	_ = world.DestroyEntity(collectibleID)
}

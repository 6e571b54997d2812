package components

import "nightswarm/internal/core/ecs"

// RegisterAll registers every built-in component's factory with registry.
func RegisterAll(registry *ecs.ComponentRegistry) {
	registry.Register(ecs.ComponentTypeTransform, func() ecs.Component { return NewTransform() })
	registry.Register(ecs.ComponentTypeHealth, func() ecs.Component { return NewHealth(0) })
	registry.Register(ecs.ComponentTypeMovement, func() ecs.Component { return NewMovement(0, 0) })
	registry.Register(ecs.ComponentTypeCombat, func() ecs.Component { return NewCombat(Weapon{}, false) })
	registry.Register(ecs.ComponentTypeExperience, func() ecs.Component { return NewExperience() })
	registry.Register(ecs.ComponentTypeInventory, func() ecs.Component { return NewInventory(0) })
	registry.Register(ecs.ComponentTypeSkills, func() ecs.Component { return NewSkills() })
	registry.Register(ecs.ComponentTypeCollectible, func() ecs.Component { return NewCollectible("", 0, "") })
	registry.Register(ecs.ComponentTypeMagnet, func() ecs.Component { return NewMagnet(MagneticField{}) })
	registry.Register(ecs.ComponentTypeEnemyAI, func() ecs.Component { return NewEnemyAI("", 0, 0) })
	registry.Register(ecs.ComponentTypeSpawner, func() ecs.Component { return NewSpawner(ecs.AABB{}, SpawnPatternRandom) })
	registry.Register(ecs.ComponentTypeDifficulty, func() ecs.Component { return NewDifficulty() })
}

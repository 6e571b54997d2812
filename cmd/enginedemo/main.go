// Command enginedemo hosts the simulation engine inside an ebiten window
// purely to drive its Update loop at display refresh rate; no world state
// is rendered (rendering is out of scope — the engine is a headless
// simulation core).
package main

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"nightswarm/internal/core/ecs"
	"nightswarm/internal/core/ecs/components"
	"nightswarm/internal/core/engine"
	"nightswarm/internal/core/systems"
)

// demoHost adapts engine.Engine to the ebiten.Game interface so its fixed
// timestep loop can be pumped by ebiten's own frame clock.
type demoHost struct {
	eng *engine.Engine
}

func newDemoHost() *demoHost {
	eng := engine.New(engine.DefaultConfig(), nil)
	bus := eng.GetBus()
	world := eng.GetWorld()

	world.AddSystem(systems.NewMovementSystem())
	world.AddSystem(systems.NewCombatSystem(bus, nil))
	world.AddSystem(systems.NewProgressionSystem(bus))
	world.AddSystem(systems.NewEconomySystem(bus))
	world.AddSystem(systems.NewCollectionSystem(bus))
	world.AddSystem(systems.NewEnemyAISystem(bus))
	world.AddSystem(systems.NewSkillSystem(bus, systems.DefaultSkillConfig()))
	world.AddSystem(systems.NewSpawnerSystem(bus))
	world.AddSystem(systems.NewDifficultySystem(bus))

	seedDemoWorld(world)

	eng.Start()
	return &demoHost{eng: eng}
}

// seedDemoWorld creates one player entity and one spawner so the engine has
// something to simulate when the window opens.
func seedDemoWorld(world *ecs.World) {
	player := world.CreateEntity()
	world.AddComponent(player.ID(), components.NewTransform())
	world.AddComponent(player.ID(), components.NewHealth(100))
	world.AddComponent(player.ID(), components.NewMovement(200, 800))
	world.AddComponent(player.ID(), components.NewExperience())
	world.AddComponent(player.ID(), components.NewDifficulty())
	world.SetTag(player.ID(), "player")

	spawnerEntity := world.CreateEntity()
	spawner := components.NewSpawner(
		ecs.AABB{Min: ecs.Vector2{X: -400, Y: -400}, Max: ecs.Vector2{X: 400, Y: 400}},
		components.SpawnPatternPerimeter,
	)
	spawner.Waves = []components.Wave{
		{Entries: []components.SpawnEntry{{EnemyType: "basic_enemy", Weight: 1}}, Count: 10, IntervalMs: 1000},
	}
	world.AddComponent(spawnerEntity.ID(), spawner)
}

func (h *demoHost) Update() error {
	h.eng.Tick()
	return nil
}

func (h *demoHost) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 10, B: 20, A: 255})
	ebitenutil.DebugPrintAt(screen, "nightswarm engine demo (headless simulation, no renderer)", 10, 10)
	ebitenutil.DebugPrintAt(screen, "entities: simulated off-screen", 10, 26)
}

func (h *demoHost) Layout(_, _ int) (int, int) {
	return 1280, 720
}

func main() {
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("nightswarm engine demo")

	host := newDemoHost()
	if err := ebiten.RunGame(host); err != nil {
		log.Fatal(err)
	}
}

// Package game runs the headless creature world: creatures with evolving
// brains move, eat, grow, reproduce and die on a wrapping plane.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/BenGale93/genesis-sub000/components"
	"github.com/BenGale93/genesis-sub000/config"
	"github.com/BenGale93/genesis-sub000/neural"
	"github.com/BenGale93/genesis-sub000/systems"
	"github.com/BenGale93/genesis-sub000/telemetry"
)

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	cfg   *config.Config

	// Creatures
	creatureMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Energy,
		components.Organism,
	]
	creatureFilter *ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Energy,
		components.Organism,
	]

	// Food pellets
	foodMapper *ecs.Map2[components.Position, components.Food]
	foodFilter *ecs.Filter2[components.Position, components.Food]

	// Individual component mappers for lookups
	posMap    *ecs.Map1[components.Position]
	velMap    *ecs.Map1[components.Velocity]
	rotMap    *ecs.Map1[components.Rotation]
	energyMap *ecs.Map1[components.Energy]
	orgMap    *ecs.Map1[components.Organism]
	foodMap   *ecs.Map1[components.Food]

	// Brain storage (per creature by ID)
	brains map[uint32]*neural.Brain

	// Spatial indices, rebuilt every tick
	creatureGrid *systems.SpatialGrid
	foodGrid     *systems.SpatialGrid

	// Cached per-tick parameters
	caps         components.Capabilities
	energyParams systems.EnergyParams
	sensorParams systems.SensorParams

	// Parallel brain evaluation
	parallel *parallelState

	// Telemetry
	collector       *telemetry.Collector
	lifetimeTracker *telemetry.LifetimeTracker
	hallOfFame      *telemetry.HallOfFame
	perfCollector   *telemetry.PerfCollector
	outputManager   *telemetry.OutputManager
	statsCallback   func(telemetry.WindowStats)
	logStats        bool
	saveBrains      bool

	// State
	tick       int32
	nextID     uint32
	population int
	foodCount  int
	foodAccum  float32 // fractional pellets owed by the respawn rate
	collapses  int     // times the population had to be restored

	worldWidth, worldHeight float32
}

// NewGameWithOptions creates a new game with the given options.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.resolveConfig()
	world := ecs.NewWorld()

	g := &Game{
		world:  world,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		cfg:    cfg,
		brains: make(map[uint32]*neural.Brain),
		nextID: 1,
		creatureMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Energy,
			components.Organism,
		](world),
		creatureFilter: ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Energy,
			components.Organism,
		](world),
		foodMapper: ecs.NewMap2[components.Position, components.Food](world),
		foodFilter: ecs.NewFilter2[components.Position, components.Food](world),
		posMap:     ecs.NewMap1[components.Position](world),
		velMap:     ecs.NewMap1[components.Velocity](world),
		rotMap:     ecs.NewMap1[components.Rotation](world),
		energyMap:  ecs.NewMap1[components.Energy](world),
		orgMap:     ecs.NewMap1[components.Organism](world),
		foodMap:    ecs.NewMap1[components.Food](world),

		worldWidth:  cfg.Derived.WorldW32,
		worldHeight: cfg.Derived.WorldH32,

		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
		saveBrains:    opts.SaveBrains,
	}

	cellSize := float32(cfg.Physics.GridCellSize)
	g.creatureGrid = systems.NewSpatialGrid(g.worldWidth, g.worldHeight, cellSize)
	g.foodGrid = systems.NewSpatialGrid(g.worldWidth, g.worldHeight, cellSize)

	g.caps = components.CapabilitiesFromConfig(cfg)
	g.energyParams = systems.NewEnergyParams(cfg)
	g.sensorParams = systems.SensorParams{
		Caps:        g.caps,
		Lifespan:    float32(cfg.Entity.Lifespan),
		TimerPeriod: float32(cfg.Entity.TimerPeriod),
	}

	g.parallel = newParallelState()

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)
	g.lifetimeTracker = telemetry.NewLifetimeTracker()
	g.perfCollector = telemetry.NewPerfCollector(int(g.collector.WindowDurationTicks()))

	if cfg.HallOfFame.Enabled {
		g.hallOfFame = g.loadHallOfFame(opts.HallOfFamePath)
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	g.spawnInitialFood()
	g.spawnInitialPopulation()

	return g
}

// loadHallOfFame returns the hall stored at path, or an empty hall when path
// is empty or unreadable.
func (g *Game) loadHallOfFame(path string) *telemetry.HallOfFame {
	if path != "" {
		hof, err := telemetry.LoadHallOfFameFromFile(path, g.cfg.HallOfFame, g.rng)
		if err == nil {
			slog.Info("hall_of_fame_loaded", "path", path, "entries", hof.Size())
			return hof
		}
		slog.Warn("failed to load hall of fame, starting empty", "path", path, "error", err)
	}
	return telemetry.NewHallOfFame(g.cfg.HallOfFame, g.rng)
}

// config returns the game's configuration.
func (g *Game) config() *config.Config {
	return g.cfg
}

// UpdateHeadless runs a single simulation step.
func (g *Game) UpdateHeadless() {
	g.simulationStep()
}

// simulationStep runs a single tick of the simulation.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	// 1. Rebuild spatial indices
	g.perfCollector.StartPhase(telemetry.PhaseSpatialGrid)
	g.updateSpatialGrid()

	// 2. Sense, think and move (parallel)
	g.perfCollector.StartPhase(telemetry.PhaseBrains)
	g.updateBrainsParallel()

	// 3. Eat nearby food
	g.perfCollector.StartPhase(telemetry.PhaseFeeding)
	g.updateFeeding()

	// 4. Metabolism, growth and death
	g.perfCollector.StartPhase(telemetry.PhaseEnergy)
	g.updateEnergy()
	g.updateCooldowns()

	// 5. Reproduction
	g.perfCollector.StartPhase(telemetry.PhaseReproduction)
	g.updateReproduction()

	// 6. Remove the dead and reseed collapsed populations
	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.cleanupDead()
	g.respawnIfNeeded()

	// 7. Grow new food
	g.perfCollector.StartPhase(telemetry.PhaseFood)
	g.updateFood()

	g.tick++

	// 8. Telemetry
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Population returns the number of living creatures.
func (g *Game) Population() int {
	return g.population
}

// FoodCount returns the number of food pellets in the world.
func (g *Game) FoodCount() int {
	return g.foodCount
}

// Collapses returns how many times the population fell below its reseed or
// respawn threshold and had to be restored.
func (g *Game) Collapses() int {
	return g.collapses
}

// HallOfFame returns the hall of fame, or nil when disabled.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}

// Brain returns the brain of the creature with the given ID.
func (g *Game) Brain(id uint32) (*neural.Brain, bool) {
	b, ok := g.brains[id]
	return b, ok
}

// Unload stops the worker pool and writes final output.
func (g *Game) Unload() {
	g.stopParallelWorkers()

	if g.outputManager == nil {
		return
	}
	if g.hallOfFame != nil {
		if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
			slog.Error("failed to write hall of fame", "error", err)
		}
	}
	if g.saveBrains {
		g.saveLivingBrains()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}

// saveLivingBrains writes the brain of every living creature.
func (g *Game) saveLivingBrains() {
	saved := 0
	for id, brain := range g.brains {
		if err := g.outputManager.WriteBrain(id, brain); err != nil {
			slog.Error("failed to write brain", "id", id, "error", err)
			continue
		}
		saved++
	}
	slog.Info("brains_saved", "count", saved, "dir", g.outputManager.Dir())
}

package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/BenGale93/genesis-sub000/components"
	"github.com/BenGale93/genesis-sub000/neural"
)

// spawnParams describes a creature to create.
type spawnParams struct {
	x, y, heading float32
	brain         *neural.Brain
	energy        float32
	generation    int
	parentID      uint32 // 0 for founders
}

// spawnInitialPopulation creates the starting creatures.
func (g *Game) spawnInitialPopulation() {
	for i := 0; i < g.config().Population.Initial; i++ {
		g.spawnFounder()
	}
}

// spawnFounder creates a creature with a fresh random brain.
func (g *Game) spawnFounder() ecs.Entity {
	cfg := g.config()
	brain := neural.NewRandomBrain(g.rng, neural.BrainInputs, neural.BrainOutputs, cfg.Brain.InitialSynapses)
	return g.spawnCreature(spawnParams{
		x:       g.rng.Float32() * g.worldWidth,
		y:       g.rng.Float32() * g.worldHeight,
		heading: randomHeading(g.rng),
		brain:   brain,
		energy:  float32(cfg.Entity.InitialEnergy),
	})
}

// spawnCreature creates a creature and registers its brain.
func (g *Game) spawnCreature(p spawnParams) ecs.Entity {
	cfg := g.config()

	id := g.nextID
	g.nextID++

	size := float32(cfg.Entity.InitialSize)
	maxEnergy := float32(cfg.Entity.MaxEnergy) * size

	pos := components.Position{X: p.x, Y: p.y}
	vel := components.Velocity{}
	rot := components.Rotation{Heading: p.heading}
	body := components.BodyForSize(cfg, size)
	energy := components.Energy{
		Value:     min(p.energy, maxEnergy),
		Max:       maxEnergy,
		Health:    float32(cfg.Entity.MaxHealth),
		MaxHealth: float32(cfg.Entity.MaxHealth),
		Alive:     true,
	}
	org := components.Organism{
		ID:            id,
		Generation:    p.generation,
		ParentID:      p.parentID,
		Size:          size,
		ReproCooldown: g.reproCooldown(),
	}

	g.brains[id] = p.brain

	entity := g.creatureMapper.NewEntity(&pos, &vel, &rot, &body, &energy, &org)
	g.population++

	g.lifetimeTracker.Register(id, g.tick, p.generation, p.parentID)

	return entity
}

// cleanupDead removes dead creatures and their brains.
func (g *Game) cleanupDead() {
	dt := g.config().Derived.DT32

	// First pass: collect dead creatures (must complete before modifying)
	type deadInfo struct {
		entity ecs.Entity
		id     uint32
		cause  components.DeathCause
	}
	var toRemove []deadInfo

	query := g.creatureFilter.Query()
	for query.Next() {
		_, _, _, _, energy, org := query.Get()
		if !energy.Alive {
			toRemove = append(toRemove, deadInfo{entity: query.Entity(), id: org.ID, cause: energy.Cause})
		}
	}

	// Second pass: remove creatures (query iteration complete)
	for _, dead := range toRemove {
		g.collector.RecordDeath(dead.cause)

		// Evaluate for hall of fame before the brain is dropped
		if g.hallOfFame != nil {
			g.lifetimeTracker.UpdateSurvivalTime(dead.id, g.tick, dt)
			if stats := g.lifetimeTracker.Get(dead.id); stats != nil {
				if brain, ok := g.brains[dead.id]; ok {
					g.hallOfFame.Consider(brain, stats, dead.id)
				}
			}
		}

		g.lifetimeTracker.Remove(dead.id)
		g.world.RemoveEntity(dead.entity)
		delete(g.brains, dead.id)
		g.population--
	}
}

// respawnIfNeeded restores a collapsed population, preferring proven brains
// from the hall of fame over random founders.
func (g *Game) respawnIfNeeded() {
	cfg := g.config()

	if g.hallOfFame != nil && g.population < cfg.HallOfFame.ReseedThreshold {
		if g.reseedFromHall() > 0 {
			g.collapses++
			return
		}
	}

	if g.population >= cfg.Population.RespawnThreshold {
		return
	}
	g.collapses++
	before := g.population
	for i := 0; i < cfg.Population.RespawnCount && g.population < cfg.Population.Max; i++ {
		g.spawnFounder()
	}
	slog.Info("population_respawn",
		"tick", g.tick,
		"population_before", before,
		"spawned", g.population-before,
	)
}

// reseedFromHall spawns mutated copies of hall of fame brains and returns
// how many were created. An empty hall spawns nothing.
func (g *Game) reseedFromHall() int {
	cfg := g.config()
	hofCfg := cfg.HallOfFame

	if g.hallOfFame.Size() == 0 {
		return 0
	}

	before := g.population
	reseeded := 0
	for i := 0; i < hofCfg.ReseedCount && g.population < cfg.Population.Max; i++ {
		brain := g.hallOfFame.Sample()
		if brain == nil {
			break
		}
		brain = brain.Mutate(g.rng, cfg.Mutation.Probability, cfg.Derived.MutationThresholds)
		g.spawnCreature(spawnParams{
			x:       g.rng.Float32() * g.worldWidth,
			y:       g.rng.Float32() * g.worldHeight,
			heading: randomHeading(g.rng),
			brain:   brain,
			energy:  float32(cfg.Entity.InitialEnergy),
		})
		reseeded++
	}

	if reseeded > 0 {
		g.collector.RecordReseed(reseeded)
		slog.Info("hall_of_fame_reseed",
			"tick", g.tick,
			"population_before", before,
			"reseeded_count", reseeded,
			"hall_size", g.hallOfFame.Size(),
			"top_fitness", g.hallOfFame.TopFitness(),
		)
	}
	return reseeded
}

// spawnInitialFood fills the world with pellets.
func (g *Game) spawnInitialFood() {
	for i := 0; i < g.config().Population.FoodCount; i++ {
		g.spawnFood()
	}
}

// spawnFood places one pellet at a random position.
func (g *Game) spawnFood() ecs.Entity {
	pos := components.Position{
		X: g.rng.Float32() * g.worldWidth,
		Y: g.rng.Float32() * g.worldHeight,
	}
	food := components.Food{Energy: float32(g.config().Population.FoodEnergy)}
	g.foodCount++
	return g.foodMapper.NewEntity(&pos, &food)
}

// updateFood regrows pellets at the configured rate up to the food count.
func (g *Game) updateFood() {
	pop := &g.config().Population
	if g.foodCount >= pop.FoodCount {
		g.foodAccum = 0
		return
	}

	g.foodAccum += float32(pop.FoodRespawnRate) * g.config().Derived.DT32
	for g.foodAccum >= 1 && g.foodCount < pop.FoodCount {
		g.spawnFood()
		g.foodAccum--
	}
}

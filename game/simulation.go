package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/BenGale93/genesis-sub000/components"
	"github.com/BenGale93/genesis-sub000/systems"
)

// updateSpatialGrid rebuilds the creature and food indices.
func (g *Game) updateSpatialGrid() {
	g.creatureGrid.Clear()
	query := g.creatureFilter.Query()
	for query.Next() {
		pos, _, _, _, energy, _ := query.Get()
		if energy.Alive {
			g.creatureGrid.Insert(query.Entity(), pos.X, pos.Y)
		}
	}

	g.foodGrid.Clear()
	foodQuery := g.foodFilter.Query()
	for foodQuery.Next() {
		pos, food := foodQuery.Get()
		if food.Energy > 0 {
			g.foodGrid.Insert(foodQuery.Entity(), pos.X, pos.Y)
		}
	}
}

// updateFeeding lets every creature whose eat output fired take the nearest
// pellet within reach. Emptied pellets are removed after the pass.
func (g *Game) updateFeeding() {
	var emptied []ecs.Entity

	query := g.creatureFilter.Query()
	for query.Next() {
		pos, _, _, body, energy, org := query.Get()

		if !energy.Alive || !org.Previous.WantsToEat() {
			continue
		}

		reach := g.caps.EatRange + body.Radius
		nearest, ok := g.foodGrid.Nearest(pos.X, pos.Y, reach, ecs.Entity{})
		if !ok {
			continue
		}
		food := g.foodMap.Get(nearest.E)
		if food == nil {
			continue
		}

		eaten := systems.Feed(energy, food)
		if eaten <= 0 {
			continue
		}
		g.collector.RecordEat(eaten)
		g.lifetimeTracker.RecordEat(org.ID, eaten)

		if food.Energy <= 0 {
			emptied = append(emptied, nearest.E)
		}
	}

	for _, e := range emptied {
		g.world.RemoveEntity(e)
		g.foodCount--
	}
}

// updateEnergy applies metabolism, growth and aging. Deaths are marked here
// and removed in cleanupDead.
func (g *Game) updateEnergy() {
	cfg := g.config()
	dt := cfg.Derived.DT32
	maxSpeed := g.caps.MaxSpeed

	query := g.creatureFilter.Query()
	for query.Next() {
		_, vel, _, body, energy, org := query.Get()

		if !energy.Alive {
			continue
		}

		var speedRatio float32
		if maxSpeed > 0 {
			speedRatio = speedOf(vel.X, vel.Y) / maxSpeed
		}

		size := org.Size
		systems.UpdateEnergy(energy, org, speedRatio, org.Previous.GrowDesire, g.energyParams, dt)
		if org.Size != size {
			*body = components.BodyForSize(cfg, org.Size)
		}

		g.lifetimeTracker.UpdateEnergy(org.ID, energy.Value)
	}
}

// updateCooldowns decrements reproduction cooldowns.
func (g *Game) updateCooldowns() {
	dt := g.config().Derived.DT32
	query := g.creatureFilter.Query()
	for query.Next() {
		_, _, _, _, energy, org := query.Get()

		if !energy.Alive {
			continue
		}

		if org.ReproCooldown > 0 {
			org.ReproCooldown -= dt
			if org.ReproCooldown < 0 {
				org.ReproCooldown = 0
			}
		}
	}
}

// canReproduce reports whether a creature may reproduce this tick.
func (g *Game) canReproduce(energy *components.Energy, org *components.Organism) bool {
	repro := &g.config().Reproduction
	return energy.Alive &&
		org.Previous.WantsToReproduce() &&
		org.ReproCooldown <= 0 &&
		energy.Age >= float32(repro.MaturityAge) &&
		energy.Ratio() >= float32(repro.Threshold)
}

// updateReproduction handles asexual reproduction. The child's brain is a
// mutated copy of the parent's and the parent hands over part of its energy.
func (g *Game) updateReproduction() {
	cfg := g.config()
	repro := &cfg.Reproduction
	mutation := &cfg.Mutation

	// Collect births to spawn after iteration
	var births []spawnParams

	query := g.creatureFilter.Query()
	for query.Next() {
		pos, _, rot, _, energy, org := query.Get()

		if g.population+len(births) >= cfg.Population.Max {
			continue
		}
		if !g.canReproduce(energy, org) {
			continue
		}

		parentBrain, ok := g.brains[org.ID]
		if !ok {
			continue
		}

		childEnergy := energy.Value * float32(repro.ParentEnergySplit)
		energy.Value -= childEnergy
		org.ReproCooldown = g.reproCooldown()

		childBrain, op, mutated := parentBrain.MutateTraced(g.rng, mutation.Probability, cfg.Derived.MutationThresholds)
		g.collector.RecordBirth(op, mutated)
		g.lifetimeTracker.RecordChild(org.ID)

		// Child appears behind the parent, facing roughly the same way
		offset := float32(repro.SpawnOffset)
		heading := normalizeAngle(rot.Heading + (g.rng.Float32()*2-1)*float32(repro.HeadingJitter))
		hx, hy := headingVector(rot.Heading)
		births = append(births, spawnParams{
			x:          systems.Wrap(pos.X-hx*offset, g.worldWidth),
			y:          systems.Wrap(pos.Y-hy*offset, g.worldHeight),
			heading:    heading,
			brain:      childBrain,
			energy:     childEnergy,
			generation: org.Generation + 1,
			parentID:   org.ID,
		})
	}

	for _, b := range births {
		g.spawnCreature(b)
	}
}

// reproCooldown returns the configured cooldown with jitter to desync
// reproduction across the population.
func (g *Game) reproCooldown() float32 {
	repro := &g.config().Reproduction
	jitter := (g.rng.Float32()*2 - 1) * float32(repro.CooldownJitter)
	return max(float32(repro.Cooldown)+jitter, 0)
}

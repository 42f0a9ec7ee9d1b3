package systems

import (
	"github.com/BenGale93/genesis-sub000/components"
	"github.com/BenGale93/genesis-sub000/config"
)

// EnergyParams holds the energy economics as float32 for the hot loop.
type EnergyParams struct {
	BaseCost         float32
	MoveCost         float32
	GrowthCost       float32
	GrowthRate       float32
	StarvationDamage float32
	HealthRegen      float32
	Lifespan         float32
	MaxSize          float32
	MaxEnergyPerSize float32
}

// NewEnergyParams reads the energy economics from cfg.
func NewEnergyParams(cfg *config.Config) EnergyParams {
	return EnergyParams{
		BaseCost:         float32(cfg.Energy.BaseCost),
		MoveCost:         float32(cfg.Energy.MoveCost),
		GrowthCost:       float32(cfg.Energy.GrowthCost),
		GrowthRate:       float32(cfg.Energy.GrowthRate),
		StarvationDamage: float32(cfg.Energy.StarvationDamage),
		HealthRegen:      float32(cfg.Energy.HealthRegen),
		Lifespan:         float32(cfg.Entity.Lifespan),
		MaxSize:          float32(cfg.Entity.MaxSize),
		MaxEnergyPerSize: float32(cfg.Entity.MaxEnergy),
	}
}

// UpdateEnergy applies one tick of metabolism, growth, starvation and aging.
// speedRatio is speed / max speed. It returns the energy spent.
//
// Running out of energy does not kill directly: it drains health, and the
// creature dies when health reaches zero or it outlives its lifespan.
func UpdateEnergy(
	energy *components.Energy,
	org *components.Organism,
	speedRatio float32,
	growDesire float32,
	p EnergyParams,
	dt float32,
) float32 {
	if !energy.Alive {
		return 0
	}

	energy.Age += dt

	cost := p.BaseCost*org.Size*dt + p.MoveCost*org.Size*speedRatio*speedRatio*dt

	// Growth only happens when the full cost can be paid.
	if growDesire > 0 && org.Size < p.MaxSize {
		growCost := p.GrowthCost * growDesire * dt
		if energy.Value-cost >= growCost {
			cost += growCost
			org.Size = min(org.Size+p.GrowthRate*growDesire*dt, p.MaxSize)
			if p.MaxEnergyPerSize > 0 {
				energy.Max = p.MaxEnergyPerSize * org.Size
			}
		}
	}

	spent := min(cost, energy.Value)
	energy.Value -= cost
	if energy.Value <= 0 {
		energy.Value = 0
		energy.Health -= p.StarvationDamage * dt
	} else if energy.Health < energy.MaxHealth {
		energy.Health = min(energy.Health+p.HealthRegen*dt, energy.MaxHealth)
	}
	if energy.Value > energy.Max {
		energy.Value = energy.Max
	}

	switch {
	case energy.Health <= 0:
		energy.Health = 0
		energy.Alive = false
		energy.Cause = components.DeathStarvation
	case p.Lifespan > 0 && energy.Age >= p.Lifespan:
		energy.Alive = false
		energy.Cause = components.DeathOldAge
	}
	return spent
}

// Feed moves energy from a food pellet into a creature, bounded by the
// creature's spare capacity. It returns the amount eaten; whatever the
// creature cannot hold stays in the pellet.
func Feed(energy *components.Energy, food *components.Food) float32 {
	if !energy.Alive || food.Energy <= 0 {
		return 0
	}
	room := energy.Max - energy.Value
	if room <= 0 {
		return 0
	}
	eaten := min(food.Energy, room)
	energy.Value += eaten
	food.Energy -= eaten
	return eaten
}

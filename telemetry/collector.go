// Package telemetry tracks population health, brain complexity and the
// hall of fame, and writes them to disk.
package telemetry

import (
	"math"

	"github.com/BenGale93/genesis-sub000/components"
	"github.com/BenGale93/genesis-sub000/neural"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	births           int
	mutatedBirths    int
	deaths           int
	starvationDeaths int
	oldAgeDeaths     int
	eaten            int
	foodEnergyEaten  float64
	reseeds          int
	mutations        [neural.NumOperators]int
}

// NewCollector creates a new stats collector. windowDurationSec is the
// window length in simulation seconds and dt the seconds per tick.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a birth and, when mutated is true, the operator applied
// to the child's brain.
func (c *Collector) RecordBirth(op neural.Operator, mutated bool) {
	c.births++
	if mutated && int(op) < neural.NumOperators {
		c.mutatedBirths++
		c.mutations[op]++
	}
}

// RecordDeath records a death by cause.
func (c *Collector) RecordDeath(cause components.DeathCause) {
	c.deaths++
	switch cause {
	case components.DeathStarvation:
		c.starvationDeaths++
	case components.DeathOldAge:
		c.oldAgeDeaths++
	}
}

// RecordEat records a creature eating amount energy from a pellet.
func (c *Collector) RecordEat(amount float32) {
	c.eaten++
	c.foodEnergyEaten += float64(amount)
}

// RecordReseed records n creatures spawned from the hall of fame.
func (c *Collector) RecordReseed(n int) {
	c.reseeds += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, population, food int, sample *PopulationSample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Population: population,
		Food:       food,

		Births:           c.births,
		MutatedBirths:    c.mutatedBirths,
		Deaths:           c.deaths,
		StarvationDeaths: c.starvationDeaths,
		OldAgeDeaths:     c.oldAgeDeaths,
		Eaten:            c.eaten,
		FoodEnergyEaten:  c.foodEnergyEaten,
		Reseeds:          c.reseeds,
	}
	stats.setMutations(c.mutations)

	if sample != nil {
		energy := Summarize(sample.Energies)
		stats.EnergyMean = energy.Mean
		stats.EnergyP10 = energy.P10
		stats.EnergyP50 = energy.P50
		stats.EnergyP90 = energy.P90

		hidden := Summarize(sample.HiddenCounts)
		stats.HiddenMean = hidden.Mean
		stats.HiddenMax = hidden.Max

		synapses := Summarize(sample.SynapseCounts)
		stats.SynapsesMean = synapses.Mean
		stats.SynapsesStd = synapses.Std
		stats.SynapsesMax = synapses.Max

		stats.MaxGeneration = sample.MaxGeneration
		stats.Topologies = sample.Topologies()
	}

	windowStart := currentTick
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		dt:                  c.dt,
		windowStartTick:     windowStart,
	}
	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

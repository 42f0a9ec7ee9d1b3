package telemetry

import (
	"math/rand"
	"testing"

	"github.com/BenGale93/genesis-sub000/components"
	"github.com/BenGale93/genesis-sub000/neural"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("ticks per window = %d, want 10", c.WindowDurationTicks())
	}
	if c.ShouldFlush(9) || !c.ShouldFlush(10) {
		t.Error("flush boundary wrong")
	}

	c.RecordBirth(neural.OpAddNeuron, true)
	c.RecordBirth(neural.OpAddNeuron, true)
	c.RecordBirth(neural.OpMutateWeight, true)
	c.RecordBirth(0, false)
	c.RecordDeath(components.DeathStarvation)
	c.RecordDeath(components.DeathOldAge)
	c.RecordEat(0.25)
	c.RecordEat(0.5)
	c.RecordReseed(3)

	rng := rand.New(rand.NewSource(42))
	var sample PopulationSample
	sample.Add(0.4, 2, neural.NewRandomBrain(rng, 3, 2, 2))
	sample.Add(0.8, 5, neural.NewRandomBrain(rng, 3, 2, 4))

	s := c.Flush(10, 2, 30, &sample)

	tests := []struct {
		name      string
		got, want int
	}{
		{"births", s.Births, 4},
		{"mutated births", s.MutatedBirths, 3},
		{"add neuron", s.MutAddNeuron, 2},
		{"mutate weight", s.MutMutateWeight, 1},
		{"add synapse", s.MutAddSynapse, 0},
		{"deaths", s.Deaths, 2},
		{"starvation", s.StarvationDeaths, 1},
		{"old age", s.OldAgeDeaths, 1},
		{"eaten", s.Eaten, 2},
		{"reseeds", s.Reseeds, 3},
		{"population", s.Population, 2},
		{"food", s.Food, 30},
		{"max generation", s.MaxGeneration, 5},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
	if s.FoodEnergyEaten != 0.75 {
		t.Errorf("food energy = %v, want 0.75", s.FoodEnergyEaten)
	}
	if s.EnergyMean < 0.6-1e-6 || s.EnergyMean > 0.6+1e-6 {
		t.Errorf("energy mean = %v, want 0.6", s.EnergyMean)
	}
	if s.SimTimeSec < 0.999 || s.SimTimeSec > 1.001 {
		t.Errorf("sim time = %v, want 1", s.SimTimeSec)
	}

	// Counters reset and the next window starts at the flush tick.
	next := c.Flush(20, 0, 0, nil)
	if next.Births != 0 || next.MutAddNeuron != 0 || next.WindowStartTick != 10 {
		t.Errorf("second window = %+v", next)
	}
}

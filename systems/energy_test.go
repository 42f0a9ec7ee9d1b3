package systems

import (
	"math"
	"testing"

	"github.com/BenGale93/genesis-sub000/components"
	"github.com/BenGale93/genesis-sub000/config"
)

func testParams(t *testing.T) EnergyParams {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return NewEnergyParams(cfg)
}

func liveCreature() (components.Energy, components.Organism) {
	return components.Energy{Value: 0.5, Max: 1, Health: 1, MaxHealth: 1, Alive: true},
		components.Organism{Size: 1}
}

func TestUpdateEnergyDeadIsNoOp(t *testing.T) {
	p := testParams(t)
	e, org := liveCreature()
	e.Alive = false

	if cost := UpdateEnergy(&e, &org, 1, 1, p, 1.0/60); cost != 0 {
		t.Errorf("cost = %v for dead creature", cost)
	}
	if e.Value != 0.5 || e.Age != 0 {
		t.Errorf("dead creature changed: %+v", e)
	}
}

func TestUpdateEnergyBaseCost(t *testing.T) {
	p := testParams(t)
	dt := float32(1.0 / 60)
	e, org := liveCreature()

	cost := UpdateEnergy(&e, &org, 0, 0, p, dt)

	want := p.BaseCost * dt
	if math.Abs(float64(cost-want)) > 1e-7 {
		t.Errorf("cost = %v, want %v", cost, want)
	}
	if math.Abs(float64(0.5-e.Value-cost)) > 1e-7 {
		t.Errorf("energy lost %v does not match cost %v", 0.5-e.Value, cost)
	}
	if e.Age != dt {
		t.Errorf("age = %v, want %v", e.Age, dt)
	}
}

func TestUpdateEnergyCostScales(t *testing.T) {
	p := testParams(t)
	dt := float32(1.0 / 60)

	tests := []struct {
		name                 string
		slowSpeed, fastSpeed float32
		slowSize, fastSize   float32
	}{
		{"speed", 0.2, 1, 1, 1},
		{"size", 0.5, 0.5, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e1, o1 := liveCreature()
			e2, o2 := liveCreature()
			o1.Size, o2.Size = tt.slowSize, tt.fastSize
			lo := UpdateEnergy(&e1, &o1, tt.slowSpeed, 0, p, dt)
			hi := UpdateEnergy(&e2, &o2, tt.fastSpeed, 0, p, dt)
			if hi <= lo {
				t.Errorf("cost %v should exceed %v", hi, lo)
			}
		})
	}
}

func TestUpdateEnergyGrowth(t *testing.T) {
	p := testParams(t)
	e, org := liveCreature()

	UpdateEnergy(&e, &org, 0, 1, p, 1)

	if org.Size <= 1 {
		t.Errorf("size = %v, want growth", org.Size)
	}
	if e.Max != p.MaxEnergyPerSize*org.Size {
		t.Errorf("max energy = %v, want %v", e.Max, p.MaxEnergyPerSize*org.Size)
	}

	// A creature that cannot pay stays the same size.
	poor, small := liveCreature()
	poor.Value = 0.001
	UpdateEnergy(&poor, &small, 0, 1, p, 1)
	if small.Size != 1 {
		t.Errorf("size = %v, poor creature should not grow", small.Size)
	}
}

func TestUpdateEnergyStarvation(t *testing.T) {
	p := testParams(t)
	e, org := liveCreature()
	e.Value = 0

	UpdateEnergy(&e, &org, 0, 0, p, 1)
	if !e.Alive {
		t.Fatal("one second of starvation should not kill")
	}
	if e.Health >= 1 {
		t.Errorf("health = %v, want damage", e.Health)
	}

	for i := 0; i < 1000 && e.Alive; i++ {
		UpdateEnergy(&e, &org, 0, 0, p, 1)
	}
	if e.Alive || e.Cause != components.DeathStarvation {
		t.Errorf("alive %v cause %s, want starvation death", e.Alive, e.Cause)
	}
	if e.Value != 0 || e.Health != 0 {
		t.Errorf("energy %v health %v, want 0", e.Value, e.Health)
	}
}

func TestUpdateEnergyHealthRegen(t *testing.T) {
	p := testParams(t)
	e, org := liveCreature()
	e.Health = 0.5

	UpdateEnergy(&e, &org, 0, 0, p, 1)
	if e.Health <= 0.5 || e.Health > e.MaxHealth {
		t.Errorf("health = %v, want regeneration", e.Health)
	}
}

func TestUpdateEnergyOldAge(t *testing.T) {
	p := testParams(t)
	e, org := liveCreature()
	e.Age = p.Lifespan - 0.01

	UpdateEnergy(&e, &org, 0, 0, p, 1.0/60)
	if e.Alive || e.Cause != components.DeathOldAge {
		t.Errorf("alive %v cause %s, want old age death", e.Alive, e.Cause)
	}
}

func TestFeed(t *testing.T) {
	tests := []struct {
		name                string
		value, food         float32
		wantEaten, wantLeft float32
	}{
		{"all eaten", 0.2, 0.3, 0.3, 0},
		{"capacity bound", 0.9, 0.3, 0.1, 0.2},
		{"full", 1, 0.3, 0, 0.3},
		{"empty pellet", 0.5, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := components.Energy{Value: tt.value, Max: 1, Alive: true}
			f := components.Food{Energy: tt.food}
			eaten := Feed(&e, &f)
			if math.Abs(float64(eaten-tt.wantEaten)) > 1e-6 || math.Abs(float64(f.Energy-tt.wantLeft)) > 1e-6 {
				t.Errorf("eaten %v left %v, want %v and %v", eaten, f.Energy, tt.wantEaten, tt.wantLeft)
			}
			if e.Value > e.Max {
				t.Errorf("energy %v exceeds max", e.Value)
			}
		})
	}
}

package components

import "github.com/BenGale93/genesis-sub000/neural"

// Organism holds creature identity and brain-facing state. The brain itself
// is stored by ID outside the ECS.
type Organism struct {
	ID         uint32
	Generation int
	ParentID   uint32 // 0 for founders

	Size  float32 // body size, grows when the grow output fires
	Timer float32 // seconds since the last timer reset

	// Outputs from the previous tick, fed back to the brain.
	Previous neural.BehaviorOutputs

	ReproCooldown float32 // seconds until reproduction is allowed
}

// Energy holds a creature's vital state.
type Energy struct {
	Value     float32
	Max       float32
	Health    float32
	MaxHealth float32
	Age       float32 // seconds
	Alive     bool
	Cause     DeathCause // set when Alive turns false
}

// Ratio returns energy as a fraction of capacity.
func (e *Energy) Ratio() float32 {
	if e.Max <= 0 {
		return 0
	}
	return e.Value / e.Max
}

package neural

import (
	"encoding/json"
	"math"
)

// Epsilon is the tolerance used when comparing weights and biases.
const Epsilon = 1e-6

// Bounded is a float32 that always lies in [-1, 1].
// The zero value is 0.
type Bounded struct {
	v float32
}

// NewBounded clamps v into [-1, 1].
func NewBounded(v float32) Bounded {
	return Bounded{v: clampUnit(v)}
}

// Value returns the stored value.
func (b Bounded) Value() float32 {
	return b.v
}

// Add returns b+d clamped into [-1, 1].
func (b Bounded) Add(d float32) Bounded {
	return NewBounded(b.v + d)
}

// ApproxEqual reports whether b and o differ by less than Epsilon.
func (b Bounded) ApproxEqual(o Bounded) bool {
	return math.Abs(float64(b.v-o.v)) < Epsilon
}

// MarshalJSON encodes the value as a plain number.
func (b Bounded) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.v)
}

// UnmarshalJSON decodes a number and clamps it.
func (b *Bounded) UnmarshalJSON(data []byte) error {
	var v float32
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = NewBounded(v)
	return nil
}

func clampUnit(v float32) float32 {
	if v != v { // NaN
		return 0
	}
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

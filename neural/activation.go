package neural

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
)

// ActivationKind identifies a transfer function.
type ActivationKind uint8

const (
	Identity ActivationKind = iota
	Sigmoid
	Tanh
	LeakyRelu
	Step
	Softsign
	Sin
	Gaussian
	BentIdentity
	Selu
	Latch

	numActivationKinds
)

// SELU constants.
const (
	seluAlpha = 1.6732632423543772
	seluScale = 1.0507009873554805
)

var activationNames = [numActivationKinds]string{
	Identity:     "identity",
	Sigmoid:      "sigmoid",
	Tanh:         "tanh",
	LeakyRelu:    "leaky_relu",
	Step:         "step",
	Softsign:     "softsign",
	Sin:          "sin",
	Gaussian:     "gaussian",
	BentIdentity: "bent_identity",
	Selu:         "selu",
	Latch:        "latch",
}

// String returns the snake_case name of the kind.
func (k ActivationKind) String() string {
	if k < numActivationKinds {
		return activationNames[k]
	}
	return fmt.Sprintf("activation(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ActivationKind) MarshalText() ([]byte, error) {
	if k >= numActivationKinds {
		return nil, fmt.Errorf("unknown activation kind %d", uint8(k))
	}
	return []byte(activationNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ActivationKind) UnmarshalText(text []byte) error {
	for i, name := range activationNames {
		if name == string(text) {
			*k = ActivationKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown activation %q", text)
}

// ActivationKinds returns every kind in declaration order.
func ActivationKinds() []ActivationKind {
	kinds := make([]ActivationKind, numActivationKinds)
	for i := range kinds {
		kinds[i] = ActivationKind(i)
	}
	return kinds
}

// Activation is a transfer function. Latch is the only stateful kind; it
// remembers the last saturated output in state.
type Activation struct {
	Kind  ActivationKind
	state uint8
}

// NewActivation returns an activation of the given kind with cleared state.
func NewActivation(kind ActivationKind) Activation {
	return Activation{Kind: kind}
}

// NewLatch returns a latch holding state (0 or 1).
func NewLatch(state uint8) Activation {
	if state > 1 {
		state = 1
	}
	return Activation{Kind: Latch, state: state}
}

// RandomActivation samples a kind uniformly. Latches start at state 0.
func RandomActivation(rng *rand.Rand) Activation {
	return randomActivation(rngOrGlobal(rng))
}

func randomActivation(r source) Activation {
	return Activation{Kind: ActivationKind(r.Intn(int(numActivationKinds)))}
}

// State returns the latch state. It is always 0 for other kinds.
func (a Activation) State() uint8 {
	return a.state
}

// Activate applies the transfer function to x.
func (a *Activation) Activate(x float32) float32 {
	switch a.Kind {
	case Identity:
		return x
	case Sigmoid:
		return float32(1 / (1 + math.Exp(-float64(x))))
	case Tanh:
		return float32(math.Tanh(float64(x)))
	case LeakyRelu:
		if x > 0 {
			return x
		}
		return 0.01 * x
	case Step:
		if x > 0 {
			return 1
		}
		return 0
	case Softsign:
		return x / (1 + float32(math.Abs(float64(x))))
	case Sin:
		return float32(math.Sin(float64(x)))
	case Gaussian:
		return float32(math.Exp(-float64(x) * float64(x)))
	case BentIdentity:
		xf := float64(x)
		return float32((math.Sqrt(xf*xf+1)-1)/2 + xf)
	case Selu:
		if x > 0 {
			return float32(seluScale * float64(x))
		}
		return float32(seluScale * seluAlpha * (math.Exp(float64(x)) - 1))
	case Latch:
		switch {
		case x <= 0:
			a.state = 0
		case x >= 1:
			a.state = 1
		}
		return float32(a.state)
	}
	return x
}

type activationJSON struct {
	Kind  ActivationKind `json:"kind"`
	State *uint8         `json:"state,omitempty"`
}

// MarshalJSON writes {"kind": ...}; latches also carry their state byte.
func (a Activation) MarshalJSON() ([]byte, error) {
	out := activationJSON{Kind: a.Kind}
	if a.Kind == Latch {
		state := a.state
		out.State = &state
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (a *Activation) UnmarshalJSON(data []byte) error {
	var in activationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*a = Activation{Kind: in.Kind}
	if in.Kind == Latch && in.State != nil {
		*a = NewLatch(*in.State)
	}
	return nil
}

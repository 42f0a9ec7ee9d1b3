package neural

import (
	"fmt"
	"math/rand"
)

// NeuronKind is the role of a neuron in the brain.
type NeuronKind uint8

const (
	InputNeuron NeuronKind = iota
	OutputNeuron
	HiddenNeuron
)

var neuronKindNames = [...]string{"input", "output", "hidden"}

// String returns the lower-case kind name.
func (k NeuronKind) String() string {
	if int(k) < len(neuronKindNames) {
		return neuronKindNames[k]
	}
	return fmt.Sprintf("neuron_kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k NeuronKind) MarshalText() ([]byte, error) {
	if int(k) >= len(neuronKindNames) {
		return nil, fmt.Errorf("unknown neuron kind %d", uint8(k))
	}
	return []byte(neuronKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NeuronKind) UnmarshalText(text []byte) error {
	for i, name := range neuronKindNames {
		if name == string(text) {
			*k = NeuronKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown neuron kind %q", text)
}

// Neuron is a node in the brain graph.
type Neuron struct {
	Kind       NeuronKind `json:"kind"`
	Activation Activation `json:"activation"`
	Bias       Bounded    `json:"bias"`
}

// NewInputNeuron returns a pass-through neuron.
func NewInputNeuron() Neuron {
	return Neuron{Kind: InputNeuron, Activation: NewActivation(Identity)}
}

// NewOutputNeuron returns a tanh neuron with zero bias.
func NewOutputNeuron() Neuron {
	return Neuron{Kind: OutputNeuron, Activation: NewActivation(Tanh)}
}

// NewHiddenNeuron returns a neuron with a random activation and bias.
func NewHiddenNeuron(rng *rand.Rand) Neuron {
	return newHiddenNeuron(rngOrGlobal(rng))
}

func newHiddenNeuron(r source) Neuron {
	return Neuron{
		Kind:       HiddenNeuron,
		Activation: randomActivation(r),
		Bias:       NewBounded(uniform(r)),
	}
}

// Activate returns activation(input) + bias.
func (n *Neuron) Activate(input float32) float32 {
	return n.Activation.Activate(input) + n.Bias.Value()
}

// Equal compares kind, activation kind and bias. Latch state is ignored.
func (n Neuron) Equal(o Neuron) bool {
	return n.Kind == o.Kind &&
		n.Activation.Kind == o.Activation.Kind &&
		n.Bias.ApproxEqual(o.Bias)
}

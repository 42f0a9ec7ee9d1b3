package neural

import (
	"encoding/json"
	"fmt"
	"os"
)

// brainJSON is the saved form. Input and output counts are not stored; they
// are recovered from the neuron ordering on load.
type brainJSON struct {
	Neurons  []Neuron  `json:"neurons"`
	Synapses []Synapse `json:"synapses"`
}

// MarshalJSON implements json.Marshaler.
func (b *Brain) MarshalJSON() ([]byte, error) {
	return json.Marshal(brainJSON{Neurons: b.neurons, Synapses: b.synapses})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded brain is validated
// before it replaces the receiver.
func (b *Brain) UnmarshalJSON(data []byte) error {
	var in brainJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	loaded, err := FromParts(in.Neurons, in.Synapses)
	if err != nil {
		return err
	}
	*b = *loaded
	return nil
}

// FromParts builds a brain from neuron and synapse slices, counting the
// leading input neurons and the output neurons after them.
func FromParts(neurons []Neuron, synapses []Synapse) (*Brain, error) {
	inputs := 0
	for inputs < len(neurons) && neurons[inputs].Kind == InputNeuron {
		inputs++
	}
	outputs := 0
	for inputs+outputs < len(neurons) && neurons[inputs+outputs].Kind == OutputNeuron {
		outputs++
	}
	b := &Brain{
		neurons:  append([]Neuron(nil), neurons...),
		synapses: append([]Synapse(nil), synapses...),
		inputs:   inputs,
		outputs:  outputs,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the structural invariants: canonical neuron ordering,
// synapse endpoints in range, no edges into inputs or out of outputs,
// innovation ids matching their endpoints, one active synapse per innovation
// and an acyclic active graph.
func (b *Brain) Validate() error {
	for i, n := range b.neurons {
		want := HiddenNeuron
		switch {
		case i < b.inputs:
			want = InputNeuron
		case i < b.inputs+b.outputs:
			want = OutputNeuron
		}
		if n.Kind != want {
			return fmt.Errorf("%w: neuron %d is %s, want %s", ErrInvalidBrain, i, n.Kind, want)
		}
	}

	seen := make(map[int]bool, len(b.synapses))
	for i, s := range b.synapses {
		if !b.validNeuron(s.From) || !b.validNeuron(s.To) {
			return fmt.Errorf("%w: synapse %d (%d -> %d) out of range", ErrInvalidBrain, i, s.From, s.To)
		}
		if s.From == s.To {
			return fmt.Errorf("%w: synapse %d is a self loop", ErrInvalidBrain, i)
		}
		if b.neurons[s.To].Kind == InputNeuron {
			return fmt.Errorf("%w: synapse %d enters input %d", ErrInvalidBrain, i, s.To)
		}
		if b.neurons[s.From].Kind == OutputNeuron {
			return fmt.Errorf("%w: synapse %d leaves output %d", ErrInvalidBrain, i, s.From)
		}
		if want := Innovation(s.From, s.To); s.Innovation != want {
			return fmt.Errorf("%w: synapse %d has innovation %d, want %d", ErrInvalidBrain, i, s.Innovation, want)
		}
		if !s.Active {
			continue
		}
		if seen[s.Innovation] {
			return fmt.Errorf("%w: innovation %d active twice", ErrInvalidBrain, s.Innovation)
		}
		seen[s.Innovation] = true
	}

	if !IsAcyclic(b.neurons, b.synapses) {
		return fmt.Errorf("%w: active synapses contain a cycle", ErrInvalidBrain)
	}
	return nil
}

// SaveBrain writes the brain as indented JSON.
func SaveBrain(path string, b *Brain) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling brain: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing brain file: %w", err)
	}
	return nil
}

// LoadBrain reads a brain written by SaveBrain.
func LoadBrain(path string) (*Brain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading brain file: %w", err)
	}
	b := &Brain{}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("parsing brain file: %w", err)
	}
	return b, nil
}

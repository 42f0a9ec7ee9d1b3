package neural

import (
	"fmt"
	"math/rand"
)

// Operator is one mutation applied by Brain.Mutate.
type Operator uint8

// Operators in roulette order.
const (
	OpDeactivateNeuron Operator = iota
	OpAddNeuron
	OpMutateBias
	OpMutateActivation
	OpMutateWeight
	OpDeactivateSynapse
	OpAddSynapse

	NumOperators = int(OpAddSynapse) + 1
)

var operatorNames = [NumOperators]string{
	OpDeactivateNeuron:  "deactivate_neuron",
	OpAddNeuron:         "add_neuron",
	OpMutateBias:        "mutate_bias",
	OpMutateActivation:  "mutate_activation",
	OpMutateWeight:      "mutate_weight",
	OpDeactivateSynapse: "deactivate_synapse",
	OpAddSynapse:        "add_synapse",
}

func (op Operator) String() string {
	if int(op) < NumOperators {
		return operatorNames[op]
	}
	return fmt.Sprintf("operator(%d)", uint8(op))
}

// Operators returns every operator in roulette order.
func Operators() []Operator {
	ops := make([]Operator, NumOperators)
	for i := range ops {
		ops[i] = Operator(i)
	}
	return ops
}

// Thresholds is a cumulative probability table indexed by Operator. A draw
// r selects the first operator whose threshold is greater than r.
type Thresholds [NumOperators]float64

// NewThresholds builds a cumulative table from per-operator weights given
// in roulette order. Weights are normalised to sum to 1.
func NewThresholds(weights []float64) (Thresholds, error) {
	var t Thresholds
	if len(weights) != NumOperators {
		return t, fmt.Errorf("expected %d operator weights, got %d", NumOperators, len(weights))
	}
	var total float64
	for i, w := range weights {
		if w < 0 {
			return t, fmt.Errorf("negative weight %v for %s", w, Operator(i))
		}
		total += w
	}
	if total == 0 {
		return t, fmt.Errorf("operator weights sum to zero")
	}
	var acc float64
	for i, w := range weights {
		acc += w / total
		t[i] = acc
	}
	t[NumOperators-1] = 1
	return t, nil
}

// UniformThresholds gives every operator the same probability.
func UniformThresholds() Thresholds {
	var t Thresholds
	for i := range t {
		t[i] = float64(i+1) / float64(NumOperators)
	}
	return t
}

// Select returns the operator for draw r in [0, 1). ok is false when r lies
// above every threshold.
func (t Thresholds) Select(r float64) (op Operator, ok bool) {
	for i, threshold := range t {
		if r < threshold {
			return Operator(i), true
		}
	}
	return 0, false
}

// Probability returns the chance that op is selected.
func (t Thresholds) Probability(op Operator) float64 {
	if int(op) >= NumOperators {
		return 0
	}
	if op == 0 {
		return t[0]
	}
	return t[op] - t[op-1]
}

// Mutate returns a copy of the brain. With the given probability exactly
// one operator, picked from thresholds, is applied to the copy. The
// receiver is never modified.
func (b *Brain) Mutate(rng *rand.Rand, probability float64, thresholds Thresholds) *Brain {
	child, _, _ := b.MutateTraced(rng, probability, thresholds)
	return child
}

// MutateTraced is Mutate that also reports which operator, if any, ran.
func (b *Brain) MutateTraced(rng *rand.Rand, probability float64, thresholds Thresholds) (*Brain, Operator, bool) {
	r := rngOrGlobal(rng)
	child := b.Clone()
	if r.Float64() >= probability {
		return child, 0, false
	}
	op, ok := thresholds.Select(r.Float64())
	if !ok {
		return child, 0, false
	}
	child.apply(op, r)
	return child, op, true
}

// Apply runs a single operator on the brain in place.
func (b *Brain) Apply(rng *rand.Rand, op Operator) {
	b.apply(op, rngOrGlobal(rng))
}

func (b *Brain) apply(op Operator, r source) {
	switch op {
	case OpDeactivateNeuron:
		b.deactivateRandomNeuron(r)
	case OpAddNeuron:
		b.addRandomNeuron(r)
	case OpMutateBias:
		b.mutateNeuronBias(r)
	case OpMutateActivation:
		b.mutateNeuronActivation(r)
	case OpMutateWeight:
		b.mutateSynapseWeight(r)
	case OpDeactivateSynapse:
		b.deactivateRandomSynapse(r)
	case OpAddSynapse:
		b.addRandomSynapse(r)
	}
}

// DeactivateRandomNeuron removes a random hidden neuron.
func (b *Brain) DeactivateRandomNeuron(rng *rand.Rand) {
	b.deactivateRandomNeuron(rngOrGlobal(rng))
}

func (b *Brain) deactivateRandomNeuron(r source) {
	hidden := b.liveHidden()
	if len(hidden) == 0 {
		return
	}
	_ = b.RemoveNeuron(hidden[r.Intn(len(hidden))])
}

// AddRandomNeuron splits a random active synapse.
func (b *Brain) AddRandomNeuron(rng *rand.Rand) {
	b.addRandomNeuron(rngOrGlobal(rng))
}

func (b *Brain) addRandomNeuron(r source) {
	active := b.activeSynapses()
	if len(active) == 0 {
		return
	}
	_, _ = b.addNeuron(active[r.Intn(len(active))], r)
}

// DeactivateRandomSynapse disables a random active synapse.
func (b *Brain) DeactivateRandomSynapse(rng *rand.Rand) {
	b.deactivateRandomSynapse(rngOrGlobal(rng))
}

func (b *Brain) deactivateRandomSynapse(r source) {
	active := b.activeSynapses()
	if len(active) == 0 {
		return
	}
	_ = b.DeactivateSynapse(active[r.Intn(len(active))])
}

// MutateSynapseWeight nudges one active synapse's weight by a standard
// normal offset.
func (b *Brain) MutateSynapseWeight(rng *rand.Rand) {
	b.mutateSynapseWeight(rngOrGlobal(rng))
}

func (b *Brain) mutateSynapseWeight(r source) {
	active := b.activeSynapses()
	if len(active) == 0 {
		return
	}
	s := &b.synapses[active[r.Intn(len(active))]]
	s.Weight = s.Weight.Add(float32(r.NormFloat64()))
}

// MutateNeuronBias nudges the bias of one output or live hidden neuron by a
// standard normal offset.
func (b *Brain) MutateNeuronBias(rng *rand.Rand) {
	b.mutateNeuronBias(rngOrGlobal(rng))
}

func (b *Brain) mutateNeuronBias(r source) {
	eligible := make([]int, 0, b.outputs)
	for i := b.inputs; i < b.inputs+b.outputs; i++ {
		eligible = append(eligible, i)
	}
	eligible = append(eligible, b.liveHidden()...)
	if len(eligible) == 0 {
		return
	}
	n := &b.neurons[eligible[r.Intn(len(eligible))]]
	n.Bias = n.Bias.Add(float32(r.NormFloat64()))
}

// MutateNeuronActivation gives one live hidden neuron a fresh activation.
func (b *Brain) MutateNeuronActivation(rng *rand.Rand) {
	b.mutateNeuronActivation(rngOrGlobal(rng))
}

func (b *Brain) mutateNeuronActivation(r source) {
	hidden := b.liveHidden()
	if len(hidden) == 0 {
		return
	}
	b.neurons[hidden[r.Intn(len(hidden))]].Activation = randomActivation(r)
}

// Package neural provides the evolvable neuron/synapse brains that drive
// creatures.
package neural

import (
	"fmt"
	"math/rand"
)

// Brain is an evolvable neuron/synapse graph. Neurons and synapses live in
// flat slices and refer to each other by index. Neurons [0, inputs) are
// inputs, [inputs, inputs+outputs) are outputs, the rest are hidden.
//
// A Brain is owned by a single creature and is not safe for concurrent use.
// Distinct brains share nothing and can be evaluated in parallel.
type Brain struct {
	neurons  []Neuron
	synapses []Synapse
	inputs   int
	outputs  int

	// plan caches the layering; nil after any topology change.
	plan    *evalPlan
	scratch []float32
}

// evalPlan is the memoised evaluation order for the current topology.
type evalPlan struct {
	layers   [][]int
	incoming [][]int
}

// NewBrain returns a brain with the given input and output neurons and no
// synapses.
func NewBrain(inputs, outputs int) *Brain {
	neurons := make([]Neuron, 0, inputs+outputs)
	for i := 0; i < inputs; i++ {
		neurons = append(neurons, NewInputNeuron())
	}
	for i := 0; i < outputs; i++ {
		neurons = append(neurons, NewOutputNeuron())
	}
	return &Brain{
		neurons: neurons,
		inputs:  inputs,
		outputs: outputs,
	}
}

// NewRandomBrain returns a new brain with up to synapses random connections.
func NewRandomBrain(rng *rand.Rand, inputs, outputs, synapses int) *Brain {
	b := NewBrain(inputs, outputs)
	r := rngOrGlobal(rng)
	for i := 0; i < synapses; i++ {
		b.addRandomSynapse(r)
	}
	return b
}

// Inputs returns the number of input neurons.
func (b *Brain) Inputs() int { return b.inputs }

// Outputs returns the number of output neurons.
func (b *Brain) Outputs() int { return b.outputs }

// Neurons returns a copy of the neuron slice.
func (b *Brain) Neurons() []Neuron {
	out := make([]Neuron, len(b.neurons))
	copy(out, b.neurons)
	return out
}

// Synapses returns a copy of the synapse slice.
func (b *Brain) Synapses() []Synapse {
	out := make([]Synapse, len(b.synapses))
	copy(out, b.synapses)
	return out
}

// Neuron returns the neuron at index.
func (b *Brain) Neuron(index int) (Neuron, error) {
	if index < 0 || index >= len(b.neurons) {
		return Neuron{}, fmt.Errorf("%w: neuron %d", ErrOutOfBounds, index)
	}
	return b.neurons[index], nil
}

// Synapse returns the synapse at index.
func (b *Brain) Synapse(index int) (Synapse, error) {
	if index < 0 || index >= len(b.synapses) {
		return Synapse{}, fmt.Errorf("%w: synapse %d", ErrOutOfBounds, index)
	}
	return b.synapses[index], nil
}

// HiddenCount returns the number of hidden neurons that still have active
// synapses.
func (b *Brain) HiddenCount() int {
	return len(b.liveHidden())
}

// ActiveSynapseCount returns the number of active synapses.
func (b *Brain) ActiveSynapseCount() int {
	n := 0
	for _, s := range b.synapses {
		if s.Active {
			n++
		}
	}
	return n
}

// Innovations returns the innovation ids of the active synapses.
func (b *Brain) Innovations() []int {
	ids := make([]int, 0, len(b.synapses))
	for _, s := range b.synapses {
		if s.Active {
			ids = append(ids, s.Innovation)
		}
	}
	return ids
}

// Clone returns a deep copy.
func (b *Brain) Clone() *Brain {
	return &Brain{
		neurons:  b.Neurons(),
		synapses: b.Synapses(),
		inputs:   b.inputs,
		outputs:  b.outputs,
	}
}

// Layers returns the feed-forward layering of the current topology.
func (b *Brain) Layers() [][]int {
	p := b.evalPlan()
	out := make([][]int, len(p.layers))
	for i, layer := range p.layers {
		out[i] = append([]int(nil), layer...)
	}
	return out
}

func (b *Brain) evalPlan() *evalPlan {
	if b.plan == nil {
		incoming := incomingIndex(len(b.neurons), b.synapses)
		b.plan = &evalPlan{
			layers:   feedForwardLayers(b.neurons, b.synapses, incoming),
			incoming: incoming,
		}
	}
	return b.plan
}

func (b *Brain) invalidate() {
	b.plan = nil
}

// Activate feeds values through the brain and returns the output neurons'
// values. Neurons outside every layer are not evaluated and read as 0.
func (b *Brain) Activate(values []float32) ([]float32, error) {
	if len(values) != b.inputs {
		return nil, fmt.Errorf("%w: expected %d inputs, got %d", ErrInputArray, b.inputs, len(values))
	}

	if cap(b.scratch) < len(b.neurons) {
		b.scratch = make([]float32, len(b.neurons))
	}
	buf := b.scratch[:len(b.neurons)]
	clear(buf)

	for i, v := range values {
		buf[i] = b.neurons[i].Activate(v)
	}

	p := b.evalPlan()
	for _, layer := range p.layers {
		for _, idx := range layer {
			var sum float32
			for _, si := range p.incoming[idx] {
				s := &b.synapses[si]
				sum += buf[s.From] * s.Weight.Value()
			}
			buf[idx] = b.neurons[idx].Activate(sum)
		}
	}

	out := make([]float32, b.outputs)
	copy(out, buf[b.inputs:b.inputs+b.outputs])
	return out, nil
}

// CanConnect reports whether a new active synapse from -> to respects the
// topology rules: no edges out of outputs or into inputs, no input-input or
// output-output edges, no cycles, and no edges into a hidden neuron without
// outputs or out of a hidden neuron without inputs.
func (b *Brain) CanConnect(from, to int) bool {
	if !b.validNeuron(from) || !b.validNeuron(to) || from == to {
		return false
	}
	fk, tk := b.neurons[from].Kind, b.neurons[to].Kind
	if fk == OutputNeuron || tk == InputNeuron {
		return false
	}
	if fk == tk && fk != HiddenNeuron {
		return false
	}
	if CreatesCycle(b.synapses, from, to) {
		return false
	}
	if tk == HiddenNeuron && b.activeOutgoing(to) == 0 {
		return false
	}
	if fk == HiddenNeuron && b.activeIncoming(from) == 0 {
		return false
	}
	return true
}

// AddSynapse connects from -> to and returns the synapse index. A previously
// deactivated synapse with the same innovation is reactivated in place.
func (b *Brain) AddSynapse(from, to int, weight float32) (int, error) {
	if !b.validNeuron(from) {
		return 0, fmt.Errorf("%w: neuron %d", ErrOutOfBounds, from)
	}
	if !b.validNeuron(to) {
		return 0, fmt.Errorf("%w: neuron %d", ErrOutOfBounds, to)
	}
	s, err := NewSynapse(from, to, weight)
	if err != nil {
		return 0, err
	}

	existing := -1
	for i, o := range b.synapses {
		if o.Innovation != s.Innovation {
			continue
		}
		if o.Active {
			return 0, fmt.Errorf("%w: %d -> %d already connected", ErrSynapse, from, to)
		}
		existing = i
	}
	if !b.CanConnect(from, to) {
		return 0, fmt.Errorf("%w: %d -> %d breaks topology rules", ErrSynapse, from, to)
	}

	b.invalidate()
	if existing >= 0 {
		b.synapses[existing].Active = true
		b.synapses[existing].Weight = s.Weight
		return existing, nil
	}
	b.synapses = append(b.synapses, s)
	return len(b.synapses) - 1, nil
}

// AddRandomSynapse connects a random eligible pair of neurons with a random
// weight. It does nothing when no pair is eligible.
func (b *Brain) AddRandomSynapse(rng *rand.Rand) {
	b.addRandomSynapse(rngOrGlobal(rng))
}

func (b *Brain) addRandomSynapse(r source) {
	connected := make(map[[2]int]bool, len(b.synapses))
	for _, s := range b.synapses {
		if s.Active {
			connected[[2]int{s.From, s.To}] = true
			connected[[2]int{s.To, s.From}] = true
		}
	}

	var candidates [][2]int
	for i := range b.neurons {
		for j := range b.neurons {
			if i == j || b.neurons[j].Kind == InputNeuron || connected[[2]int{i, j}] {
				continue
			}
			if b.CanConnect(i, j) {
				candidates = append(candidates, [2]int{i, j})
			}
		}
	}
	if len(candidates) == 0 {
		return
	}
	pair := candidates[r.Intn(len(candidates))]
	// Candidates were filtered by CanConnect, so this cannot fail.
	_, _ = b.AddSynapse(pair[0], pair[1], uniform(r))
}

// DeactivateSynapse disables a synapse. Hidden endpoints left without
// inputs (target) or outputs (source) are removed in turn.
func (b *Brain) DeactivateSynapse(index int) error {
	if index < 0 || index >= len(b.synapses) {
		return fmt.Errorf("%w: synapse %d", ErrOutOfBounds, index)
	}
	s := &b.synapses[index]
	if !s.Active {
		return nil
	}
	s.Active = false
	b.invalidate()

	from, to := s.From, s.To
	if b.neurons[from].Kind == HiddenNeuron && b.activeOutgoing(from) == 0 {
		if err := b.RemoveNeuron(from); err != nil {
			return err
		}
	}
	if b.neurons[to].Kind == HiddenNeuron && b.activeIncoming(to) == 0 {
		if err := b.RemoveNeuron(to); err != nil {
			return err
		}
	}
	return nil
}

// AddNeuron splits an active synapse with a new hidden neuron and returns
// the neuron's index. Both new synapses carry the original weight.
func (b *Brain) AddNeuron(rng *rand.Rand, synapseIndex int) (int, error) {
	return b.addNeuron(synapseIndex, rngOrGlobal(rng))
}

func (b *Brain) addNeuron(synapseIndex int, r source) (int, error) {
	if synapseIndex < 0 || synapseIndex >= len(b.synapses) {
		return 0, fmt.Errorf("%w: synapse %d", ErrOutOfBounds, synapseIndex)
	}
	old := b.synapses[synapseIndex]
	if !old.Active {
		return 0, fmt.Errorf("%w: synapse %d", ErrNeuron, synapseIndex)
	}

	b.synapses[synapseIndex].Active = false
	b.neurons = append(b.neurons, newHiddenNeuron(r))
	index := len(b.neurons) - 1

	in, _ := NewSynapse(old.From, index, old.Weight.Value())
	out, _ := NewSynapse(index, old.To, old.Weight.Value())
	b.synapses = append(b.synapses, in, out)
	b.invalidate()
	return index, nil
}

// RemoveNeuron disconnects a hidden neuron. Each of its active inputs is
// bridged straight to each of its active outputs with the input's weight;
// the neuron's own activation and bias are dropped. The slot stays in the
// neuron slice so other indices are unaffected.
func (b *Brain) RemoveNeuron(index int) error {
	if !b.validNeuron(index) {
		return fmt.Errorf("%w: neuron %d", ErrOutOfBounds, index)
	}
	if b.neurons[index].Kind != HiddenNeuron {
		return fmt.Errorf("%w: neuron %d is %s", ErrNeuronRemoval, index, b.neurons[index].Kind)
	}

	type incomingEdge struct {
		from   int
		weight float32
	}
	var incoming []incomingEdge
	var outgoing []int
	var touching []int
	for i, s := range b.synapses {
		if !s.Active {
			continue
		}
		switch index {
		case s.To:
			incoming = append(incoming, incomingEdge{s.From, s.Weight.Value()})
			touching = append(touching, i)
		case s.From:
			outgoing = append(outgoing, s.To)
			touching = append(touching, i)
		}
	}

	for _, in := range incoming {
		for _, to := range outgoing {
			if b.connected(in.from, to) {
				continue
			}
			// A bridge the topology rules reject is dropped.
			_, _ = b.AddSynapse(in.from, to, in.weight)
		}
	}

	for _, i := range touching {
		if !b.synapses[i].Active {
			continue
		}
		if err := b.DeactivateSynapse(i); err != nil {
			return err
		}
	}
	return nil
}

func (b *Brain) validNeuron(i int) bool {
	return i >= 0 && i < len(b.neurons)
}

func (b *Brain) connected(from, to int) bool {
	for _, s := range b.synapses {
		if s.Active && s.From == from && s.To == to {
			return true
		}
	}
	return false
}

func (b *Brain) activeIncoming(i int) int {
	n := 0
	for _, s := range b.synapses {
		if s.Active && s.To == i {
			n++
		}
	}
	return n
}

func (b *Brain) activeOutgoing(i int) int {
	n := 0
	for _, s := range b.synapses {
		if s.Active && s.From == i {
			n++
		}
	}
	return n
}

// liveHidden returns the hidden neurons that still have an active synapse.
func (b *Brain) liveHidden() []int {
	live := make([]bool, len(b.neurons))
	for _, s := range b.synapses {
		if s.Active {
			live[s.From] = true
			live[s.To] = true
		}
	}
	var out []int
	for i, n := range b.neurons {
		if n.Kind == HiddenNeuron && live[i] {
			out = append(out, i)
		}
	}
	return out
}

func (b *Brain) activeSynapses() []int {
	var out []int
	for i, s := range b.synapses {
		if s.Active {
			out = append(out, i)
		}
	}
	return out
}

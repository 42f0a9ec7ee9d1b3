package neural

import (
	"reflect"
	"testing"
)

func mustSynapse(t *testing.T, from, to int, w float32) Synapse {
	t.Helper()
	s, err := NewSynapse(from, to, w)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCreatesCycle(t *testing.T) {
	chain := []Synapse{
		mustSynapse(t, 0, 3, 0.5),
		mustSynapse(t, 3, 4, 0.5),
		mustSynapse(t, 4, 2, 0.5),
	}

	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{"closing the chain", 4, 3, true},
		{"long back edge", 2, 0, true},
		{"skip forward", 0, 4, false},
		{"parallel input", 1, 3, false},
		{"self loop", 3, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CreatesCycle(chain, tt.from, tt.to); got != tt.want {
				t.Errorf("CreatesCycle(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCreatesCycleIgnoresInactive(t *testing.T) {
	back := mustSynapse(t, 4, 3, 0.5)
	back.Active = false
	synapses := []Synapse{back}
	if CreatesCycle(synapses, 3, 4) {
		t.Error("inactive synapse should not count towards a cycle")
	}
}

func TestFeedForwardLayers(t *testing.T) {
	neurons := []Neuron{
		NewInputNeuron(),
		NewInputNeuron(),
		NewOutputNeuron(),
		{Kind: HiddenNeuron, Activation: NewActivation(Tanh)},
		{Kind: HiddenNeuron, Activation: NewActivation(Tanh)},
	}
	synapses := []Synapse{
		mustSynapse(t, 0, 3, 0.5),
		mustSynapse(t, 3, 4, 0.5),
		mustSynapse(t, 4, 2, 0.5),
		mustSynapse(t, 1, 2, 0.5),
	}

	got := FeedForwardLayers(neurons, synapses)
	want := [][]int{{3}, {4}, {2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("layers = %v, want %v", got, want)
	}
}

func TestFeedForwardLayersExcludesUnreachable(t *testing.T) {
	neurons := []Neuron{
		NewInputNeuron(),
		NewOutputNeuron(),
		NewOutputNeuron(),
		{Kind: HiddenNeuron, Activation: NewActivation(Tanh)},
		{Kind: HiddenNeuron, Activation: NewActivation(Tanh)},
	}
	synapses := []Synapse{
		mustSynapse(t, 0, 1, 0.5),
		// 4 has no inputs, so 3 and output 2 downstream of it never run.
		mustSynapse(t, 4, 3, 0.5),
		mustSynapse(t, 3, 2, 0.5),
	}

	got := FeedForwardLayers(neurons, synapses)
	want := [][]int{{1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("layers = %v, want %v", got, want)
	}
}

func TestFeedForwardLayersRespectsPredecessors(t *testing.T) {
	neurons := []Neuron{
		NewInputNeuron(),
		NewOutputNeuron(),
		{Kind: HiddenNeuron},
		{Kind: HiddenNeuron},
		{Kind: HiddenNeuron},
	}
	synapses := []Synapse{
		mustSynapse(t, 0, 2, 0.1),
		mustSynapse(t, 2, 3, 0.1),
		mustSynapse(t, 0, 4, 0.1),
		mustSynapse(t, 3, 4, 0.1),
		mustSynapse(t, 4, 1, 0.1),
		mustSynapse(t, 2, 1, 0.1),
	}

	layers := FeedForwardLayers(neurons, synapses)
	assertLayerOrder(t, neurons, synapses, layers)
}

func TestIsAcyclic(t *testing.T) {
	neurons := []Neuron{NewInputNeuron(), NewOutputNeuron(), {Kind: HiddenNeuron}, {Kind: HiddenNeuron}}
	synapses := []Synapse{
		mustSynapse(t, 0, 2, 0.1),
		mustSynapse(t, 2, 3, 0.1),
		mustSynapse(t, 3, 1, 0.1),
	}
	if !IsAcyclic(neurons, synapses) {
		t.Error("chain reported as cyclic")
	}

	synapses = append(synapses, mustSynapse(t, 3, 2, 0.1))
	if IsAcyclic(neurons, synapses) {
		t.Error("2 <-> 3 loop not detected")
	}

	synapses[len(synapses)-1].Active = false
	if !IsAcyclic(neurons, synapses) {
		t.Error("inactive back edge should be ignored")
	}
}

// assertLayerOrder checks that every active edge into a layered neuron starts
// at an input or at a neuron in a strictly earlier layer.
func assertLayerOrder(t *testing.T, neurons []Neuron, synapses []Synapse, layers [][]int) {
	t.Helper()
	layerOf := make(map[int]int)
	for li, layer := range layers {
		for _, n := range layer {
			if _, dup := layerOf[n]; dup {
				t.Fatalf("neuron %d appears in more than one layer", n)
			}
			layerOf[n] = li
		}
	}
	for _, s := range synapses {
		if !s.Active {
			continue
		}
		to, ok := layerOf[s.To]
		if !ok {
			continue
		}
		if neurons[s.From].Kind == InputNeuron {
			continue
		}
		from, ok := layerOf[s.From]
		if !ok {
			t.Errorf("neuron %d in layer %d depends on unlayered %d", s.To, to, s.From)
			continue
		}
		if from >= to {
			t.Errorf("neuron %d in layer %d depends on %d in layer %d", s.To, to, s.From, from)
		}
	}
}

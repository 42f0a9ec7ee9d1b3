package neural

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
)

func TestNewThresholds(t *testing.T) {
	th, err := NewThresholds([]float64{1, 1, 2, 0, 4, 1, 1})
	if err != nil {
		t.Fatalf("NewThresholds failed: %v", err)
	}
	want := Thresholds{0.1, 0.2, 0.4, 0.4, 0.8, 0.9, 1}
	for i := range want {
		if math.Abs(th[i]-want[i]) > 1e-9 {
			t.Errorf("threshold[%d] = %v, want %v", i, th[i], want[i])
		}
	}

	if p := th.Probability(OpMutateWeight); math.Abs(p-0.4) > 1e-9 {
		t.Errorf("P(mutate_weight) = %v, want 0.4", p)
	}
	if p := th.Probability(OpMutateActivation); p > 1e-9 {
		t.Errorf("P(mutate_activation) = %v, want 0", p)
	}
}

func TestNewThresholdsErrors(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
	}{
		{"too few", []float64{1, 1}},
		{"negative", []float64{1, 1, 1, -1, 1, 1, 1}},
		{"all zero", make([]float64, NumOperators)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewThresholds(tt.weights); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestThresholdsSelect(t *testing.T) {
	th := UniformThresholds()
	if th[NumOperators-1] != 1 {
		t.Fatalf("last uniform threshold = %v, want 1", th[NumOperators-1])
	}

	tests := []struct {
		r    float64
		want Operator
	}{
		{0, OpDeactivateNeuron},
		{0.15, OpAddNeuron},
		{0.5, OpMutateActivation},
		{0.6, OpMutateWeight},
		{0.999, OpAddSynapse},
	}
	for _, tt := range tests {
		op, ok := th.Select(tt.r)
		if !ok || op != tt.want {
			t.Errorf("Select(%v) = %s, %v; want %s", tt.r, op, ok, tt.want)
		}
	}

	partial := Thresholds{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}
	if _, ok := partial.Select(0.9); ok {
		t.Error("draw above every threshold should select nothing")
	}
}

func onlyOperator(t *testing.T, op Operator) Thresholds {
	t.Helper()
	weights := make([]float64, NumOperators)
	weights[op] = 1
	th, err := NewThresholds(weights)
	if err != nil {
		t.Fatal(err)
	}
	return th
}

func TestMutateLeavesParentUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	parent := NewRandomBrain(rng, 4, 2, 4)
	before, err := json.Marshal(parent)
	if err != nil {
		t.Fatal(err)
	}

	for _, op := range Operators() {
		t.Run(op.String(), func(t *testing.T) {
			child, applied, ok := parent.MutateTraced(rng, 1, onlyOperator(t, op))
			if !ok || applied != op {
				t.Errorf("applied %s (%v), want %s", applied, ok, op)
			}
			if child == parent {
				t.Error("Mutate returned the parent")
			}
			after, _ := json.Marshal(parent)
			if string(after) != string(before) {
				t.Errorf("%s modified the parent", op)
			}
		})
	}
}

func TestMutateProbabilityZero(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	parent := NewRandomBrain(rng, 3, 2, 3)

	child, _, ok := parent.MutateTraced(rng, 0, UniformThresholds())
	if ok {
		t.Error("no operator should run with probability 0")
	}
	before, _ := json.Marshal(parent)
	after, _ := json.Marshal(child)
	if string(before) != string(after) {
		t.Error("unmutated child differs from parent")
	}
}

func TestAddNeuronOperator(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	parent := NewRandomBrain(rng, 3, 2, 3)

	child := parent.Mutate(rng, 1, onlyOperator(t, OpAddNeuron))
	if child.HiddenCount() != 1 {
		t.Errorf("hidden count = %d, want 1", child.HiddenCount())
	}
	if len(child.Neurons()) != len(parent.Neurons())+1 {
		t.Errorf("neuron count = %d, want %d", len(child.Neurons()), len(parent.Neurons())+1)
	}
}

func TestOperatorsOnEmptyBrain(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, op := range Operators() {
		b := NewBrain(2, 2)
		b.Apply(rng, op)
		if err := b.Validate(); err != nil {
			t.Errorf("%s on empty brain: %v", op, err)
		}
		if op != OpAddSynapse && b.ActiveSynapseCount() != 0 {
			t.Errorf("%s added synapses to an empty brain", op)
		}
	}
}

func TestMutateBiasTouchesOutputs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := NewBrain(2, 1)
	for i := 0; i < 10; i++ {
		b.MutateNeuronBias(rng)
	}
	out, _ := b.Neuron(2)
	if out.Bias.Value() == 0 {
		t.Error("output bias never moved")
	}
	for i := 0; i < 2; i++ {
		in, _ := b.Neuron(i)
		if in.Bias.Value() != 0 {
			t.Errorf("input %d bias changed to %v", i, in.Bias.Value())
		}
	}
}

func TestMutateSynapseWeightStaysBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := NewRandomBrain(rng, 2, 1, 2)
	for i := 0; i < 500; i++ {
		b.MutateSynapseWeight(rng)
	}
	for _, s := range b.Synapses() {
		if w := s.Weight.Value(); w < -1 || w > 1 {
			t.Errorf("weight %v escaped [-1, 1]", w)
		}
	}
}

func BenchmarkMutate(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	brain := NewRandomBrain(rng, BrainInputs, BrainOutputs, 20)
	th := UniformThresholds()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		brain = brain.Mutate(rng, 0.5, th)
	}
}

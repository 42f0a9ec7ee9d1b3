package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/BenGale93/genesis-sub000/neural"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Derived.DT32 != float32(cfg.Physics.DT) {
		t.Errorf("DT32 = %v, want %v", cfg.Derived.DT32, cfg.Physics.DT)
	}
	if cfg.Derived.BrainInputs != neural.BrainInputs || cfg.Derived.BrainOutputs != neural.BrainOutputs {
		t.Errorf("brain io = %d/%d", cfg.Derived.BrainInputs, cfg.Derived.BrainOutputs)
	}
	if last := cfg.Derived.MutationThresholds[neural.NumOperators-1]; last != 1 {
		t.Errorf("last threshold = %v, want 1", last)
	}

	// Defaults weigh mutate_weight 4 out of 12.
	p := cfg.Derived.MutationThresholds.Probability(neural.OpMutateWeight)
	if math.Abs(p-4.0/12.0) > 1e-9 {
		t.Errorf("P(mutate_weight) = %v, want %v", p, 4.0/12.0)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	data := []byte("world:\n  width: 200\nmutation:\n  weights:\n    add_neuron: 10\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.World.Width != 200 {
		t.Errorf("width = %d, want 200", cfg.World.Width)
	}
	if cfg.World.Height != 720 {
		t.Errorf("height = %d, want default 720", cfg.World.Height)
	}
	if cfg.Mutation.Weights.MutateWeight != 4 {
		t.Errorf("mutate_weight = %v, want default 4", cfg.Mutation.Weights.MutateWeight)
	}
	p := cfg.Derived.MutationThresholds.Probability(neural.OpAddNeuron)
	if math.Abs(p-10.0/21.0) > 1e-9 {
		t.Errorf("P(add_neuron) = %v, want %v", p, 10.0/21.0)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero weights", "mutation:\n  weights:\n    deactivate_neuron: 0\n    add_neuron: 0\n    mutate_bias: 0\n    mutate_activation: 0\n    mutate_weight: 0\n    deactivate_synapse: 0\n    add_synapse: 0\n"},
		{"negative weight", "mutation:\n  weights:\n    add_synapse: -1\n"},
		{"probability above one", "mutation:\n  probability: 1.5\n"},
		{"zero dt", "physics:\n  dt: 0\n"},
		{"bad world", "world:\n  width: -5\n"},
		{"bad yaml", "world: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWeightsSetAndSlice(t *testing.T) {
	var w MutationWeightsConfig
	for i, op := range neural.Operators() {
		w.Set(op, float64(i+1))
	}
	for i, v := range w.Slice() {
		if v != float64(i+1) {
			t.Errorf("weight %s = %v, want %d", neural.Operator(i), v, i+1)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Mutation.Probability = 0.25
	cfg.Brain.InitialSynapses = 3

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Mutation.Probability != 0.25 || loaded.Brain.InitialSynapses != 3 {
		t.Errorf("loaded probability %v synapses %d", loaded.Mutation.Probability, loaded.Brain.InitialSynapses)
	}
	if loaded.Derived.MutationThresholds != cfg.Derived.MutationThresholds {
		t.Error("thresholds differ after round trip")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	c := cfg.Clone()
	c.Mutation.Weights.AddNeuron = 50
	if err := c.Recompute(); err != nil {
		t.Fatal(err)
	}
	if cfg.Mutation.Weights.AddNeuron == 50 {
		t.Error("clone shares weights with original")
	}
	if cfg.Derived.MutationThresholds == c.Derived.MutationThresholds {
		t.Error("recompute did not change clone thresholds")
	}
}

func TestCfgAfterInit(t *testing.T) {
	MustInit("")
	if Cfg().Population.Initial <= 0 {
		t.Errorf("initial population = %d", Cfg().Population.Initial)
	}
}

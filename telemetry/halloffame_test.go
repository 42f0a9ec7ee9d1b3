package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BenGale93/genesis-sub000/config"
	"github.com/BenGale93/genesis-sub000/neural"
)

func testHallConfig(size int) config.HallOfFameConfig {
	return config.HallOfFameConfig{
		Enabled: true,
		Size:    size,
		Fitness: config.HallOfFameFitnessConfig{ChildrenWeight: 1, SurvivalWeight: 0.01, EatWeight: 0.1},
		Entry:   config.HallOfFameEntryConfig{MinChildren: 1, MinSurvivalSec: 30, MinEaten: 5},
	}
}

func TestHallOfFameEntryCriteria(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	brain := neural.NewRandomBrain(rng, 3, 2, 2)

	tests := []struct {
		name  string
		stats LifetimeStats
		want  bool
	}{
		{"parent", LifetimeStats{Children: 1}, true},
		{"long lived eater", LifetimeStats{SurvivalTimeSec: 40, Eaten: 5}, true},
		{"long lived starver", LifetimeStats{SurvivalTimeSec: 40, Eaten: 1}, false},
		{"short lived eater", LifetimeStats{SurvivalTimeSec: 10, Eaten: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hof := NewHallOfFame(testHallConfig(5), rng)
			stats := tt.stats
			if got := hof.Consider(brain, &stats, 1); got != tt.want {
				t.Errorf("Consider = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHallOfFameKeepsBest(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hof := NewHallOfFame(testHallConfig(3), rng)
	brain := neural.NewRandomBrain(rng, 3, 2, 2)

	for i, children := range []int{2, 5, 1, 4, 3} {
		hof.Consider(brain, &LifetimeStats{Children: children}, uint32(i+1))
	}
	if hof.Size() != 3 {
		t.Fatalf("size = %d, want 3", hof.Size())
	}
	entries := hof.Entries()
	for i, want := range []int{5, 4, 3} {
		if entries[i].Children != want {
			t.Errorf("entry %d children = %d, want %d", i, entries[i].Children, want)
		}
	}
	if hof.TopFitness() != 5 {
		t.Errorf("top fitness = %v, want 5", hof.TopFitness())
	}
	if hof.Consider(brain, &LifetimeStats{Children: 1}, 9) {
		t.Error("weaker entry accepted into a full hall")
	}
}

func TestHallOfFameSampleReturnsCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hof := NewHallOfFame(testHallConfig(5), rng)
	if hof.Sample() != nil {
		t.Error("empty hall returned a brain")
	}

	brain := neural.NewRandomBrain(rng, 3, 2, 3)
	hof.Consider(brain, &LifetimeStats{Children: 2}, 1)

	// The hall holds its own copy.
	brain.AddRandomNeuron(rng)
	sampled := hof.Sample()
	if sampled == nil {
		t.Fatal("Sample returned nil")
	}
	if sampled.HiddenCount() != 0 {
		t.Error("hall entry shares state with the original brain")
	}
	sampled.AddRandomNeuron(rng)
	if again := hof.Sample(); again.HiddenCount() != 0 {
		t.Error("sampled brain shares state with the hall")
	}
}

func TestHallOfFameJSONRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := testHallConfig(5)
	hof := NewHallOfFame(cfg, rng)
	for i := 0; i < 3; i++ {
		b := neural.NewRandomBrain(rng, neural.BrainInputs, neural.BrainOutputs, 4+i)
		hof.Consider(b, &LifetimeStats{Children: i + 1, Generation: i}, uint32(i+10))
	}

	data, err := hof.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "hall_of_fame.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadHallOfFameFromFile(path, cfg, rng)
	if err != nil {
		t.Fatalf("LoadHallOfFameFromFile failed: %v", err)
	}
	if loaded.Size() != hof.Size() {
		t.Fatalf("size = %d, want %d", loaded.Size(), hof.Size())
	}
	want, got := hof.Entries(), loaded.Entries()
	for i := range want {
		if got[i].EntityID != want[i].EntityID || got[i].Fitness != want[i].Fitness {
			t.Errorf("entry %d = %d/%v, want %d/%v", i, got[i].EntityID, got[i].Fitness, want[i].EntityID, want[i].Fitness)
		}
		if got[i].Brain.ActiveSynapseCount() != want[i].Brain.ActiveSynapseCount() {
			t.Errorf("entry %d brain differs", i)
		}
	}

	if _, err := LoadHallOfFameFromFile(filepath.Join(t.TempDir(), "missing.json"), cfg, rng); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHallOfFameLoadRejectsForeignLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := testHallConfig(5)

	save := func(t *testing.T, hof *HallOfFame, edit func(string) string) string {
		t.Helper()
		data, err := hof.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(t.TempDir(), "hall_of_fame.json")
		if err := os.WriteFile(path, []byte(edit(string(data))), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	keep := func(s string) string { return s }

	tests := []struct {
		name  string
		brain *neural.Brain
		edit  func(string) string
	}{
		{"brain too small", neural.NewRandomBrain(rng, 3, 2, 2), keep},
		{"renamed input", neural.NewRandomBrain(rng, neural.BrainInputs, neural.BrainOutputs, 2),
			func(s string) string { return strings.Replace(s, `"timer_norm"`, `"clock"`, 1) }},
		{"missing layout", neural.NewRandomBrain(rng, neural.BrainInputs, neural.BrainOutputs, 2),
			func(s string) string { return strings.Replace(s, `"inputs"`, `"old_inputs"`, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hof := NewHallOfFame(cfg, rng)
			if !hof.Consider(tt.brain, &LifetimeStats{Children: 2}, 1) {
				t.Fatal("entry not accepted")
			}
			if _, err := LoadHallOfFameFromFile(save(t, hof, tt.edit), cfg, rng); err == nil {
				t.Error("expected error for a foreign brain layout")
			}
		})
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(1, 100, 3, 7)
	lt.RecordChild(1)
	lt.RecordChild(2) // unknown ids are ignored
	lt.RecordEat(1, 0.3)
	lt.UpdateEnergy(1, 0.8)
	lt.UpdateEnergy(1, 0.5)
	lt.UpdateSurvivalTime(1, 160, 0.5)

	s := lt.Get(1)
	if s.Children != 1 || s.Eaten != 1 || s.PeakEnergy != 0.8 || s.SurvivalTimeSec != 30 {
		t.Errorf("stats = %+v", s)
	}
	if s.Generation != 3 || s.ParentID != 7 {
		t.Errorf("lineage = %d/%d", s.Generation, s.ParentID)
	}
	if removed := lt.Remove(1); removed != s || lt.Count() != 0 {
		t.Error("Remove did not return and drop the stats")
	}
}

package telemetry

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"sort"

	"github.com/BenGale93/genesis-sub000/config"
	"github.com/BenGale93/genesis-sub000/neural"
)

// HallEntry is a successful creature's brain and how it earned its place.
type HallEntry struct {
	Brain      *neural.Brain
	Fitness    float32
	EntityID   uint32
	Generation int
	Children   int
	Eaten      int
	Survival   float32
}

// HallOfFame stores proven brains for reseeding when the population crashes.
// Entries are kept sorted by descending fitness.
type HallOfFame struct {
	hall    []HallEntry
	maxSize int
	cfg     config.HallOfFameConfig
	rng     *rand.Rand
}

// NewHallOfFame creates an empty hall of fame.
func NewHallOfFame(cfg config.HallOfFameConfig, rng *rand.Rand) *HallOfFame {
	maxSize := max(cfg.Size, 1)
	return &HallOfFame{
		hall:    make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
		cfg:     cfg,
		rng:     rng,
	}
}

// Consider evaluates a dead creature for entry. The brain is cloned, so the
// caller may keep using it. Returns true if the creature was added.
func (hof *HallOfFame) Consider(brain *neural.Brain, stats *LifetimeStats, entityID uint32) bool {
	if brain == nil || stats == nil || !hof.meetsEntryCriteria(stats) {
		return false
	}

	entry := HallEntry{
		Brain:      brain.Clone(),
		Fitness:    hof.calculateFitness(stats),
		EntityID:   entityID,
		Generation: stats.Generation,
		Children:   stats.Children,
		Eaten:      stats.Eaten,
		Survival:   stats.SurvivalTimeSec,
	}
	var added bool
	hof.hall, added = hof.insertEntry(hof.hall, entry)
	return added
}

func (hof *HallOfFame) meetsEntryCriteria(stats *LifetimeStats) bool {
	// Reproducing is enough on its own.
	if stats.Children >= hof.cfg.Entry.MinChildren {
		return true
	}
	// Otherwise the creature must have lived long and fed itself.
	return stats.SurvivalTimeSec >= float32(hof.cfg.Entry.MinSurvivalSec) &&
		stats.Eaten >= hof.cfg.Entry.MinEaten
}

func (hof *HallOfFame) calculateFitness(stats *LifetimeStats) float32 {
	f := hof.cfg.Fitness
	return float32(stats.Children)*float32(f.ChildrenWeight) +
		stats.SurvivalTimeSec*float32(f.SurvivalWeight) +
		float32(stats.Eaten)*float32(f.EatWeight)
}

// insertEntry adds an entry, keeping the hall sorted by fitness. When the hall
// is full the lowest-fitness entry is dropped.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) ([]HallEntry, bool) {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})
	if idx >= hof.maxSize {
		return hall, false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall, true
}

// Sample picks a brain by tournament selection and returns a copy of it.
// Returns nil if the hall is empty.
func (hof *HallOfFame) Sample() *neural.Brain {
	if len(hof.hall) == 0 {
		return nil
	}

	const tournamentSize = 3
	best := -1
	for i := 0; i < tournamentSize; i++ {
		idx := hof.rng.Intn(len(hof.hall))
		if best < 0 || hof.hall[idx].Fitness > hof.hall[best].Fitness {
			best = idx
		}
	}
	return hof.hall[best].Brain.Clone()
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.hall)
}

// TopFitness returns the highest fitness, or 0 if the hall is empty.
func (hof *HallOfFame) TopFitness() float32 {
	if len(hof.hall) == 0 {
		return 0
	}
	return hof.hall[0].Fitness
}

// Entries returns the entries in descending fitness order. The slice is a
// copy but the brains are shared.
func (hof *HallOfFame) Entries() []HallEntry {
	return append([]HallEntry(nil), hof.hall...)
}

type hallEntryJSON struct {
	EntityID   uint32        `json:"entity_id"`
	Fitness    float32       `json:"fitness"`
	Generation int           `json:"generation"`
	Children   int           `json:"children"`
	Eaten      int           `json:"eaten"`
	Survival   float32       `json:"survival_sec"`
	Color      string        `json:"color"`
	Brain      *neural.Brain `json:"brain"`
}

type hallJSON struct {
	Inputs  []string        `json:"inputs"`  // brain input IDs in order
	Outputs []string        `json:"outputs"` // brain output IDs in order
	Entries []hallEntryJSON `json:"entries"`
}

// MarshalJSON serializes the hall of fame with each entry's brain.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	export := hallJSON{
		Inputs:  neural.InputIDs(),
		Outputs: neural.OutputIDs(),
		Entries: make([]hallEntryJSON, len(hof.hall)),
	}
	for i, e := range hof.hall {
		c := e.Brain.Color()
		export.Entries[i] = hallEntryJSON{
			EntityID:   e.EntityID,
			Fitness:    e.Fitness,
			Generation: e.Generation,
			Children:   e.Children,
			Eaten:      e.Eaten,
			Survival:   e.Survival,
			Color:      fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
			Brain:      e.Brain,
		}
	}
	return json.MarshalIndent(export, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame written by MarshalJSON. Entries
// beyond cfg.Size are dropped lowest fitness first. Brains whose input or
// output layout differs from the current one are rejected.
func LoadHallOfFameFromFile(path string, cfg config.HallOfFameConfig, rng *rand.Rand) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw hallJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	if !slices.Equal(raw.Inputs, neural.InputIDs()) || !slices.Equal(raw.Outputs, neural.OutputIDs()) {
		return nil, fmt.Errorf("hall of fame was saved for a different sensor layout (inputs %v, outputs %v)", raw.Inputs, raw.Outputs)
	}

	hof := NewHallOfFame(cfg, rng)
	for i, ej := range raw.Entries {
		if ej.Brain == nil {
			return nil, fmt.Errorf("hall of fame entry %d has no brain", i)
		}
		if ej.Brain.Inputs() != neural.BrainInputs || ej.Brain.Outputs() != neural.BrainOutputs {
			return nil, fmt.Errorf("hall of fame entry %d has a %d/%d brain, want %d/%d",
				i, ej.Brain.Inputs(), ej.Brain.Outputs(), neural.BrainInputs, neural.BrainOutputs)
		}
		hof.hall, _ = hof.insertEntry(hof.hall, HallEntry{
			Brain:      ej.Brain,
			Fitness:    ej.Fitness,
			EntityID:   ej.EntityID,
			Generation: ej.Generation,
			Children:   ej.Children,
			Eaten:      ej.Eaten,
			Survival:   ej.Survival,
		})
	}
	return hof, nil
}

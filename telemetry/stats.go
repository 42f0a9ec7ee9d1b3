package telemetry

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/BenGale93/genesis-sub000/neural"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Population int `csv:"population"`
	Food       int `csv:"food"`

	// Events during window
	Births           int     `csv:"births"`
	MutatedBirths    int     `csv:"mutated_births"`
	Deaths           int     `csv:"deaths"`
	StarvationDeaths int     `csv:"starvation_deaths"`
	OldAgeDeaths     int     `csv:"old_age_deaths"`
	Eaten            int     `csv:"eaten"`
	FoodEnergyEaten  float64 `csv:"food_energy_eaten"`
	Reseeds          int     `csv:"reseeds"`

	// Mutation operators applied to newborn brains
	MutDeactivateNeuron  int `csv:"mut_deactivate_neuron"`
	MutAddNeuron         int `csv:"mut_add_neuron"`
	MutMutateBias        int `csv:"mut_mutate_bias"`
	MutMutateActivation  int `csv:"mut_mutate_activation"`
	MutMutateWeight      int `csv:"mut_mutate_weight"`
	MutDeactivateSynapse int `csv:"mut_deactivate_synapse"`
	MutAddSynapse        int `csv:"mut_add_synapse"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Brain complexity (sampled at window end)
	HiddenMean   float64 `csv:"hidden_mean"`
	HiddenMax    float64 `csv:"hidden_max"`
	SynapsesMean float64 `csv:"synapses_mean"`
	SynapsesStd  float64 `csv:"synapses_std"`
	SynapsesMax  float64 `csv:"synapses_max"`

	MaxGeneration int `csv:"max_generation"`
	Topologies    int `csv:"topologies"` // distinct active synapse sets
}

// MutationCount returns the count for op.
func (s WindowStats) MutationCount(op neural.Operator) int {
	switch op {
	case neural.OpDeactivateNeuron:
		return s.MutDeactivateNeuron
	case neural.OpAddNeuron:
		return s.MutAddNeuron
	case neural.OpMutateBias:
		return s.MutMutateBias
	case neural.OpMutateActivation:
		return s.MutMutateActivation
	case neural.OpMutateWeight:
		return s.MutMutateWeight
	case neural.OpDeactivateSynapse:
		return s.MutDeactivateSynapse
	case neural.OpAddSynapse:
		return s.MutAddSynapse
	}
	return 0
}

func (s *WindowStats) setMutations(counts [neural.NumOperators]int) {
	s.MutDeactivateNeuron = counts[neural.OpDeactivateNeuron]
	s.MutAddNeuron = counts[neural.OpAddNeuron]
	s.MutMutateBias = counts[neural.OpMutateBias]
	s.MutMutateActivation = counts[neural.OpMutateActivation]
	s.MutMutateWeight = counts[neural.OpMutateWeight]
	s.MutDeactivateSynapse = counts[neural.OpDeactivateSynapse]
	s.MutAddSynapse = counts[neural.OpAddSynapse]
}

// Summary describes the distribution of a sampled value.
type Summary struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// Percentile returns the empirical p-quantile of a sorted slice, or 0 for an
// empty slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Summarize computes a Summary. values is not modified.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Mean: stat.Mean(sorted, nil),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
		Max:  sorted[n-1],
	}
	if n > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

// PopulationSample collects per-creature values at the end of a window.
type PopulationSample struct {
	Energies      []float64
	HiddenCounts  []float64
	SynapseCounts []float64
	MaxGeneration int

	topologies map[string]struct{}
}

// Add records one living creature.
func (p *PopulationSample) Add(energy float32, generation int, brain *neural.Brain) {
	p.Energies = append(p.Energies, float64(energy))
	p.MaxGeneration = max(p.MaxGeneration, generation)
	if brain == nil {
		return
	}
	p.HiddenCounts = append(p.HiddenCounts, float64(brain.HiddenCount()))
	p.SynapseCounts = append(p.SynapseCounts, float64(brain.ActiveSynapseCount()))

	if p.topologies == nil {
		p.topologies = make(map[string]struct{})
	}
	p.topologies[topologyKey(brain.Innovations())] = struct{}{}
}

// Topologies returns the number of distinct active synapse sets added.
func (p *PopulationSample) Topologies() int {
	return len(p.topologies)
}

func topologyKey(innovations []int) string {
	sort.Ints(innovations)
	var sb strings.Builder
	for i, id := range innovations {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

func (s WindowStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("food", s.Food),
		slog.Int("births", s.Births),
		slog.Int("mutated_births", s.MutatedBirths),
		slog.Int("deaths", s.Deaths),
		slog.Int("starvation_deaths", s.StarvationDeaths),
		slog.Int("old_age_deaths", s.OldAgeDeaths),
		slog.Int("eaten", s.Eaten),
		slog.Int("reseeds", s.Reseeds),
	}
	for _, op := range neural.Operators() {
		attrs = append(attrs, slog.Int("mut_"+op.String(), s.MutationCount(op)))
	}
	return append(attrs,
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("hidden_mean", s.HiddenMean),
		slog.Float64("hidden_max", s.HiddenMax),
		slog.Float64("synapses_mean", s.SynapsesMean),
		slog.Float64("synapses_std", s.SynapsesStd),
		slog.Int("max_generation", s.MaxGeneration),
		slog.Int("topologies", s.Topologies),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// LogStats logs the window stats as top-level attributes.
func (s WindowStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "stats", s.attrs()...)
}

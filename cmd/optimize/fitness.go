package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/BenGale93/genesis-sub000/config"
	"github.com/BenGale93/genesis-sub000/game"
	"github.com/BenGale93/genesis-sub000/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastQuality    float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A run ends at the first population collapse after warmup: the evolved
// lineages died out and the world had to be reseeded.
const warmupSec = 5.0

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before collapse (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	hallOfFame    *telemetry.HallOfFame
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	quality    float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel; each owns its game, config copy and RNG.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			if result == nil {
				return
			}
			results[idx] = seedResult{
				fitness:    computeFitness(result),
				quality:    computeQuality(result.windowStats),
				hallOfFame: result.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run. It returns nil
// when x cannot be applied to the config.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return nil
	}

	result := &runResult{}

	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	defer g.Unload()

	warmupTicks := int32(warmupSec / cfg.Physics.DT)
	collapsesAtWarmup := 0

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()

		tick := g.Tick()
		if tick <= warmupTicks {
			collapsesAtWarmup = g.Collapses()
			continue
		}

		if g.Collapses() > collapsesAtWarmup || g.Population() == 0 {
			result.survivalTicks = tick
			result.hallOfFame = g.HallOfFame()
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	result.hallOfFame = g.HallOfFame()
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality separates configs with similar survival.
func computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	quality := computeQuality(r.windowStats)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability  = 0.35
	qualityWeightLineage    = 0.35
	qualityWeightComplexity = 0.30

	qualityWarmupWindows = 3 // skip first N windows (warmup)
	lineageScale         = 20.0
	complexityScale      = 4.0
)

// computeQuality computes run quality in [0, 1] from window stats: a steady
// population, deep lineages and brains that grew hidden structure.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	populations := make([]float64, 0, len(valid))
	var maxGeneration int
	var hiddenSum float64
	for _, w := range valid {
		populations = append(populations, float64(w.Population))
		maxGeneration = max(maxGeneration, w.MaxGeneration)
		hiddenSum += w.HiddenMean
	}

	stabilityScore := 0.0
	if len(populations) >= 2 {
		c := cv(populations)
		stabilityScore = math.Exp(-c * c)
	}
	lineageScore := 1 - math.Exp(-float64(maxGeneration)/lineageScale)
	complexityScore := 1 - math.Exp(-hiddenSum/float64(len(valid))/complexityScale)

	quality := qualityWeightStability*stabilityScore +
		qualityWeightLineage*lineageScore +
		qualityWeightComplexity*complexityScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

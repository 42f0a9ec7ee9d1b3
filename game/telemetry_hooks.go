package game

import (
	"log/slog"

	"github.com/BenGale93/genesis-sub000/telemetry"
)

// flushTelemetry emits a stats window when one has elapsed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	sample := g.samplePopulation()
	stats := g.collector.Flush(g.tick, g.population, g.foodCount, sample)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		slog.Info("perf", "stats", perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// samplePopulation collects energy and brain complexity of every living
// creature.
func (g *Game) samplePopulation() *telemetry.PopulationSample {
	sample := &telemetry.PopulationSample{}
	query := g.creatureFilter.Query()
	for query.Next() {
		_, _, _, _, energy, org := query.Get()
		if !energy.Alive {
			continue
		}
		sample.Add(energy.Value, org.Generation, g.brains[org.ID])
	}
	return sample
}

package game

import "log/slog"

// logBrainFailures reports brains that could not be evaluated this tick.
// Their creatures fall back to default outputs.
func logBrainFailures(tick int32, count int) {
	slog.Warn("brain_activation_failed", "tick", tick, "count", count)
}

// LogSummary logs the current world state.
func (g *Game) LogSummary() {
	attrs := []any{
		"tick", g.tick,
		"population", g.population,
		"food", g.foodCount,
		"brains", len(g.brains),
	}
	if g.hallOfFame != nil {
		attrs = append(attrs, "hall_size", g.hallOfFame.Size(), "hall_top_fitness", g.hallOfFame.TopFitness())
	}
	slog.Info("world_state", attrs...)
}

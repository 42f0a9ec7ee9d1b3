package game

import (
	"github.com/BenGale93/genesis-sub000/config"
	"github.com/BenGale93/genesis-sub000/telemetry"
)

// Options holds configuration for game initialization.
type Options struct {
	Seed           int64
	Config         *config.Config // nil uses config.Cfg()
	StatsWindowSec float64        // 0 uses the config's telemetry window
	OutputDir      string         // empty disables file output
	LogStats       bool
	SaveBrains     bool   // write every surviving brain to OutputDir on Unload
	HallOfFamePath string // optional hall_of_fame.json to seed reseeding from

	// StatsCallback receives every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// resolveConfig returns the config the game should run with.
func (o Options) resolveConfig() *config.Config {
	if o.Config != nil {
		return o.Config
	}
	return config.Cfg()
}

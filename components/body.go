package components

import (
	"math"

	"github.com/BenGale93/genesis-sub000/config"
)

// Body holds physical properties of a creature.
type Body struct {
	Radius float32
}

// BodyForSize returns the body of a creature of the given size. Radius grows
// with the square root of size so that area tracks size.
func BodyForSize(cfg *config.Config, size float32) Body {
	return Body{Radius: float32(cfg.Entity.BodyRadius * math.Sqrt(float64(size)))}
}

// Capabilities holds the movement and perception limits of a creature.
type Capabilities struct {
	VisionRange float32
	FOV         float32
	MaxSpeed    float32
	MaxTurnRate float32
	EatRange    float32
}

// CapabilitiesFromConfig returns capabilities shared by every creature.
func CapabilitiesFromConfig(cfg *config.Config) Capabilities {
	return Capabilities{
		VisionRange: float32(cfg.Sensors.VisionRange),
		FOV:         float32(cfg.Sensors.FOV),
		MaxSpeed:    float32(cfg.Physics.MaxSpeed),
		MaxTurnRate: float32(cfg.Physics.MaxTurnRate),
		EatRange:    float32(cfg.Entity.EatRange),
	}
}

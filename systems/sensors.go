package systems

import (
	"math"

	"github.com/BenGale93/genesis-sub000/components"
	"github.com/BenGale93/genesis-sub000/neural"
)

// SensorParams holds the constants needed to normalise a creature's senses.
type SensorParams struct {
	Caps        components.Capabilities
	Lifespan    float32
	TimerPeriod float32
}

// ComputeSensors builds the brain's sensory inputs for one creature. food and
// kin are neighbours already filtered to vision range.
func ComputeSensors(
	rot components.Rotation,
	energy components.Energy,
	org components.Organism,
	food, kin []Neighbor,
	p SensorParams,
) neural.SensoryInputs {
	s := neural.SensoryInputs{
		Previous:   org.Previous,
		EnergyNorm: energy.Ratio(),
	}
	if energy.MaxHealth > 0 {
		s.HealthNorm = clamp01(energy.Health / energy.MaxHealth)
	}
	if p.Lifespan > 0 {
		s.AgeNorm = clamp01(energy.Age / p.Lifespan)
	}
	if p.TimerPeriod > 0 {
		s.TimerNorm = clamp01(org.Timer / p.TimerPeriod)
	}

	VisionSectors(&s.Food, food, rot.Heading, p.Caps.VisionRange, p.Caps.FOV)
	VisionSectors(&s.Kin, kin, rot.Heading, p.Caps.VisionRange, p.Caps.FOV)
	return s
}

// VisionSectors writes, per sector, the closeness of the nearest neighbour
// seen in it: 1 when adjacent, 0 when nothing is within visionRange.
// Sector 0 holds the most negative angles relative to heading.
func VisionSectors(dst *[neural.VisionSectors]float32, neighbors []Neighbor, heading, visionRange, fov float32) {
	*dst = [neural.VisionSectors]float32{}
	if visionRange <= 0 {
		return
	}

	for _, n := range neighbors {
		dist := sqrt32(n.DistSq)
		if dist > visionRange {
			continue
		}
		idx, ok := sectorIndex(n.DX, n.DY, dist, heading, fov)
		if !ok {
			continue
		}
		closeness := clamp01(1 - dist/visionRange)
		if closeness > dst[idx] {
			dst[idx] = closeness
		}
	}
}

// sectorIndex maps a neighbour's direction to a vision sector. A neighbour
// on top of the creature counts as straight ahead.
func sectorIndex(dx, dy, dist, heading, fov float32) (int, bool) {
	const ahead = neural.VisionSectors / 2
	if dist < 1e-3 {
		return ahead, true
	}

	halfFOV := fov / 2
	rel := normalizeAngle(float32(math.Atan2(float64(dy), float64(dx))) - heading)
	if rel < -halfFOV || rel > halfFOV {
		return 0, false
	}

	halfSectors := float32(neural.VisionSectors-1) / 2
	idx := int(math.Round(float64(rel/halfFOV*halfSectors))) + ahead
	if idx < 0 {
		idx = 0
	} else if idx >= neural.VisionSectors {
		idx = neural.VisionSectors - 1
	}
	return idx, true
}

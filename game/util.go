package game

import (
	"math"
	"math/rand"
)

// normalizeAngle wraps angle to [-pi, pi] with single-step correction.
// Safe when angle changes are bounded (heading += small_delta per tick).
func normalizeAngle(a float32) float32 {
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// randomHeading returns a heading in [-pi, pi).
func randomHeading(rng *rand.Rand) float32 {
	return (rng.Float32()*2 - 1) * math.Pi
}

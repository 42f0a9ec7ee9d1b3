package neural

import (
	"hash/fnv"
	"math"
	"sort"
)

// Color is an RGB display color.
type Color struct {
	R, G, B uint8
}

// goldenAngle spreads hashed hues evenly around the wheel.
const goldenAngle = 137.508

// InnovationColor derives a display color from a set of innovation ids.
// Brains with the same active topology get the same color regardless of
// synapse order.
func InnovationColor(innovations []int) Color {
	sorted := append([]int(nil), innovations...)
	sort.Ints(sorted)

	h := fnv.New64a()
	var buf [8]byte
	for _, id := range sorted {
		v := uint64(id)
		for i := range buf {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	sum := h.Sum64()

	hue := math.Mod(float64(sum%360)*goldenAngle, 360)
	r, g, b := hsvToRGB(hue, 0.7, 0.9)
	return Color{R: r, G: g, B: b}
}

// Color returns the display color of the brain's active topology.
func (b *Brain) Color() Color {
	return InnovationColor(b.Innovations())
}

// hsvToRGB converts HSV to RGB.
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

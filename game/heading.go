package game

import "math"

// Movement reads sines from a table with linear interpolation so the
// per-creature loop stays in float32.
const sinTableSize = 1024 // power of two, indices wrap with a mask

var sinTable = func() (t [sinTableSize + 1]float32) {
	for i := range t {
		t[i] = float32(math.Sin(2 * math.Pi * float64(i) / sinTableSize))
	}
	return t
}()

// tableSin returns sin(x) to within about 1e-5 for moderate x.
func tableSin(x float32) float32 {
	const scale = sinTableSize / (2 * math.Pi)
	f := x * scale
	fl := float32(math.Floor(float64(f)))
	i := int(fl) & (sinTableSize - 1)
	frac := f - fl
	return sinTable[i] + (sinTable[i+1]-sinTable[i])*frac
}

// headingVector returns the unit vector (cos h, sin h).
func headingVector(h float32) (x, y float32) {
	return tableSin(h + math.Pi/2), tableSin(h)
}

// speedOf returns the magnitude of a velocity.
func speedOf(vx, vy float32) float32 {
	return float32(math.Sqrt(float64(vx*vx + vy*vy)))
}

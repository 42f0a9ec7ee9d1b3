package neural

import "math/rand"

// source is the subset of *rand.Rand the brain needs.
type source interface {
	Float32() float32
	Float64() float64
	NormFloat64() float64
	Intn(n int) int
}

// globalSource forwards to the math/rand package functions, which are safe
// for concurrent use.
type globalSource struct{}

func (globalSource) Float32() float32     { return rand.Float32() }
func (globalSource) Float64() float64     { return rand.Float64() }
func (globalSource) NormFloat64() float64 { return rand.NormFloat64() }
func (globalSource) Intn(n int) int       { return rand.Intn(n) }

// rngOrGlobal returns rng, or the shared package source when rng is nil.
func rngOrGlobal(rng *rand.Rand) source {
	if rng == nil {
		return globalSource{}
	}
	return rng
}

// uniform returns a value in [-1, 1).
func uniform(r source) float32 {
	return r.Float32()*2 - 1
}

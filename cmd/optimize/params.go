// Package main tunes brain mutation parameters with CMA-ES.
package main

import (
	"github.com/BenGale93/genesis-sub000/config"
	"github.com/BenGale93/genesis-sub000/neural"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters: the mutation
// probability followed by one weight per operator in roulette order.
type ParamVector struct {
	Specs []ParamSpec
}

// Weight bounds keep every operator reachable.
const (
	minOperatorWeight = 0.05
	maxOperatorWeight = 10.0
)

// NewParamVector creates the standard set of optimizable parameters with
// defaults taken from base.
func NewParamVector(base *config.Config) *ParamVector {
	specs := []ParamSpec{
		{Name: "mutation_probability", Path: "mutation.probability", Min: 0.05, Max: 1.0, Default: base.Mutation.Probability},
	}
	weights := base.Mutation.Weights.Slice()
	for _, op := range neural.Operators() {
		specs = append(specs, ParamSpec{
			Name:    "w_" + op.String(),
			Path:    "mutation.weights." + op.String(),
			Min:     minOperatorWeight,
			Max:     maxOperatorWeight,
			Default: weights[op],
		})
	}
	return &ParamVector{Specs: specs}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice, clamped to
// the search bounds.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return pv.Clamp(v)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg and refreshes the derived
// mutation thresholds.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)

	cfg.Mutation.Probability = clamped[0]
	for i, op := range neural.Operators() {
		cfg.Mutation.Weights.Set(op, clamped[1+i])
	}
	return cfg.Recompute()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return append([]float64{cfg.Mutation.Probability}, cfg.Mutation.Weights.Slice()...)
}

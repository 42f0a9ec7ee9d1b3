package neural

import "fmt"

// Innovation returns the lineage id for an edge from -> to. Two brains that
// grow the same edge independently get the same id.
func Innovation(from, to int) int {
	return (from+to)*(from+to+1)/2 + to
}

// Synapse is a weighted edge between two neurons, addressed by index.
type Synapse struct {
	From       int     `json:"from"`
	To         int     `json:"to"`
	Weight     Bounded `json:"weight"`
	Active     bool    `json:"active"`
	Innovation int     `json:"innovation"`
}

// NewSynapse returns an active synapse from -> to.
func NewSynapse(from, to int, weight float32) (Synapse, error) {
	if from == to {
		return Synapse{}, fmt.Errorf("%w: %d", ErrInvalidFromTo, from)
	}
	return Synapse{
		From:       from,
		To:         to,
		Weight:     NewBounded(weight),
		Active:     true,
		Innovation: Innovation(from, to),
	}, nil
}

// Equal compares innovation, active flag and weight.
func (s Synapse) Equal(o Synapse) bool {
	return s.Innovation == o.Innovation &&
		s.Active == o.Active &&
		s.Weight.ApproxEqual(o.Weight)
}

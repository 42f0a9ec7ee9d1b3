// Package components defines ECS components for the simulation.
package components

// Food is a pellet eaten by creatures.
type Food struct {
	Energy float32
}

// DeathCause records why a creature died.
type DeathCause uint8

const (
	DeathNone DeathCause = iota
	DeathStarvation
	DeathOldAge
)

func (c DeathCause) String() string {
	switch c {
	case DeathStarvation:
		return "starvation"
	case DeathOldAge:
		return "old_age"
	default:
		return "none"
	}
}

package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Velocity represents an entity's velocity in world units per second.
type Velocity struct {
	X, Y float32
}

// Rotation represents a creature's heading and the turn rate its brain
// requested on the last tick.
type Rotation struct {
	Heading float32 // radians
	AngVel  float32 // radians per second
}

package neural

// VisionSectors is the number of view cones (left, ahead, right).
const VisionSectors = 3

// Output indices read by DecodeOutputs.
const (
	OutMovement = iota
	OutRotation
	OutReproduce
	OutEat
	OutResetTimer
	OutGrowDesire

	BrainOutputs
)

// Input indices written by ToInputs.
const (
	InBias        = 0
	InPrevOutputs = 1
	InEnergy      = InPrevOutputs + BrainOutputs
	InHealth      = InEnergy + 1
	InAge         = InHealth + 1
	InVisionFood  = InAge + 1
	InVisionKin   = InVisionFood + VisionSectors
	InTimer       = InVisionKin + VisionSectors
	BrainInputs   = InTimer + 1
)

// SensoryInputs holds a creature's senses before they are laid out for the
// brain.
type SensoryInputs struct {
	// Outputs from the previous tick, fed back as inputs.
	Previous BehaviorOutputs

	EnergyNorm float32 // energy / max energy [0,1]
	HealthNorm float32 // health / max health [0,1]
	AgeNorm    float32 // age / lifespan [0,1]

	// Vision scores per sector, 1 = adjacent, 0 = nothing in range.
	Food [VisionSectors]float32
	Kin  [VisionSectors]float32

	// Timer is the internal clock, reset by the reset-timer output.
	TimerNorm float32 // [0,1]
}

// ToInputs converts sensory data to the brain's input vector.
//
// Input mapping:
//
//	[0]      bias (1.0)
//	[1-6]    previous movement, rotation, reproduce, eat, reset_timer, grow_desire [-1,1]
//	[7]      energy_norm [0,1]
//	[8]      health_norm [0,1]
//	[9]      age_norm [0,1]
//	[10-12]  food vision left/ahead/right [0,1]
//	[13-15]  kin vision left/ahead/right [0,1]
//	[16]     timer_norm [0,1]
func (s *SensoryInputs) ToInputs() []float32 {
	inputs := make([]float32, BrainInputs)
	s.WriteInputs(inputs)
	return inputs
}

// WriteInputs fills dst, which must have length BrainInputs.
func (s *SensoryInputs) WriteInputs(dst []float32) {
	dst[InBias] = 1.0

	prev := s.Previous.Slice()
	for i, v := range prev {
		dst[InPrevOutputs+i] = clampf(v, -1, 1)
	}

	dst[InEnergy] = clampf(s.EnergyNorm, 0, 1)
	dst[InHealth] = clampf(s.HealthNorm, 0, 1)
	dst[InAge] = clampf(s.AgeNorm, 0, 1)

	for i := 0; i < VisionSectors; i++ {
		dst[InVisionFood+i] = clampf(s.Food[i], 0, 1)
		dst[InVisionKin+i] = clampf(s.Kin[i], 0, 1)
	}

	dst[InTimer] = clampf(s.TimerNorm, 0, 1)
}

// BehaviorOutputs holds the decoded brain outputs.
type BehaviorOutputs struct {
	Movement   float32 // forward speed [-1,1]
	Rotation   float32 // turn rate [-1,1]
	Reproduce  float32 // >0 = try to reproduce
	Eat        float32 // >0 = try to eat
	ResetTimer float32 // >0 = reset the internal timer
	GrowDesire float32 // >0 = spend energy on growth
}

// DecodeOutputs reads raw brain outputs by index. Values are clamped to
// [-1,1]. Vectors shorter than BrainOutputs decode to DefaultOutputs.
func DecodeOutputs(raw []float32) BehaviorOutputs {
	if len(raw) < BrainOutputs {
		return DefaultOutputs()
	}
	return BehaviorOutputs{
		Movement:   clampf(raw[OutMovement], -1, 1),
		Rotation:   clampf(raw[OutRotation], -1, 1),
		Reproduce:  clampf(raw[OutReproduce], -1, 1),
		Eat:        clampf(raw[OutEat], -1, 1),
		ResetTimer: clampf(raw[OutResetTimer], -1, 1),
		GrowDesire: clampf(raw[OutGrowDesire], -1, 1),
	}
}

// DefaultOutputs is used for creatures whose brain fails to evaluate.
func DefaultOutputs() BehaviorOutputs {
	return BehaviorOutputs{}
}

// Slice returns the outputs in brain output order.
func (o BehaviorOutputs) Slice() [BrainOutputs]float32 {
	return [BrainOutputs]float32{
		OutMovement:   o.Movement,
		OutRotation:   o.Rotation,
		OutReproduce:  o.Reproduce,
		OutEat:        o.Eat,
		OutResetTimer: o.ResetTimer,
		OutGrowDesire: o.GrowDesire,
	}
}

// WantsToReproduce reports whether the reproduce gate fired.
func (o BehaviorOutputs) WantsToReproduce() bool { return o.Reproduce > 0 }

// WantsToEat reports whether the eat gate fired.
func (o BehaviorOutputs) WantsToEat() bool { return o.Eat > 0 }

// WantsTimerReset reports whether the reset-timer gate fired.
func (o BehaviorOutputs) WantsTimerReset() bool { return o.ResetTimer > 0 }

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

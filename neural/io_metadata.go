package neural

import "fmt"

// IODescriptor describes one brain input or output. Saved halls of fame
// record the IDs so a brain built for another sensor layout is refused.
type IODescriptor struct {
	ID          string  // Unique identifier
	Label       string  // Short name
	Description string
	Min         float32 // Minimum value
	Max         float32 // Maximum value
	Group       string  // "internal", "feedback", "self", "vision", "movement" or "action"
}

var sectorNames = [VisionSectors]string{"left", "ahead", "right"}

// BrainInputDescriptors returns metadata for all brain inputs.
// Order matches the indices used in SensoryInputs.ToInputs().
func BrainInputDescriptors() []IODescriptor {
	descs := make([]IODescriptor, 0, BrainInputs)
	descs = append(descs, IODescriptor{ID: "bias", Label: "Bias", Description: "Constant 1.0", Min: 1, Max: 1, Group: "internal"})

	for _, out := range BrainOutputDescriptors() {
		descs = append(descs, IODescriptor{
			ID:          "prev_" + out.ID,
			Label:       "Prev " + out.Label,
			Description: "Last tick's " + out.Label + " output",
			Min:         -1,
			Max:         1,
			Group:       "feedback",
		})
	}

	descs = append(descs,
		IODescriptor{ID: "energy_norm", Label: "Energy", Description: "Current energy / max energy", Min: 0, Max: 1, Group: "self"},
		IODescriptor{ID: "health_norm", Label: "Health", Description: "Current health / max health", Min: 0, Max: 1, Group: "self"},
		IODescriptor{ID: "age_norm", Label: "Age", Description: "Age / lifespan", Min: 0, Max: 1, Group: "self"},
	)
	for _, name := range sectorNames {
		descs = append(descs, IODescriptor{ID: "food_" + name, Label: "Food " + name, Description: fmt.Sprintf("Nearest food in the %s cone", name), Min: 0, Max: 1, Group: "vision"})
	}
	for _, name := range sectorNames {
		descs = append(descs, IODescriptor{ID: "kin_" + name, Label: "Kin " + name, Description: fmt.Sprintf("Nearest creature in the %s cone", name), Min: 0, Max: 1, Group: "vision"})
	}
	descs = append(descs, IODescriptor{ID: "timer_norm", Label: "Timer", Description: "Internal clock since last reset", Min: 0, Max: 1, Group: "internal"})
	return descs
}

// BrainOutputDescriptors returns metadata for all brain outputs.
// Order matches the indices used in DecodeOutputs().
func BrainOutputDescriptors() []IODescriptor {
	return []IODescriptor{
		{ID: "movement", Label: "Move", Description: "Forward speed", Min: -1, Max: 1, Group: "movement"},
		{ID: "rotation", Label: "Turn", Description: "Turn rate", Min: -1, Max: 1, Group: "movement"},
		{ID: "reproduce", Label: "Reproduce", Description: "Reproduction gate (>0=try)", Min: -1, Max: 1, Group: "action"},
		{ID: "eat", Label: "Eat", Description: "Eating gate (>0=try)", Min: -1, Max: 1, Group: "action"},
		{ID: "reset_timer", Label: "Reset", Description: "Internal timer reset gate", Min: -1, Max: 1, Group: "action"},
		{ID: "grow_desire", Label: "Grow", Description: "Energy spent on growth", Min: -1, Max: 1, Group: "action"},
	}
}

// InputIDs returns the input IDs in brain input order.
func InputIDs() []string {
	return descriptorIDs(BrainInputDescriptors())
}

// OutputIDs returns the output IDs in brain output order.
func OutputIDs() []string {
	return descriptorIDs(BrainOutputDescriptors())
}

func descriptorIDs(descs []IODescriptor) []string {
	ids := make([]string, len(descs))
	for i, d := range descs {
		ids[i] = d.ID
	}
	return ids
}

package telemetry

// LifetimeStats tracks per-creature statistics over its lifetime.
type LifetimeStats struct {
	BirthTick       int32
	SurvivalTimeSec float32

	Generation int
	ParentID   uint32

	Children int

	Eaten       int     // pellets eaten
	EnergyEaten float32 // energy gained from pellets
	PeakEnergy  float32
}

// LifetimeTracker manages per-creature lifetime statistics keyed by ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new creature.
func (lt *LifetimeTracker) Register(entityID uint32, birthTick int32, generation int, parentID uint32) {
	lt.stats[entityID] = &LifetimeStats{
		BirthTick:  birthTick,
		Generation: generation,
		ParentID:   parentID,
	}
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Remove removes a creature's stats and returns them.
func (lt *LifetimeTracker) Remove(entityID uint32) *LifetimeStats {
	stats := lt.stats[entityID]
	delete(lt.stats, entityID)
	return stats
}

// RecordChild increments the parent's children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordEat adds one eaten pellet.
func (lt *LifetimeTracker) RecordEat(entityID uint32, amount float32) {
	if s := lt.stats[entityID]; s != nil {
		s.Eaten++
		s.EnergyEaten += amount
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(entityID uint32, energy float32) {
	if s := lt.stats[entityID]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// UpdateSurvivalTime updates the survival time based on current tick.
func (lt *LifetimeTracker) UpdateSurvivalTime(entityID uint32, currentTick int32, dt float32) {
	if s := lt.stats[entityID]; s != nil {
		s.SurvivalTimeSec = float32(currentTick-s.BirthTick) * dt
	}
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

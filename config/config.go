// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BenGale93/genesis-sub000/neural"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Entity       EntityConfig       `yaml:"entity"`
	Population   PopulationConfig   `yaml:"population"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Energy       EnergyConfig       `yaml:"energy"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Brain        BrainConfig        `yaml:"brain"`
	Sensors      SensorsConfig      `yaml:"sensors"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	HallOfFame   HallOfFameConfig   `yaml:"hall_of_fame"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions. The world wraps at its edges.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`
	GridCellSize float64 `yaml:"grid_cell_size"`
	MaxSpeed     float64 `yaml:"max_speed"`     // world units per second at movement 1
	MaxTurnRate  float64 `yaml:"max_turn_rate"` // radians per second at rotation 1
}

// EntityConfig holds creature creation parameters.
type EntityConfig struct {
	BodyRadius    float64 `yaml:"body_radius"`
	InitialEnergy float64 `yaml:"initial_energy"`
	MaxEnergy     float64 `yaml:"max_energy"`
	MaxHealth     float64 `yaml:"max_health"`
	Lifespan      float64 `yaml:"lifespan"`     // seconds before dying of old age
	TimerPeriod   float64 `yaml:"timer_period"` // seconds for the internal timer to saturate
	InitialSize   float64 `yaml:"initial_size"`
	MaxSize       float64 `yaml:"max_size"`
	EatRange      float64 `yaml:"eat_range"`
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial          int     `yaml:"initial"`
	Max              int     `yaml:"max"`
	RespawnThreshold int     `yaml:"respawn_threshold"` // respawn when population falls below this
	RespawnCount     int     `yaml:"respawn_count"`
	FoodCount        int     `yaml:"food_count"`        // food pellets kept in the world
	FoodEnergy       float64 `yaml:"food_energy"`       // energy per pellet
	FoodRespawnRate  float64 `yaml:"food_respawn_rate"` // pellets per second
}

// ReproductionConfig holds reproduction parameters.
type ReproductionConfig struct {
	Threshold         float64 `yaml:"threshold"` // energy fraction required to reproduce
	MaturityAge       float64 `yaml:"maturity_age"`
	Cooldown          float64 `yaml:"cooldown"`
	CooldownJitter    float64 `yaml:"cooldown_jitter"`
	ParentEnergySplit float64 `yaml:"parent_energy_split"` // fraction of parent energy given to the child
	SpawnOffset       float64 `yaml:"spawn_offset"`
	HeadingJitter     float64 `yaml:"heading_jitter"`
}

// EnergyConfig holds energy economics. Costs are per second.
type EnergyConfig struct {
	BaseCost         float64 `yaml:"base_cost"`   // scaled by size
	MoveCost         float64 `yaml:"move_cost"`   // scaled by size and speed squared
	GrowthCost       float64 `yaml:"growth_cost"` // energy spent at full grow desire
	GrowthRate       float64 `yaml:"growth_rate"` // size gained at full grow desire
	StarvationDamage float64 `yaml:"starvation_damage"`
	HealthRegen      float64 `yaml:"health_regen"`
}

// MutationConfig holds brain mutation parameters.
type MutationConfig struct {
	Probability float64               `yaml:"probability"` // chance a child's brain is mutated at all
	Weights     MutationWeightsConfig `yaml:"weights"`
}

// MutationWeightsConfig holds the relative weight of each mutation operator.
type MutationWeightsConfig struct {
	DeactivateNeuron  float64 `yaml:"deactivate_neuron"`
	AddNeuron         float64 `yaml:"add_neuron"`
	MutateBias        float64 `yaml:"mutate_bias"`
	MutateActivation  float64 `yaml:"mutate_activation"`
	MutateWeight      float64 `yaml:"mutate_weight"`
	DeactivateSynapse float64 `yaml:"deactivate_synapse"`
	AddSynapse        float64 `yaml:"add_synapse"`
}

// Slice returns the weights in operator roulette order.
func (w MutationWeightsConfig) Slice() []float64 {
	return []float64{
		neural.OpDeactivateNeuron:  w.DeactivateNeuron,
		neural.OpAddNeuron:         w.AddNeuron,
		neural.OpMutateBias:        w.MutateBias,
		neural.OpMutateActivation:  w.MutateActivation,
		neural.OpMutateWeight:      w.MutateWeight,
		neural.OpDeactivateSynapse: w.DeactivateSynapse,
		neural.OpAddSynapse:        w.AddSynapse,
	}
}

// Set assigns the weight for op.
func (w *MutationWeightsConfig) Set(op neural.Operator, v float64) {
	switch op {
	case neural.OpDeactivateNeuron:
		w.DeactivateNeuron = v
	case neural.OpAddNeuron:
		w.AddNeuron = v
	case neural.OpMutateBias:
		w.MutateBias = v
	case neural.OpMutateActivation:
		w.MutateActivation = v
	case neural.OpMutateWeight:
		w.MutateWeight = v
	case neural.OpDeactivateSynapse:
		w.DeactivateSynapse = v
	case neural.OpAddSynapse:
		w.AddSynapse = v
	}
}

// BrainConfig holds founder brain parameters.
type BrainConfig struct {
	InitialSynapses int `yaml:"initial_synapses"` // random synapses in a founder brain
}

// SensorsConfig holds sensor parameters.
type SensorsConfig struct {
	VisionRange float64 `yaml:"vision_range"`
	FOV         float64 `yaml:"fov"` // total field of view in radians, split into sectors
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// HallOfFameConfig holds hall of fame settings for reseeding.
type HallOfFameConfig struct {
	Enabled         bool                    `yaml:"enabled"`
	Size            int                     `yaml:"size"`
	ReseedThreshold int                     `yaml:"reseed_threshold"`
	ReseedCount     int                     `yaml:"reseed_count"`
	Fitness         HallOfFameFitnessConfig `yaml:"fitness"`
	Entry           HallOfFameEntryConfig   `yaml:"entry"`
}

// HallOfFameFitnessConfig holds fitness calculation weights.
type HallOfFameFitnessConfig struct {
	ChildrenWeight float64 `yaml:"children_weight"`
	SurvivalWeight float64 `yaml:"survival_weight"`
	EatWeight      float64 `yaml:"eat_weight"`
}

// HallOfFameEntryConfig holds entry criteria. Meeting any one qualifies.
type HallOfFameEntryConfig struct {
	MinChildren    int     `yaml:"min_children"`
	MinSurvivalSec float64 `yaml:"min_survival_sec"`
	MinEaten       int     `yaml:"min_eaten"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32               float32           // Physics.DT as float32
	WorldW32           float32           // World.Width as float32
	WorldH32           float32           // World.Height as float32
	BrainInputs        int               // sensory input count
	BrainOutputs       int               // behaviour output count
	MutationThresholds neural.Thresholds // cumulative operator table
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	return Load("")
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a copy. Config holds no reference types, so the copy is
// independent of the receiver.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() error {
	return c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Mutation.Probability < 0 || c.Mutation.Probability > 1 {
		return fmt.Errorf("mutation.probability must be in [0, 1], got %v", c.Mutation.Probability)
	}

	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.BrainInputs = neural.BrainInputs
	c.Derived.BrainOutputs = neural.BrainOutputs

	th, err := neural.NewThresholds(c.Mutation.Weights.Slice())
	if err != nil {
		return fmt.Errorf("mutation weights: %w", err)
	}
	c.Derived.MutationThresholds = th
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

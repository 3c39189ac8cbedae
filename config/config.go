// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Population PopulationConfig `yaml:"population"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Plant      PlantConfig      `yaml:"plant"`
	Params     ParamsConfig     `yaml:"params"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// GridConfig holds the light grid dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial int `yaml:"initial"` // founder plants seeded at construction
	Max     int `yaml:"max"`     // germination stops while at or above this
}

// MutationConfig holds genome mutation parameters.
type MutationConfig struct {
	Rate float64 `yaml:"rate"` // stddev of logit-space Gaussian noise
}

// PlantConfig holds plant creation parameters.
type PlantConfig struct {
	FounderHeight float64 `yaml:"founder_height"` // starting height of founders
	FounderEnergy float64 `yaml:"founder_energy"` // starting energy of founders
	SproutHeight  float64 `yaml:"sprout_height"`  // starting height of germinated seeds
}

// ParamsConfig holds the tunable simulation constants. Every field may
// be changed between ticks and takes effect on the next Step; the
// Simulation reads the struct it was constructed with, never a global.
type ParamsConfig struct {
	EnergyScale       float64 `yaml:"energy_scale"`        // global scale on harvested light energy
	MaintenanceRate   float64 `yaml:"maintenance_rate"`    // energy per unit biomass per tick
	GrowthCostRate    float64 `yaml:"growth_cost_rate"`    // energy per unit growth per unit girth
	LeafCostRate      float64 `yaml:"leaf_cost_rate"`      // energy per leaf, times leaf_size cubed
	ToppleBaseChance  float64 `yaml:"topple_base_chance"`  // topple probability scale for top-heavy plants
	StabilityCoeff    float64 `yaml:"stability_coeff"`     // girth needed per unit height to stay stable
	TrunkMassScale    float64 `yaml:"trunk_mass_scale"`    // biomass scale for the trunk term
	LeafMassScale     float64 `yaml:"leaf_mass_scale"`     // biomass scale for the leaf term
	BranchMassScale   float64 `yaml:"branch_mass_scale"`   // biomass scale for the branch term
	UnrealizedPenalty float64 `yaml:"unrealized_penalty"`  // maintenance premium on unexpressed potential
	DispersalScale    float64 `yaml:"dispersal_scale"`     // seed travel per unit height per unit seed_range
	GerminationBurn   float64 `yaml:"germination_burn"`    // per-tick burn = this / germination_time
	ReproIntervalFrac float64 `yaml:"repro_interval_frac"` // reproduction interval as fraction of max_age
	SeedMaxAge        int     `yaml:"seed_max_age"`        // ticks before an unsprouted seed expires
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks per stats window
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fails fast on configuration that indicates a programming or
// deployment mistake rather than a runtime condition.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("config: grid dimensions must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Population.Max <= 0 {
		return fmt.Errorf("config: population.max must be positive, got %d", c.Population.Max)
	}
	if c.Population.Initial < 0 {
		return fmt.Errorf("config: population.initial must not be negative, got %d", c.Population.Initial)
	}
	if c.Mutation.Rate < 0 {
		return fmt.Errorf("config: mutation.rate must not be negative, got %g", c.Mutation.Rate)
	}
	if c.Params.EnergyScale <= 0 {
		return fmt.Errorf("config: params.energy_scale must be positive, got %g", c.Params.EnergyScale)
	}
	if c.Params.StabilityCoeff <= 0 {
		return fmt.Errorf("config: params.stability_coeff must be positive, got %g", c.Params.StabilityCoeff)
	}
	if c.Params.ReproIntervalFrac <= 0 {
		return fmt.Errorf("config: params.repro_interval_frac must be positive, got %g", c.Params.ReproIntervalFrac)
	}
	if c.Params.SeedMaxAge <= 0 {
		return fmt.Errorf("config: params.seed_max_age must be positive, got %d", c.Params.SeedMaxAge)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return fmt.Errorf("config: telemetry.stats_window must be positive, got %d", c.Telemetry.StatsWindow)
	}
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

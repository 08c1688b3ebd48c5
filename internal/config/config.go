// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"airshield-sim/internal/defense"
	"airshield-sim/internal/geo"
)

// UnitConfig describes one radar or interceptor installation. Active
// defaults to true when absent.
type UnitConfig struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Role      string  `yaml:"role"`
	Lat       float64 `yaml:"lat"`
	Lng       float64 `yaml:"lng"`
	RangeKM   float64 `yaml:"range_km"`
	ShotSpeed float64 `yaml:"shot_speed"`
	Active    *bool   `yaml:"active"`
}

// City is a weighted point of interest used by coverage scoring and as a
// batch evaluator target.
type City struct {
	Name   string  `yaml:"name"`
	Lat    float64 `yaml:"lat"`
	Lng    float64 `yaml:"lng"`
	Weight float64 `yaml:"weight"`
}

// Position returns the city's location.
func (c City) Position() geo.Position {
	return geo.Position{Lat: c.Lat, Lng: c.Lng}
}

// WeightedCity picks a city with probability proportional to its weight.
// ok is false when the list is empty or all weights are zero.
func WeightedCity(r *rand.Rand, cities []City) (City, bool) {
	var total float64
	for _, c := range cities {
		total += c.Weight
	}
	if total <= 0 {
		return City{}, false
	}
	pick := r.Float64() * total
	for _, c := range cities {
		pick -= c.Weight
		if pick <= 0 {
			return c, true
		}
	}
	return cities[len(cities)-1], true
}

// SimulationConfig is the root configuration for the defense layout, the
// region geometry, and the engine parameters.
type SimulationConfig struct {
	Units  []UnitConfig    `yaml:"units"`
	Region []geo.Ring      `yaml:"region"`
	BBox   geo.BoundingBox `yaml:"bounding_box"`
	Cities []City          `yaml:"cities"`

	Acceleration    float64 `yaml:"acceleration"`
	BaseSpeed       float64 `yaml:"base_speed"`
	Archetype       string  `yaml:"archetype"`
	CoverageSamples int     `yaml:"coverage_samples"`

	BatchRounds    int    `yaml:"batch_rounds"`
	BatchMissiles  int    `yaml:"batch_missiles"`
	BatchArchetype string `yaml:"batch_archetype"`
}

// Load loads YAML config, validates it against a CUE schema, and applies
// structural checks and defaults.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Validate rejects configurations that would be fatal inside the
// simulation loop. Everything past this gate degrades instead of failing.
func (c *SimulationConfig) Validate() error {
	if c.BBox.MinLat >= c.BBox.MaxLat || c.BBox.MinLng >= c.BBox.MaxLng {
		return fmt.Errorf("bounding box is empty or inverted: %+v", c.BBox)
	}
	if len(c.Units) == 0 {
		return fmt.Errorf("no defense units configured")
	}
	for i, u := range c.Units {
		switch defense.Role(u.Role) {
		case defense.RoleRadar, defense.RoleInterceptor:
		default:
			return fmt.Errorf("unit %d: unknown role %q", i, u.Role)
		}
		if u.RangeKM <= 0 {
			return fmt.Errorf("unit %d: range must be positive, got %f", i, u.RangeKM)
		}
		if defense.Role(u.Role) == defense.RoleInterceptor && u.ShotSpeed <= 0 {
			return fmt.Errorf("unit %d: interceptor shot speed must be positive", i)
		}
	}
	return nil
}

// ApplyDefaults fills unset parameters with their documented defaults.
func (c *SimulationConfig) ApplyDefaults() {
	if c.Acceleration <= 0 {
		c.Acceleration = 1
	}
	if c.BaseSpeed <= 0 {
		c.BaseSpeed = 0.005
	}
	if c.Archetype == "" {
		c.Archetype = "cruise"
	}
	if c.CoverageSamples <= 0 {
		c.CoverageSamples = 2500
	}
	if c.BatchRounds <= 0 {
		c.BatchRounds = 100
	}
	if c.BatchMissiles <= 0 {
		c.BatchMissiles = 10
	}
	if c.BatchArchetype == "" {
		c.BatchArchetype = c.Archetype
	}
}

// DefenseUnits converts configured units into the runtime model, applying
// the active-by-default rule.
func (c *SimulationConfig) DefenseUnits() []defense.Unit {
	units := make([]defense.Unit, 0, len(c.Units))
	for i, u := range c.Units {
		id := u.ID
		if id == "" {
			id = fmt.Sprintf("unit-%d", i)
		}
		active := true
		if u.Active != nil {
			active = *u.Active
		}
		units = append(units, defense.Unit{
			ID:        id,
			Name:      u.Name,
			Role:      defense.Role(u.Role),
			Position:  geo.Position{Lat: u.Lat, Lng: u.Lng},
			RangeKM:   u.RangeKM,
			ShotSpeed: u.ShotSpeed,
			Active:    active,
		})
	}
	return units
}

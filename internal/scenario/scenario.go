// Package scenario scripts timed attack waves against the defended region.
package scenario

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"airshield-sim/internal/config"
	"airshield-sim/internal/geo"
	"airshield-sim/internal/threat"
)

// Scenario defines an ordered sequence of attack waves.
type Scenario struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Waves       []Wave `yaml:"waves"`
}

// Wave launches a group of threats at a fixed offset into the run.
type Wave struct {
	AtSeconds int    `yaml:"at_seconds"`
	Count     int    `yaml:"count"`
	Archetype string `yaml:"archetype"`
	// Edge selects the border the wave crosses: north, south, east,
	// west, or empty for a random edge per threat.
	Edge string `yaml:"edge,omitempty"`
}

const waveOffsetDeg = 0.3

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks wave ordering and archetype names.
func (s *Scenario) Validate() error {
	if len(s.Waves) == 0 {
		return fmt.Errorf("scenario %q has no waves", s.Name)
	}
	prev := -1
	for i, w := range s.Waves {
		if w.Count <= 0 {
			return fmt.Errorf("wave %d: count must be positive", i)
		}
		if w.AtSeconds < 0 {
			return fmt.Errorf("wave %d: at_seconds must not be negative", i)
		}
		if w.AtSeconds < prev {
			return fmt.Errorf("wave %d: waves must be ordered by at_seconds", i)
		}
		prev = w.AtSeconds
		if _, ok := threat.ArchetypeByName(w.Archetype); !ok {
			return fmt.Errorf("wave %d: unknown archetype %q", i, w.Archetype)
		}
		switch w.Edge {
		case "", "north", "south", "east", "west":
		default:
			return fmt.Errorf("wave %d: unknown edge %q", i, w.Edge)
		}
	}
	return nil
}

// Origin picks a border crossing for one threat of the wave.
func (w Wave) Origin(r *rand.Rand, bbox geo.BoundingBox) geo.Position {
	lat := bbox.MinLat + r.Float64()*(bbox.MaxLat-bbox.MinLat)
	lng := bbox.MinLng + r.Float64()*(bbox.MaxLng-bbox.MinLng)
	switch w.Edge {
	case "north":
		return geo.Position{Lat: bbox.MaxLat + waveOffsetDeg, Lng: lng}
	case "south":
		return geo.Position{Lat: bbox.MinLat - waveOffsetDeg, Lng: lng}
	case "east":
		return geo.Position{Lat: lat, Lng: bbox.MaxLng + waveOffsetDeg}
	case "west":
		return geo.Position{Lat: lat, Lng: bbox.MinLng - waveOffsetDeg}
	default:
		return bbox.RandomEdge(r, waveOffsetDeg)
	}
}

// LaunchFunc receives one threat to inject into the simulation.
type LaunchFunc func(a threat.Archetype, start, target geo.Position)

// Player walks a scenario's waves as simulated time advances.
type Player struct {
	scenario *Scenario
	cfg      *config.SimulationConfig
	rand     *rand.Rand
	next     int
}

// NewPlayer creates a Player over a validated scenario.
func NewPlayer(s *Scenario, cfg *config.SimulationConfig, rnd *rand.Rand) *Player {
	return &Player{scenario: s, cfg: cfg, rand: rnd}
}

// Step fires every wave due at the given elapsed simulation time. Targets
// favor weighted cities with a uniform interior fallback.
func (p *Player) Step(elapsed time.Duration, launch LaunchFunc) {
	for p.next < len(p.scenario.Waves) {
		w := p.scenario.Waves[p.next]
		if time.Duration(w.AtSeconds)*time.Second > elapsed {
			return
		}
		arch, _ := threat.ArchetypeByName(w.Archetype)
		for i := 0; i < w.Count; i++ {
			start := w.Origin(p.rand, p.cfg.BBox)
			target := p.target()
			launch(arch, start, target)
		}
		p.next++
	}
}

// Done reports whether every wave has fired.
func (p *Player) Done() bool {
	return p.next >= len(p.scenario.Waves)
}

func (p *Player) target() geo.Position {
	if c, ok := config.WeightedCity(p.rand, p.cfg.Cities); ok {
		return c.Position()
	}
	return p.cfg.BBox.RandomIn(p.rand)
}

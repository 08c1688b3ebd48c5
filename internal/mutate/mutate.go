// Package mutate perturbs defense layouts for placement search.
package mutate

import (
	"math/rand"

	"airshield-sim/internal/defense"
	"airshield-sim/internal/geo"
)

// Entropy selects how aggressively a layout is perturbed.
type Entropy string

const (
	EntropyLow  Entropy = "low"
	EntropyHigh Entropy = "high"
)

const (
	lowMutationChance  = 0.3
	highMutationChance = 0.6

	// Under high entropy a mutated unit may jump anywhere in the box,
	// which lets the search escape local optima.
	relocationChance = 0.1

	// Radars reposition in coarser strategic steps than interceptors.
	radarStepM       = 30000.0
	interceptorStepM = 12000.0

	highEntropyScale = 2.5
)

// Options control a single mutation pass.
type Options struct {
	Entropy Entropy
	// RadarsLocked keeps radar positions fixed. High entropy overrides
	// the lock to force exploration.
	RadarsLocked bool
}

// Mutate returns a new candidate layout. The input slice is never
// modified; unit identity, role, range, and order are preserved. Every
// produced position lies within the bounding box.
func Mutate(r *rand.Rand, units []defense.Unit, bbox geo.BoundingBox, opts Options) []defense.Unit {
	chance := lowMutationChance
	if opts.Entropy == EntropyHigh {
		chance = highMutationChance
	}
	return mutateWithChance(r, units, bbox, opts, chance)
}

func mutateWithChance(r *rand.Rand, units []defense.Unit, bbox geo.BoundingBox, opts Options, chance float64) []defense.Unit {
	scale := 1.0
	if opts.Entropy == EntropyHigh {
		scale = highEntropyScale
	}

	out := make([]defense.Unit, len(units))
	copy(out, units)
	for i := range out {
		u := &out[i]
		if u.Role == defense.RoleRadar && opts.RadarsLocked && opts.Entropy != EntropyHigh {
			continue
		}
		if r.Float64() >= chance {
			continue
		}
		if opts.Entropy == EntropyHigh && r.Float64() < relocationChance {
			u.Position = bbox.RandomIn(r)
			continue
		}
		step := interceptorStepM
		if u.Role == defense.RoleRadar {
			step = radarStepM
		}
		step *= scale
		northM := (r.Float64()*2 - 1) * step
		eastM := (r.Float64()*2 - 1) * step
		u.Position = bbox.Clamp(geo.OffsetMeters(u.Position, northM, eastM))
	}
	return out
}

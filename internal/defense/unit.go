// Defense unit model and the capability queries shared by the kinematic
// engine, the coverage scorer, and the batch evaluator.
package defense

import (
	"sort"

	"airshield-sim/internal/geo"
)

// Role distinguishes sensing from engagement capability.
type Role string

const (
	RoleRadar       Role = "radar"
	RoleInterceptor Role = "interceptor"
)

// Unit is one radar or interceptor installation. Position may be moved by
// the mutation operator and Active may be toggled externally; everything
// else is fixed at placement.
type Unit struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Role      Role         `json:"role" yaml:"role"`
	Position  geo.Position `json:"position" yaml:"position"`
	RangeKM   float64      `json:"range_km" yaml:"range_km"`
	ShotSpeed float64      `json:"shot_speed" yaml:"shot_speed"`
	Active    bool         `json:"active" yaml:"active"`
}

// RangeMeters returns the unit's range converted to meters.
func (u Unit) RangeMeters() float64 {
	return u.RangeKM * 1000
}

// Radars returns the active radar subset of units.
func Radars(units []Unit) []Unit {
	return filter(units, RoleRadar)
}

// Interceptors returns the active interceptor subset of units.
func Interceptors(units []Unit) []Unit {
	return filter(units, RoleInterceptor)
}

func filter(units []Unit, role Role) []Unit {
	var out []Unit
	for _, u := range units {
		if u.Active && u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

// BySpeedDesc returns a copy of units sorted by descending shot speed.
// Assignment walks this order so the fastest feasible interceptor wins the
// tie-break deterministically.
func BySpeedDesc(units []Unit) []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ShotSpeed > out[j].ShotSpeed
	})
	return out
}

// reachableByAny reports whether any active unit's range covers the
// distance yielded by dist. Both engines funnel their "covered by any
// unit" checks through here so their range semantics cannot drift apart.
func reachableByAny(units []Unit, dist func(Unit) float64) bool {
	for _, u := range units {
		if !u.Active {
			continue
		}
		if dist(u) <= u.RangeMeters() {
			return true
		}
	}
	return false
}

// PointCovered reports whether any active unit covers the point p.
func PointCovered(units []Unit, p geo.Position) bool {
	return reachableByAny(units, func(u Unit) float64 {
		return geo.DistanceMeters(p, u.Position)
	})
}

// SegmentCovered reports whether any active unit covers the straight
// segment a-b at any point along it.
func SegmentCovered(units []Unit, a, b geo.Position) bool {
	return reachableByAny(units, func(u Unit) float64 {
		return geo.PointToSegmentMeters(u.Position, a, b)
	})
}

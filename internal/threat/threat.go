// Threat entity model and archetype table.
package threat

import (
	"airshield-sim/internal/geo"
)

// Status is the lifecycle state of a threat. Once a threat leaves
// StatusMoving it never transitions again.
type Status string

const (
	StatusMoving      Status = "moving"
	StatusIntercepted Status = "intercepted"
	StatusImpacted    Status = "impacted"
)

// Threat is one simulated hostile projectile. Instances are treated as
// values by the engine: every tick produces a new copy, so a snapshot
// handed out to a writer is never mutated behind its back.
type Threat struct {
	ID       string       `json:"id"`
	Start    geo.Position `json:"start"`
	Target   geo.Position `json:"target"`
	Position geo.Position `json:"position"`
	Status   Status       `json:"status"`
	Speed    float64      `json:"speed"`

	// DetectedBy holds the id of the first radar that saw the threat.
	// Detection is sticky; re-checks are idempotent.
	DetectedBy string `json:"detected_by,omitempty"`

	// Interceptor binding. Set at most once and never reassigned, even if
	// a faster interceptor later becomes feasible.
	InterceptorID      string        `json:"interceptor_id,omitempty"`
	InterceptorPos     *geo.Position `json:"interceptor_pos,omitempty"`
	PredictedIntercept *geo.Position `json:"predicted_intercept,omitempty"`
}

// Terminal reports whether the threat reached a final state.
func (t Threat) Terminal() bool {
	return t.Status != StatusMoving
}

// Bound reports whether an interceptor has been assigned.
func (t Threat) Bound() bool {
	return t.InterceptorID != ""
}

// Archetype scales the base unit speed into a threat speed.
type Archetype struct {
	Name       string  `json:"name" yaml:"name"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// Fixed archetype table.
var (
	ArchetypeDrone      = Archetype{Name: "drone", Multiplier: 0.6}
	ArchetypeCruise     = Archetype{Name: "cruise", Multiplier: 1.5}
	ArchetypeBallistic  = Archetype{Name: "ballistic", Multiplier: 4.0}
	ArchetypeHypersonic = Archetype{Name: "hypersonic", Multiplier: 12.0}
)

// Archetypes lists all known archetypes in menu order.
var Archetypes = []Archetype{
	ArchetypeDrone,
	ArchetypeCruise,
	ArchetypeBallistic,
	ArchetypeHypersonic,
}

// ArchetypeByName looks up an archetype; ok is false for unknown names.
func ArchetypeByName(name string) (Archetype, bool) {
	for _, a := range Archetypes {
		if a.Name == name {
			return a, true
		}
	}
	return Archetype{}, false
}

// Speed returns the simulated speed for a given base unit speed.
func (a Archetype) Speed(baseSpeed float64) float64 {
	return baseSpeed * a.Multiplier
}

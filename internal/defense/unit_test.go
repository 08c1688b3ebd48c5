package defense

import (
	"testing"

	"airshield-sim/internal/geo"
)

func TestPointCovered(t *testing.T) {
	colombo := geo.Position{Lat: 6.9271, Lng: 79.8612}
	units := []Unit{
		{ID: "r1", Role: RoleRadar, Position: colombo, RangeKM: 100, Active: true},
	}
	near := geo.Position{Lat: 7.0, Lng: 79.9} // a few km away
	far := geo.Position{Lat: 9.9, Lng: 80.75} // ~340 km away
	if !PointCovered(units, near) {
		t.Fatalf("expected near point covered")
	}
	if PointCovered(units, far) {
		t.Fatalf("expected far point uncovered")
	}
}

func TestPointCovered_EmptyAndInactive(t *testing.T) {
	p := geo.Position{Lat: 6.9, Lng: 79.9}
	if PointCovered(nil, p) {
		t.Fatalf("empty unit set must never cover")
	}
	units := []Unit{{ID: "r1", Role: RoleRadar, Position: p, RangeKM: 500, Active: false}}
	if PointCovered(units, p) {
		t.Fatalf("inactive unit must not cover")
	}
}

func TestSegmentCovered(t *testing.T) {
	// Unit sits beside the midpoint of the segment, not near either end.
	units := []Unit{
		{ID: "i1", Role: RoleInterceptor, Position: geo.Position{Lat: 0.1, Lng: 1}, RangeKM: 20, Active: true},
	}
	a := geo.Position{Lat: 0, Lng: 0}
	b := geo.Position{Lat: 0, Lng: 2}
	if !SegmentCovered(units, a, b) {
		t.Fatalf("expected segment covered at its midpoint")
	}
	if PointCovered(units, a) || PointCovered(units, b) {
		t.Fatalf("endpoints should be out of range in this setup")
	}
}

func TestFilterAndSort(t *testing.T) {
	units := []Unit{
		{ID: "r1", Role: RoleRadar, Active: true},
		{ID: "i1", Role: RoleInterceptor, ShotSpeed: 0.1, Active: true},
		{ID: "i2", Role: RoleInterceptor, ShotSpeed: 0.3, Active: true},
		{ID: "i3", Role: RoleInterceptor, ShotSpeed: 0.2, Active: false},
	}
	if got := len(Radars(units)); got != 1 {
		t.Fatalf("expected 1 radar, got %d", got)
	}
	ints := Interceptors(units)
	if len(ints) != 2 {
		t.Fatalf("expected 2 active interceptors, got %d", len(ints))
	}
	sorted := BySpeedDesc(ints)
	if sorted[0].ID != "i2" || sorted[1].ID != "i1" {
		t.Fatalf("unexpected order: %s, %s", sorted[0].ID, sorted[1].ID)
	}
	// Input slice untouched.
	if ints[0].ID != "i1" {
		t.Fatalf("BySpeedDesc must not mutate its input")
	}
}

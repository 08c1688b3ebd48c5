package mutate

import (
	"math/rand"
	"testing"

	"airshield-sim/internal/defense"
	"airshield-sim/internal/geo"
)

var bbox = geo.BoundingBox{MinLat: 5.8, MaxLat: 9.9, MinLng: 79.5, MaxLng: 82.0}

func layout() []defense.Unit {
	return []defense.Unit{
		{ID: "r1", Role: defense.RoleRadar, Position: geo.Position{Lat: 7.0, Lng: 80.0}, RangeKM: 300, Active: true},
		{ID: "r2", Role: defense.RoleRadar, Position: geo.Position{Lat: 8.5, Lng: 81.0}, RangeKM: 300, Active: true},
		{ID: "i1", Role: defense.RoleInterceptor, Position: geo.Position{Lat: 6.9, Lng: 79.9}, RangeKM: 120, ShotSpeed: 0.2, Active: true},
		{ID: "i2", Role: defense.RoleInterceptor, Position: geo.Position{Lat: 9.0, Lng: 80.5}, RangeKM: 120, ShotSpeed: 0.15, Active: true},
	}
}

func TestMutate_PreservesStructure(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	in := layout()
	out := Mutate(r, in, bbox, Options{Entropy: EntropyHigh})

	if len(out) != len(in) {
		t.Fatalf("length changed: %d != %d", len(out), len(in))
	}
	for i := range out {
		if out[i].ID != in[i].ID || out[i].Role != in[i].Role || out[i].RangeKM != in[i].RangeKM {
			t.Fatalf("unit %d identity changed: %+v vs %+v", i, out[i], in[i])
		}
		if !bbox.Contains(out[i].Position) {
			t.Fatalf("unit %s escaped the box: %+v", out[i].ID, out[i].Position)
		}
	}
}

func TestMutate_DoesNotModifyInput(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	in := layout()
	want := layout()
	Mutate(r, in, bbox, Options{Entropy: EntropyHigh})
	for i := range in {
		if in[i] != want[i] {
			t.Fatalf("input slice mutated at %d: %+v", i, in[i])
		}
	}
}

func TestMutate_ZeroChanceIsIdentity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	in := layout()
	out := mutateWithChance(r, in, bbox, Options{Entropy: EntropyHigh}, 0)
	for i := range out {
		if out[i] != in[i] {
			t.Fatalf("zero chance must not change unit %d: %+v", i, out[i])
		}
	}
}

func TestMutate_EventuallyMoves(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	in := layout()
	moved := false
	for trial := 0; trial < 20 && !moved; trial++ {
		out := Mutate(r, in, bbox, Options{Entropy: EntropyLow})
		for i := range out {
			if out[i].Position != in[i].Position {
				moved = true
			}
		}
	}
	if !moved {
		t.Fatalf("no unit ever moved across 20 low-entropy passes")
	}
}

func TestMutate_RadarsLocked(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	in := layout()
	for trial := 0; trial < 50; trial++ {
		out := Mutate(r, in, bbox, Options{Entropy: EntropyLow, RadarsLocked: true})
		for i := range out {
			if out[i].Role == defense.RoleRadar && out[i].Position != in[i].Position {
				t.Fatalf("locked radar %s moved", out[i].ID)
			}
		}
	}
}

func TestMutate_HighEntropyOverridesLock(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	in := layout()
	moved := false
	for trial := 0; trial < 50 && !moved; trial++ {
		out := Mutate(r, in, bbox, Options{Entropy: EntropyHigh, RadarsLocked: true})
		for i := range out {
			if out[i].Role == defense.RoleRadar && out[i].Position != in[i].Position {
				moved = true
			}
		}
	}
	if !moved {
		t.Fatalf("high entropy must be allowed to move locked radars")
	}
}

package sim

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"airshield-sim/internal/config"
	"airshield-sim/internal/geo"
	"airshield-sim/internal/threat"
)

// MockWriter collects track rows for validation.
type MockWriter struct {
	Rows []TrackRow
}

func (w *MockWriter) Write(row TrackRow) error {
	w.Rows = append(w.Rows, row)
	return nil
}

// MockEventWriter collects defense events.
type MockEventWriter struct {
	Events []EventRow
}

func (w *MockEventWriter) WriteEvent(row EventRow) error {
	w.Events = append(w.Events, row)
	return nil
}

var colombo = geo.Position{Lat: 6.9271, Lng: 79.8612}

func testConfig() *config.SimulationConfig {
	cfg := &config.SimulationConfig{
		Units: []config.UnitConfig{
			{ID: "radar-1", Name: "Colombo Radar", Role: "radar", Lat: colombo.Lat, Lng: colombo.Lng, RangeKM: 500},
			{ID: "int-1", Name: "Colombo Battery", Role: "interceptor", Lat: colombo.Lat, Lng: colombo.Lng, RangeKM: 150, ShotSpeed: 0.25},
		},
		BBox: geo.BoundingBox{MinLat: 5.8, MaxLat: 9.9, MinLng: 79.5, MaxLng: 82.0},
		Cities: []config.City{
			{Name: "Colombo", Lat: colombo.Lat, Lng: colombo.Lng, Weight: 10},
		},
		Acceleration: 5,
		BaseSpeed:    0.005,
	}
	cfg.ApplyDefaults()
	return cfg
}

func newTestEngine(cfg *config.SimulationConfig, w TrackWriter, ew EventWriter) *Engine {
	return NewEngine("run-test", cfg, w, ew, rand.New(rand.NewSource(1)))
}

func TestSolveIntercept_SamePosition(t *testing.T) {
	pos := geo.Position{Lat: 6.9, Lng: 79.8}
	v := velocity{} // stationary threat
	tt, point, ok := solveIntercept(pos, v, pos, 0.25)
	if !ok {
		t.Fatalf("expected a solution")
	}
	if tt != 0 {
		t.Fatalf("expected t=0, got %f", tt)
	}
	if point != pos {
		t.Fatalf("expected intercept at threat position, got %+v", point)
	}
}

func TestSolveIntercept_TooFast(t *testing.T) {
	// Threat flying directly away faster than the shot can close.
	threatPos := geo.Position{Lat: 1, Lng: 0}
	v := velocity{dLat: 0.5}
	_, _, ok := solveIntercept(threatPos, v, geo.Position{}, 0.25)
	if ok {
		t.Fatalf("expected no solution for an outrunning threat")
	}
}

func TestSolveIntercept_HeadOn(t *testing.T) {
	// Threat at (1,0) flying toward the base at origin.
	threatPos := geo.Position{Lat: 1, Lng: 0}
	v := velocity{dLat: -0.01}
	tt, point, ok := solveIntercept(threatPos, v, geo.Position{}, 0.24)
	if !ok || tt <= 0 {
		t.Fatalf("expected positive intercept time, got t=%f ok=%v", tt, ok)
	}
	// Meeting point must satisfy |point - base| == shotSpeed * t.
	want := 0.24 * tt
	got := math.Hypot(point.Lat, point.Lng)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("intercept point inconsistent: |p|=%f want %f", got, want)
	}
}

func TestEngine_ColomboScenario(t *testing.T) {
	writer := &MockWriter{}
	events := &MockEventWriter{}
	eng := newTestEngine(testConfig(), writer, events)

	start := geo.Position{Lat: 9.9, Lng: 80.75}
	id := eng.Launch(threat.ArchetypeCruise, start, colombo)

	var final threat.Threat
	for i := 0; i < 400; i++ {
		eng.Tick(time.Second)
		snap := eng.Snapshot()
		final = snap.Threats[0]
		if final.Terminal() {
			break
		}
	}

	if final.ID != id {
		t.Fatalf("unexpected threat id %s", final.ID)
	}
	if final.Status != threat.StatusIntercepted {
		t.Fatalf("expected interception, got %s", final.Status)
	}
	if final.DetectedBy != "radar-1" {
		t.Fatalf("expected detection by radar-1, got %q", final.DetectedBy)
	}
	if final.InterceptorID != "int-1" {
		t.Fatalf("expected binding to int-1, got %q", final.InterceptorID)
	}
	// Interception must happen before the threat gets anywhere near the
	// city: the interceptor range is 150 km.
	if d := geo.DistanceMeters(final.Position, colombo); d < 20000 {
		t.Fatalf("interception too close to target: %f m", d)
	}

	c := eng.CountersNow()
	if c.Launched != 1 || c.Intercepted != 1 || c.Impacted != 0 {
		t.Fatalf("unexpected counters %+v", c)
	}

	// Event stream must contain the full progression.
	kinds := map[string]bool{}
	for _, ev := range events.Events {
		kinds[ev.Kind] = true
	}
	for _, k := range []string{EventLaunch, EventDetected, EventLock, EventIntercept} {
		if !kinds[k] {
			t.Fatalf("missing %s event", k)
		}
	}
}

func TestEngine_ImpactWithoutDefense(t *testing.T) {
	cfg := testConfig()
	// Keep the units but disable them all; inactive units take part in
	// nothing.
	f := false
	for i := range cfg.Units {
		cfg.Units[i].Active = &f
	}
	eng := newTestEngine(cfg, &MockWriter{}, nil)

	start := geo.Position{Lat: 7.2, Lng: 80.0}
	eng.Launch(threat.ArchetypeBallistic, start, colombo)

	var final threat.Threat
	for i := 0; i < 400; i++ {
		eng.Tick(time.Second)
		final = eng.Snapshot().Threats[0]
		if final.Terminal() {
			break
		}
	}
	if final.Status != threat.StatusImpacted {
		t.Fatalf("expected impact, got %s", final.Status)
	}
	if final.Position != colombo {
		t.Fatalf("impacted threat must rest at its target, got %+v", final.Position)
	}
	if final.DetectedBy != "" || final.InterceptorID != "" {
		t.Fatalf("inactive units must not detect or engage: %+v", final)
	}
	c := eng.CountersNow()
	if c.Impacted != 1 || c.Intercepted != 0 {
		t.Fatalf("unexpected counters %+v", c)
	}
}

func TestEngine_CounterInvariant(t *testing.T) {
	eng := newTestEngine(testConfig(), &MockWriter{}, nil)
	for i := 0; i < 5; i++ {
		eng.LaunchRandom(threat.ArchetypeCruise)
	}
	for i := 0; i < 50; i++ {
		eng.Tick(time.Second)
		snap := eng.Snapshot()
		moving := 0
		for _, th := range snap.Threats {
			if th.Status == threat.StatusMoving {
				moving++
			}
		}
		c := snap.Counters
		if c.Launched != c.Intercepted+c.Impacted+moving {
			t.Fatalf("counter invariant broken: %+v moving=%d", c, moving)
		}
	}
}

func TestEngine_TerminalStatesAreFinal(t *testing.T) {
	eng := newTestEngine(testConfig(), &MockWriter{}, nil)
	eng.Launch(threat.ArchetypeHypersonic, geo.Position{Lat: 7.2, Lng: 80.0}, colombo)

	var terminalAt geo.Position
	var terminalStatus threat.Status
	seen := false
	for i := 0; i < 400; i++ {
		eng.Tick(time.Second)
		th := eng.Snapshot().Threats[0]
		if seen {
			if th.Status != terminalStatus || th.Position != terminalAt {
				t.Fatalf("terminal threat mutated: %+v", th)
			}
		} else if th.Terminal() {
			seen = true
			terminalStatus = th.Status
			terminalAt = th.Position
		}
	}
	if !seen {
		t.Fatalf("threat never resolved")
	}
}

func TestEngine_FastestFeasibleInterceptorWins(t *testing.T) {
	cfg := testConfig()
	cfg.Units = append(cfg.Units, config.UnitConfig{
		ID: "int-slow", Name: "Backup Battery", Role: "interceptor",
		Lat: colombo.Lat, Lng: colombo.Lng, RangeKM: 150, ShotSpeed: 0.1,
	})
	eng := newTestEngine(cfg, &MockWriter{}, nil)
	eng.Launch(threat.ArchetypeCruise, geo.Position{Lat: 7.5, Lng: 80.2}, colombo)

	var bound string
	for i := 0; i < 400; i++ {
		eng.Tick(time.Second)
		th := eng.Snapshot().Threats[0]
		if th.Bound() {
			bound = th.InterceptorID
			break
		}
	}
	if bound != "int-1" {
		t.Fatalf("expected the faster interceptor to bind, got %q", bound)
	}
}

func TestEngine_Reset(t *testing.T) {
	eng := newTestEngine(testConfig(), &MockWriter{}, nil)
	eng.LaunchRandom(threat.ArchetypeDrone)
	eng.Tick(time.Second)
	eng.Reset()

	snap := eng.Snapshot()
	if len(snap.Threats) != 0 || len(snap.Explosions) != 0 {
		t.Fatalf("reset must clear entities: %+v", snap)
	}
	if snap.Counters != (Counters{}) {
		t.Fatalf("reset must clear counters: %+v", snap.Counters)
	}
	if len(eng.Logs()) != 0 {
		t.Fatalf("reset must clear logs")
	}
}

func TestEngine_TickWritesRows(t *testing.T) {
	writer := &MockWriter{}
	eng := newTestEngine(testConfig(), writer, nil)
	eng.Launch(threat.ArchetypeCruise, geo.Position{Lat: 9.0, Lng: 80.5}, colombo)
	eng.Tick(time.Second)
	if len(writer.Rows) != 1 {
		t.Fatalf("expected 1 track row, got %d", len(writer.Rows))
	}
	row := writer.Rows[0]
	if row.RunID != "run-test" || row.ThreatID == "" {
		t.Fatalf("track row has missing ids: %+v", row)
	}
}

func TestSubStepCount(t *testing.T) {
	// The sub-step count must scale with acceleration and stay capped.
	for _, tc := range []struct {
		accel float64
		want  int
	}{
		{1, 1},
		{10, 5},
		{1000, subStepCap},
	} {
		n := int(math.Ceil(tc.accel * subStepFactor))
		if n < 1 {
			n = 1
		}
		if n > subStepCap {
			n = subStepCap
		}
		if n != tc.want {
			t.Fatalf("accel %f: expected %d sub-steps, got %d", tc.accel, tc.want, n)
		}
	}
}

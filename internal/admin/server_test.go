package admin

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airshield-sim/internal/config"
	"airshield-sim/internal/coverage"
	"airshield-sim/internal/geo"
	"airshield-sim/internal/sim"
	"airshield-sim/internal/threat"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.SimulationConfig{
		Units: []config.UnitConfig{
			{ID: "radar-1", Name: "Radar", Role: "radar", Lat: 6.9271, Lng: 79.8612, RangeKM: 500},
			{ID: "int-1", Name: "Battery", Role: "interceptor", Lat: 6.9271, Lng: 79.8612, RangeKM: 150, ShotSpeed: 0.25},
		},
		BBox: geo.BoundingBox{MinLat: 5.8, MaxLat: 9.9, MinLng: 79.5, MaxLng: 82.0},
		Cities: []config.City{
			{Name: "Colombo", Lat: 6.9271, Lng: 79.8612, Weight: 10},
		},
		CoverageSamples: 400,
	}
	cfg.ApplyDefaults()
	engine := sim.NewEngine("run-admin", cfg, nil, nil, rand.New(rand.NewSource(1)))
	return NewServer(engine, cfg)
}

func TestHandleLaunchAndSnapshot(t *testing.T) {
	server := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/launch?archetype=cruise&count=3", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %d", w.Code)
	}
	var launched struct {
		Launched []string `json:"launched"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&launched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(launched.Launched) != 3 {
		t.Fatalf("expected 3 launches, got %d", len(launched.Launched))
	}

	server.Engine.Tick(time.Second)

	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/snapshot", nil))
	var snap sim.Snapshot
	if err := json.NewDecoder(w.Result().Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Threats) != 3 {
		t.Fatalf("expected 3 threats in snapshot, got %d", len(snap.Threats))
	}
	if snap.Counters.Launched != 3 {
		t.Fatalf("unexpected counters %+v", snap.Counters)
	}
}

func TestHandleLaunch_UnknownArchetype(t *testing.T) {
	server := testServer(t)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/launch?archetype=zeppelin", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", w.Code)
	}
}

func TestHandleReset(t *testing.T) {
	server := testServer(t)
	server.Engine.LaunchRandom(threat.ArchetypeDrone)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reset", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected no content, got %d", w.Code)
	}
	if len(server.Engine.Snapshot().Threats) != 0 {
		t.Fatalf("reset did not clear threats")
	}
}

func TestHandleCoverage(t *testing.T) {
	server := testServer(t)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/coverage", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %d", w.Code)
	}
	var res coverage.Result
	if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
		t.Fatalf("decode coverage: %v", err)
	}
	if res.GridSide != 20 {
		t.Fatalf("expected 20x20 grid, got %d", res.GridSide)
	}
	if res.CombinedLandPct <= 0 {
		t.Fatalf("expected some coverage around Colombo, got %+v", res)
	}
}

func TestHandleUnitActive(t *testing.T) {
	server := testServer(t)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/unit-active?id=radar-1&active=false", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected no content, got %d", w.Code)
	}
	for _, u := range server.Engine.Units() {
		if u.ID == "radar-1" && u.Active {
			t.Fatalf("radar-1 still active")
		}
	}

	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/unit-active?id=ghost&active=true", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected not found for unknown unit, got %d", w.Code)
	}
}

func TestHandleAcceleration_Invalid(t *testing.T) {
	server := testServer(t)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/acceleration?factor=-2", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", w.Code)
	}
}

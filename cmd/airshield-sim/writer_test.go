package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"airshield-sim/internal/config"
	"airshield-sim/internal/geo"
	"airshield-sim/internal/sim"
)

func writerConfig() *config.SimulationConfig {
	cfg := &config.SimulationConfig{
		Units: []config.UnitConfig{
			{ID: "radar-1", Name: "Radar", Role: "radar", Lat: 6.9, Lng: 79.8, RangeKM: 300},
		},
		BBox: geo.BoundingBox{MinLat: 5.8, MaxLat: 9.9, MinLng: 79.5, MaxLng: 82.0},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestNewWritersPrintOnly(t *testing.T) {
	w, ew, cleanup, err := newWriters(writerConfig(), true, "")
	if err != nil {
		t.Fatalf("newWriters: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sim.ColorStdoutWriter); !ok {
		t.Fatalf("expected ColorStdoutWriter, got %T", w)
	}
	if ew == nil {
		t.Fatalf("expected an event writer")
	}
}

func TestNewWritersJSONFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	w, _, cleanup, err := newWriters(writerConfig(), true, "")
	if err != nil {
		t.Fatalf("newWriters: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sim.StdoutWriter); !ok {
		t.Fatalf("expected StdoutWriter, got %T", w)
	}
}

func TestNewWritersWithLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.jsonl")

	w, _, cleanup, err := newWriters(writerConfig(), true, logPath)
	if err != nil {
		t.Fatalf("newWriters: %v", err)
	}
	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Fatalf("expected MultiWriter, got %T", w)
	}
	row := sim.TrackRow{RunID: "r", ThreatID: "t", Timestamp: time.Now(), Status: "moving"}
	if err := w.Write(row); err != nil {
		t.Fatalf("write: %v", err)
	}
	cleanup()

	for _, p := range []string{logPath, logPath + ".events"} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}
}

func TestLoadScenario_BuiltIn(t *testing.T) {
	sc, err := loadScenario("probe")
	if err != nil {
		t.Fatalf("loadScenario: %v", err)
	}
	if sc.Name != "Probe" {
		t.Fatalf("unexpected scenario %+v", sc)
	}
}

func TestLoadScenario_Unknown(t *testing.T) {
	if _, err := loadScenario("no-such-scenario"); err == nil {
		t.Fatalf("expected an error for unknown scenario")
	}
}

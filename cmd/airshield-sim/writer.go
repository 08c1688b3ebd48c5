package main

import (
	"os"

	"airshield-sim/internal/config"
	"airshield-sim/internal/sim"
)

// newWriters sets up track and event writers from flags and env vars. The
// cleanup function closes any file-backed writers.
func newWriters(cfg *config.SimulationConfig, printOnly bool, logFile string) (sim.TrackWriter, sim.EventWriter, func(), error) {
	cleanup := func() {}

	writer, eventWriter, err := baseWriters(cfg, printOnly)
	if err != nil {
		return nil, nil, nil, err
	}
	if logFile == "" {
		return writer, eventWriter, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".events")
	if err != nil {
		return nil, nil, nil, err
	}
	mw := sim.NewMultiWriter(
		[]sim.TrackWriter{writer, fw},
		[]sim.EventWriter{eventWriter, fw},
	)
	cleanup = func() { fw.Close() }
	return mw, mw, cleanup, nil
}

// baseWriters picks GreptimeDB when an endpoint is configured, stdout
// otherwise. LOG_FORMAT=json switches stdout from the colored
// human-readable form to JSON lines.
func baseWriters(cfg *config.SimulationConfig, printOnly bool) (sim.TrackWriter, sim.EventWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if os.Getenv("LOG_FORMAT") == "json" {
			w := &sim.StdoutWriter{}
			return w, w, nil
		}
		w := sim.NewColorStdoutWriter(cfg)
		return w, w, nil
	}
	w, err := sim.NewGreptimeDBWriter(os.Getenv("GREPTIMEDB_ENDPOINT"), "public")
	if err != nil {
		return nil, nil, err
	}
	return w, w, nil
}

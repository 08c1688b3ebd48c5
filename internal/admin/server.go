// Package admin exposes a small JSON control surface over a running
// simulation.
package admin

import (
	"encoding/json"
	"net/http"
	"strconv"

	"airshield-sim/internal/config"
	"airshield-sim/internal/coverage"
	"airshield-sim/internal/sim"
	"airshield-sim/internal/threat"
)

type Server struct {
	Engine *sim.Engine
	Config *config.SimulationConfig
	mux    *http.ServeMux
}

func NewServer(engine *sim.Engine, cfg *config.SimulationConfig) *Server {
	s := &Server{Engine: engine, Config: cfg, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/snapshot", s.handleSnapshot)
	s.mux.HandleFunc("/counters", s.handleCounters)
	s.mux.HandleFunc("/units", s.handleUnits)
	s.mux.HandleFunc("/launch", s.handleLaunch)
	s.mux.HandleFunc("/reset", s.handleReset)
	s.mux.HandleFunc("/coverage", s.handleCoverage)
	s.mux.HandleFunc("/unit-active", s.handleUnitActive)
	s.mux.HandleFunc("/acceleration", s.handleAcceleration)
}

// Handler returns the server's routing handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves the admin API on addr, blocking until the listener fails.
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.Snapshot())
}

func (s *Server) handleCounters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.CountersNow())
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.Units())
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("archetype")
	arch, ok := threat.ArchetypeByName(name)
	if name != "" && !ok {
		http.Error(w, "unknown archetype", http.StatusBadRequest)
		return
	}
	if !ok {
		arch = threat.ArchetypeCruise
	}
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	if count <= 0 {
		count = 1
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, s.Engine.LaunchRandom(arch))
	}
	writeJSON(w, map[string]any{"launched": ids})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Engine.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	res := coverage.Evaluate(s.Engine.Units(), s.Config.Region, s.Config.BBox, s.Config.Cities, s.Config.CoverageSamples)
	writeJSON(w, res)
}

func (s *Server) handleUnitActive(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing unit id", http.StatusBadRequest)
		return
	}
	active, err := strconv.ParseBool(r.URL.Query().Get("active"))
	if err != nil {
		http.Error(w, "invalid active flag", http.StatusBadRequest)
		return
	}
	if !s.Engine.SetUnitActive(id, active) {
		http.Error(w, "unknown unit", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAcceleration(w http.ResponseWriter, r *http.Request) {
	factor, err := strconv.ParseFloat(r.URL.Query().Get("factor"), 64)
	if err != nil || factor <= 0 {
		http.Error(w, "invalid acceleration factor", http.StatusBadRequest)
		return
	}
	s.Engine.SetAcceleration(factor)
	w.WriteHeader(http.StatusNoContent)
}

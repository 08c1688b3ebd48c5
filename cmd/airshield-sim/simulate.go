package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"airshield-sim/internal/admin"
	"airshield-sim/internal/config"
	"airshield-sim/internal/geo"
	"airshield-sim/internal/logging"
	"airshield-sim/internal/scenario"
	"airshield-sim/internal/sim"
	"airshield-sim/internal/threat"
)

var (
	simPrintOnly   bool
	simTUI         bool
	simConfigPath  string
	simSchemaPath  string
	simTick        time.Duration
	simLaunchEvery time.Duration
	simArchetype   string
	simScenario    string
	simLogFile     string
	simAdminAddr   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time area-defense simulator",
	Long:  "simulate starts a kinematic threat simulation emitting track and defense-event logs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		logger := logging.New()
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		var writer sim.TrackWriter
		var eventWriter sim.EventWriter
		cleanup := func() {}
		var tui *sim.TUIWriter
		if simTUI {
			tui = sim.NewTUIWriter(cfg)
			writer, eventWriter = tui, tui
			cleanup = func() { tui.Close() }
		} else {
			writer, eventWriter, cleanup, err = newWriters(cfg, simPrintOnly, simLogFile)
			if err != nil {
				return err
			}
		}
		defer cleanup()

		runID := os.Getenv("RUN_ID")
		if runID == "" {
			runID = uuid.New().String()[:8]
		}

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		engine := sim.NewEngine(runID, cfg, writer, eventWriter, rand.New(rand.NewSource(time.Now().UnixNano())))

		if simAdminAddr != "" {
			srv := admin.NewServer(engine, cfg)
			go func() {
				logger.Info("admin API listening", "addr", simAdminAddr)
				if err := srv.Start(simAdminAddr); err != nil {
					logger.Error("admin server failed", "error", err)
				}
			}()
		}

		if tui != nil {
			go func() {
				t := time.NewTicker(time.Second)
				defer t.Stop()
				for {
					select {
					case <-t.C:
						tui.UpdateCounters(engine.CountersNow())
					case <-ctx.Done():
						return
					}
				}
			}()
		}

		if simScenario != "" {
			sc, err := loadScenario(simScenario)
			if err != nil {
				return err
			}
			player := scenario.NewPlayer(sc, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
			go engine.RunWithScript(ctx, tickInterval, func(simElapsed time.Duration) {
				player.Step(simElapsed, func(a threat.Archetype, start, target geo.Position) {
					engine.Launch(a, start, target)
				})
			})
		} else {
			go engine.RunWithLauncher(ctx, tickInterval, simLaunchEvery, simArchetype)
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		logger.Info("simulation stopped", "run_id", runID)
		return nil
	},
}

// loadScenario resolves a built-in name first, then a YAML path.
func loadScenario(name string) (*scenario.Scenario, error) {
	if sc, ok := scenario.BuiltIn()[name]; ok {
		return &sc, nil
	}
	if _, err := os.Stat(name); err != nil {
		return nil, fmt.Errorf("scenario %q: not a built-in and not a file", name)
	}
	return scenario.Load(name)
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print tracks to STDOUT instead of writing to DB")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render tracks in an interactive terminal UI")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Simulation tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().DurationVar(&simLaunchEvery, "launch-every", 15*time.Second, "Interval between random threat launches")
	simulateCmd.Flags().StringVar(&simArchetype, "archetype", "cruise", "Threat archetype for random launches")
	simulateCmd.Flags().StringVar(&simScenario, "scenario", "", "Built-in scenario name or YAML path for scripted waves")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export track/event logs (JSONL)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Admin API listen address (empty to disable)")
}

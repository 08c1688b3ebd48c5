package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"airshield-sim/internal/config"
	"airshield-sim/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
	replayConfig    string
	replaySchema    string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded track log",
	Long:  "replay feeds track rows from a JSONL log, plus any companion event log, back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		cfg, err := config.Load(replayConfig, replaySchema)
		if err != nil {
			return err
		}
		writer, eventWriter, cleanup, err := newWriters(cfg, replayPrintOnly, "")
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayLogFile(replayInput, writer, eventWriter, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to track log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print tracks to STDOUT instead of writing to DB")
	replayCmd.Flags().StringVar(&replayConfig, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	replayCmd.Flags().StringVar(&replaySchema, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	replayCmd.MarkFlagRequired("input")
}

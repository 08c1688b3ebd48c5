package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"airshield-sim/internal/batch"
	"airshield-sim/internal/config"
	"airshield-sim/internal/coverage"
	"airshield-sim/internal/logging"
	"airshield-sim/internal/report"
)

var (
	batchConfigPath string
	batchSchemaPath string
	batchRounds     int
	batchMissiles   int
	batchArchetype  string
	batchSeed       int64
	batchOut        string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run the statistical batch evaluator",
	Long:  "batch estimates detection and interception rates over many straight-line trials, without kinematics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(batchConfigPath, batchSchemaPath)
		if err != nil {
			return err
		}
		if batchRounds > 0 {
			cfg.BatchRounds = batchRounds
		}
		if batchMissiles > 0 {
			cfg.BatchMissiles = batchMissiles
		}
		if batchArchetype != "" {
			cfg.BatchArchetype = batchArchetype
		}

		logger := logging.New()
		ctx := logging.NewContext(context.Background(), logger)

		seed := batchSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rep := batch.Run(ctx, cfg, rand.New(rand.NewSource(seed)))
		cov := coverage.EvaluateConfig(cfg)

		if batchOut != "" {
			if err := report.SaveBatch(batchOut, rep, &cov); err != nil {
				return err
			}
			logger.Info("report written", "path", batchOut)
			return nil
		}
		return report.WriteBatch(os.Stdout, rep, &cov)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	batchCmd.Flags().StringVar(&batchSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	batchCmd.Flags().IntVar(&batchRounds, "rounds", 0, "Override configured round count")
	batchCmd.Flags().IntVar(&batchMissiles, "missiles", 0, "Override configured missiles per round")
	batchCmd.Flags().StringVar(&batchArchetype, "archetype", "", "Override configured threat archetype")
	batchCmd.Flags().Int64Var(&batchSeed, "seed", 0, "Random seed (0 for time-based)")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "Write the report to a file instead of STDOUT")
}

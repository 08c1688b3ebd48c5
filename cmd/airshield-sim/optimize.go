package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"airshield-sim/internal/config"
	"airshield-sim/internal/logging"
	"airshield-sim/internal/optimize"
)

var (
	optConfigPath   string
	optSchemaPath   string
	optIterations   int
	optSeed         int64
	optRadarsLocked bool
	optJSON         bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search for a better defense layout",
	Long:  "optimize hill-climbs over mutated layouts, keeping candidates that improve the coverage score.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(optConfigPath, optSchemaPath)
		if err != nil {
			return err
		}

		logger := logging.New()
		ctx := logging.NewContext(context.Background(), logger)

		seed := optSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		res := optimize.Run(ctx, cfg, rand.New(rand.NewSource(seed)), optIterations, optRadarsLocked)

		if optJSON {
			return json.NewEncoder(os.Stdout).Encode(res)
		}
		fmt.Printf("initial score: %.2f (land %.1f%%, cities %.1f%%)\n",
			res.Initial.Score(), res.Initial.CombinedLandPct, res.Initial.CombinedCityPct)
		fmt.Printf("best score:    %.2f (land %.1f%%, cities %.1f%%) after %d improvements\n",
			res.Best.Score(), res.Best.CombinedLandPct, res.Best.CombinedCityPct, res.Improvements)
		for _, u := range res.Units {
			fmt.Printf("  %-12s %-12s lat=%.4f lng=%.4f\n", u.ID, u.Role, u.Position.Lat, u.Position.Lng)
		}
		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	optimizeCmd.Flags().StringVar(&optSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	optimizeCmd.Flags().IntVar(&optIterations, "iterations", 500, "Number of mutation iterations")
	optimizeCmd.Flags().Int64Var(&optSeed, "seed", 0, "Random seed (0 for time-based)")
	optimizeCmd.Flags().BoolVar(&optRadarsLocked, "lock-radars", false, "Keep radar positions fixed during low-entropy search")
	optimizeCmd.Flags().BoolVar(&optJSON, "json", false, "Emit the result as JSON")
}

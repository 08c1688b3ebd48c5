package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"airshield-sim/internal/config"
	"airshield-sim/internal/coverage"
)

var (
	covConfigPath string
	covSchemaPath string
	covSamples    int
	covJSON       bool
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Score the configured defense layout",
	Long:  "coverage samples a grid over the region and reports radar and interceptor coverage percentages.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(covConfigPath, covSchemaPath)
		if err != nil {
			return err
		}
		if covSamples > 0 {
			cfg.CoverageSamples = covSamples
		}
		res := coverage.EvaluateConfig(cfg)
		if covJSON {
			return json.NewEncoder(os.Stdout).Encode(res)
		}
		fmt.Printf("grid:              %dx%d\n", res.GridSide, res.GridSide)
		fmt.Printf("combined land:     %.1f%%\n", res.CombinedLandPct)
		fmt.Printf("combined cities:   %.1f%%\n", res.CombinedCityPct)
		fmt.Printf("combined sea:      %.1f%%\n", res.CombinedSeaPct)
		fmt.Printf("radar land:        %.1f%%\n", res.RadarLandPct)
		fmt.Printf("interceptor land:  %.1f%%\n", res.InterceptorLandPct)
		fmt.Printf("score:             %.2f\n", res.Score())
		return nil
	},
}

func init() {
	coverageCmd.Flags().StringVar(&covConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	coverageCmd.Flags().StringVar(&covSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	coverageCmd.Flags().IntVar(&covSamples, "samples", 0, "Override configured grid sample count")
	coverageCmd.Flags().BoolVar(&covJSON, "json", false, "Emit the result as JSON")
}

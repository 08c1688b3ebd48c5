package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "airshield-sim",
	Short: "Area-defense simulation toolkit",
	Long:  "airshield-sim simulates threats against a defended region, scores layouts, and replays recorded runs.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(coverageCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(replayCmd)
}

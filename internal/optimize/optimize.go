// Package optimize searches for better defense layouts by greedy
// hill-climbing over the coverage score.
package optimize

import (
	"context"
	"math/rand"

	"airshield-sim/internal/config"
	"airshield-sim/internal/coverage"
	"airshield-sim/internal/defense"
	"airshield-sim/internal/logging"
	"airshield-sim/internal/mutate"
)

// After this many rejected candidates in a row the search switches to
// high-entropy mutation to climb out of the local optimum.
const stallLimit = 25

// Result is the outcome of a search run.
type Result struct {
	Units        []defense.Unit  `json:"units"`
	Initial      coverage.Result `json:"initial"`
	Best         coverage.Result `json:"best"`
	Iterations   int             `json:"iterations"`
	Improvements int             `json:"improvements"`
}

// Run mutates the configured layout for the given number of iterations,
// keeping a candidate only when its coverage score improves. The search is
// deterministic for a fixed rand source.
func Run(ctx context.Context, cfg *config.SimulationConfig, rnd *rand.Rand, iterations int, radarsLocked bool) Result {
	logger := logging.FromContext(ctx)

	best := cfg.DefenseUnits()
	initial := coverage.Evaluate(best, cfg.Region, cfg.BBox, cfg.Cities, cfg.CoverageSamples)
	bestResult := initial

	res := Result{Initial: initial, Iterations: iterations}
	stall := 0
	for i := 0; i < iterations; i++ {
		entropy := mutate.EntropyLow
		if stall >= stallLimit {
			entropy = mutate.EntropyHigh
		}
		candidate := mutate.Mutate(rnd, best, cfg.BBox, mutate.Options{
			Entropy:      entropy,
			RadarsLocked: radarsLocked,
		})
		score := coverage.Evaluate(candidate, cfg.Region, cfg.BBox, cfg.Cities, cfg.CoverageSamples)
		if score.Score() > bestResult.Score() {
			best = candidate
			bestResult = score
			res.Improvements++
			stall = 0
			logger.Debug("layout improved",
				"iteration", i,
				"score", score.Score(),
				"combined_land_pct", score.CombinedLandPct)
		} else {
			stall++
		}
	}

	res.Units = best
	res.Best = bestResult
	logger.Info("optimization finished",
		"iterations", iterations,
		"improvements", res.Improvements,
		"initial_score", initial.Score(),
		"best_score", bestResult.Score())
	return res
}

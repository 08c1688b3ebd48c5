// Package batch estimates defense outcomes over many synthetic trials
// without time-stepped kinematics.
package batch

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"airshield-sim/internal/config"
	"airshield-sim/internal/defense"
	"airshield-sim/internal/geo"
	"airshield-sim/internal/logging"
	"airshield-sim/internal/threat"
)

const (
	// An interceptor needs a clear speed advantage before the coarse
	// segment model counts a trial as intercepted.
	feasibilityRatio = 2.0

	borderOffsetDeg = 0.3

	// Destinations lean toward cities; the remainder strikes a uniform
	// interior point.
	cityBias = 0.8

	// Only a periodic subset of trial lines is retained.
	logSampleEvery = 100
	logSampleMax   = 200
)

// Report aggregates the outcome of a batch run.
type Report struct {
	Rounds        int           `json:"rounds"`
	PerRound      int           `json:"per_round"`
	Launched      int           `json:"launched"`
	Detected      int           `json:"detected"`
	Intercepted   int           `json:"intercepted"`
	Impacted      int           `json:"impacted"`
	DetectionRate float64       `json:"detection_rate"`
	Archetype     string        `json:"archetype"`
	Elapsed       time.Duration `json:"elapsed"`
	LogSample     []string      `json:"log_sample"`
}

// Run evaluates rounds x missiles-per-round straight-line trials against
// the configured layout. Origins cross a random box edge; destinations
// favor weighted cities. Detection and interception use the segment
// distance query, so cost stays linear in the trial count.
func Run(ctx context.Context, cfg *config.SimulationConfig, rnd *rand.Rand) Report {
	logger := logging.FromContext(ctx)
	start := time.Now()

	arch, ok := threat.ArchetypeByName(cfg.BatchArchetype)
	if !ok {
		arch = threat.ArchetypeCruise
	}
	speed := arch.Speed(cfg.BaseSpeed)

	units := cfg.DefenseUnits()
	radars := defense.Radars(units)
	var fastInterceptors []defense.Unit
	for _, u := range defense.Interceptors(units) {
		if u.ShotSpeed/speed > feasibilityRatio {
			fastInterceptors = append(fastInterceptors, u)
		}
	}

	rep := Report{
		Rounds:    cfg.BatchRounds,
		PerRound:  cfg.BatchMissiles,
		Archetype: arch.Name,
	}
	trial := 0
	for round := 0; round < cfg.BatchRounds; round++ {
		for m := 0; m < cfg.BatchMissiles; m++ {
			trial++
			origin := cfg.BBox.RandomEdge(rnd, borderOffsetDeg)
			target := pickTarget(rnd, cfg)

			rep.Launched++
			detected := defense.SegmentCovered(radars, origin, target)
			intercepted := false
			if detected {
				rep.Detected++
				intercepted = defense.SegmentCovered(fastInterceptors, origin, target)
			}
			if intercepted {
				rep.Intercepted++
			} else {
				rep.Impacted++
			}

			if trial%logSampleEvery == 0 && len(rep.LogSample) < logSampleMax {
				rep.LogSample = append(rep.LogSample, fmt.Sprintf(
					"trial %d: origin=(%.3f,%.3f) target=(%.3f,%.3f) detected=%t intercepted=%t",
					trial, origin.Lat, origin.Lng, target.Lat, target.Lng, detected, intercepted))
			}
		}
	}

	if rep.Launched > 0 {
		rep.DetectionRate = float64(rep.Detected) / float64(rep.Launched)
	}
	rep.Elapsed = time.Since(start)
	logger.Info("batch run complete",
		"launched", rep.Launched,
		"detected", rep.Detected,
		"intercepted", rep.Intercepted,
		"impacted", rep.Impacted,
		"elapsed", rep.Elapsed)
	return rep
}

func pickTarget(rnd *rand.Rand, cfg *config.SimulationConfig) geo.Position {
	if rnd.Float64() < cityBias {
		if c, ok := config.WeightedCity(rnd, cfg.Cities); ok {
			return c.Position()
		}
	}
	return cfg.BBox.RandomIn(rnd)
}

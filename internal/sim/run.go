package sim

import (
	"context"
	"time"

	"airshield-sim/internal/logging"
	"airshield-sim/internal/threat"
)

func archetypeOrDefault(name string) (threat.Archetype, bool) {
	if a, ok := threat.ArchetypeByName(name); ok {
		return a, true
	}
	return threat.ArchetypeCruise, false
}

// Run starts the simulation loop and stops when the context is done. The
// ticker plays the role of the display clock: each firing supplies the
// elapsed wall time for one Tick. Cancelling the context stops the loop
// before the pending tick fires again.
func (e *Engine) Run(ctx context.Context, tickInterval time.Duration) {
	log := logging.FromContext(ctx)
	log.Info("starting engine", "tick_interval", tickInterval)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	last := e.now()
	for {
		select {
		case <-ticker.C:
			now := e.now()
			e.Tick(now.Sub(last))
			last = now
		case <-ctx.Done():
			log.Info("stopping engine")
			return
		}
	}
}

// RunWithScript runs the loop and calls script with the cumulative
// simulated time before each tick, letting a scenario player fire waves
// on schedule.
func (e *Engine) RunWithScript(ctx context.Context, tickInterval time.Duration, script func(simElapsed time.Duration)) {
	log := logging.FromContext(ctx)
	log.Info("starting scripted engine", "tick_interval", tickInterval)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	last := e.now()
	var simElapsed time.Duration
	for {
		select {
		case <-ticker.C:
			now := e.now()
			elapsed := now.Sub(last)
			e.mu.Lock()
			accel := e.accel
			e.mu.Unlock()
			simElapsed += time.Duration(float64(elapsed) * accel)
			script(simElapsed)
			e.Tick(elapsed)
			last = now
		case <-ctx.Done():
			log.Info("stopping engine")
			return
		}
	}
}

// RunWithLauncher runs the loop and additionally launches a random threat
// of the given archetype every launchEvery interval. Used by the simulate
// command when no scenario script is supplied.
func (e *Engine) RunWithLauncher(ctx context.Context, tickInterval, launchEvery time.Duration, archetype string) {
	log := logging.FromContext(ctx)
	arch, ok := archetypeOrDefault(archetype)
	if !ok {
		log.Warn("unknown archetype, using cruise", "archetype", archetype)
	}
	launcher := time.NewTicker(launchEvery)
	defer launcher.Stop()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	last := e.now()
	for {
		select {
		case <-launcher.C:
			e.LaunchRandom(arch)
		case <-ticker.C:
			now := e.now()
			e.Tick(now.Sub(last))
			last = now
		case <-ctx.Done():
			log.Info("stopping engine")
			return
		}
	}
}

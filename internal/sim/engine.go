// Kinematic engine orchestrating threats, interceptors, and event writers
package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"airshield-sim/internal/config"
	"airshield-sim/internal/defense"
	"airshield-sim/internal/geo"
	"airshield-sim/internal/threat"
)

// TrackWriter is an interface to support different output writers.
type TrackWriter interface {
	Write(TrackRow) error
}

// EventWriter handles defense events (detection, lock, intercept, impact).
type EventWriter interface {
	WriteEvent(EventRow) error
}

// Optional: writers can also support batch mode.
type batchTrackWriter interface {
	WriteBatch([]TrackRow) error
}

type batchEventWriter interface {
	WriteEvents([]EventRow) error
}

// Calibration constants. The kill and impact radii follow the shape
// base + acceleration term + speed term; the coefficients are tuning
// values, not physics.
const (
	subStepFactor = 0.5
	subStepCap    = 48

	killRadiusBaseM  = 1500.0
	killRadiusAccelM = 120.0
	killRadiusSpeedM = 60000.0

	impactRadiusBaseM  = 1000.0
	impactRadiusAccelM = 80.0

	explosionTTL  = 3 * time.Second
	maxLogEntries = 500

	// Degrees outside the bounding box for random border crossings.
	borderOffsetDeg = 0.3
)

func killRadiusM(accel, speed float64) float64 {
	return killRadiusBaseM + killRadiusAccelM*accel + killRadiusSpeedM*speed
}

func impactRadiusM(accel float64) float64 {
	return impactRadiusBaseM + impactRadiusAccelM*accel
}

// LogEntry is one structured engine log record.
type LogEntry struct {
	Timestamp time.Time `json:"ts"`
	Severity  Severity  `json:"severity"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
}

// Engine runs the time-stepped simulation. All mutation happens under one
// mutex; each tick builds the next threat collection from the previous
// one instead of patching entries in place.
type Engine struct {
	runID       string
	units       []defense.Unit
	cities      []config.City
	bbox        geo.BoundingBox
	baseSpeed   float64
	accel       float64
	writer      TrackWriter
	eventWriter EventWriter

	threats    []threat.Threat
	explosions []Explosion
	logs       []LogEntry
	counters   Counters

	rand *rand.Rand
	now  func() time.Time
	mu   sync.Mutex
}

// NewEngine initializes an engine from configuration. Writers may be nil.
func NewEngine(runID string, cfg *config.SimulationConfig, writer TrackWriter, eventWriter EventWriter, rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	accel := cfg.Acceleration
	if accel <= 0 {
		accel = 1
	}
	return &Engine{
		runID:       runID,
		units:       cfg.DefenseUnits(),
		cities:      cfg.Cities,
		bbox:        cfg.BBox,
		baseSpeed:   cfg.BaseSpeed,
		accel:       accel,
		writer:      writer,
		eventWriter: eventWriter,
		rand:        rnd,
		now:         time.Now,
	}
}

// Launch adds a new threat flying from start to target.
func (e *Engine) Launch(a threat.Archetype, start, target geo.Position) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.launch(a, start, target)
}

// LaunchRandom launches a threat from a random border crossing toward a
// weighted city, or occasionally a random interior point.
func (e *Engine) LaunchRandom(a threat.Archetype) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := e.bbox.RandomEdge(e.rand, borderOffsetDeg)
	target := randomTarget(e.rand, e.cities, e.bbox)
	return e.launch(a, start, target)
}

func (e *Engine) launch(a threat.Archetype, start, target geo.Position) string {
	th := threat.Threat{
		ID:       uuid.New().String(),
		Start:    start,
		Target:   target,
		Position: start,
		Status:   threat.StatusMoving,
		Speed:    a.Speed(e.baseSpeed),
	}
	e.threats = append(e.threats, th)
	e.counters.Launched++
	e.logEvent(EventLaunch, SeverityInfo, th, "", fmt.Sprintf("threat %s launched (%s)", shortID(th.ID), a.Name))
	return th.ID
}

// Tick advances the simulation by elapsed wall time scaled by the
// acceleration factor.
func (e *Engine) Tick(elapsed time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dt := elapsed.Seconds() * e.accel
	if dt <= 0 {
		return
	}
	// Subdivide the tick so high acceleration cannot tunnel threats
	// through the kill and impact thresholds. The cap bounds worst-case
	// per-tick work no matter how large the factor is.
	n := int(math.Ceil(e.accel * subStepFactor))
	if n < 1 {
		n = 1
	}
	if n > subStepCap {
		n = subStepCap
	}
	sub := dt / float64(n)

	radars := defense.Radars(e.units)
	interceptors := defense.BySpeedDesc(defense.Interceptors(e.units))

	next := make([]threat.Threat, 0, len(e.threats))
	var rows []TrackRow
	ts := e.now().UTC()
	for _, th := range e.threats {
		for i := 0; i < n && !th.Terminal(); i++ {
			th = e.advance(th, sub, radars, interceptors)
		}
		next = append(next, th)
		rows = append(rows, trackRow(e.runID, th, ts))
	}
	e.threats = next
	e.pruneExplosions(ts)
	e.writeRows(rows)
}

// advance moves one threat through one sub-step and resolves detection,
// assignment, pursuit, kill, and impact. It operates on a copy and
// returns the updated value.
func (e *Engine) advance(th threat.Threat, dt float64, radars, interceptors []defense.Unit) threat.Threat {
	v := headingVelocity(th.Start, th.Target, th.Speed)
	th.Position = stepToward(th.Position, th.Target, th.Speed, dt)

	// Detection is sticky: the first radar that covers the threat stays
	// recorded. Re-checking each step would be idempotent, so the guard
	// is just a shortcut.
	if th.DetectedBy == "" {
		for _, r := range radars {
			if geo.DistanceMeters(th.Position, r.Position) <= r.RangeMeters() {
				th.DetectedBy = r.ID
				e.logEvent(EventDetected, SeverityWarn, th, r.ID,
					fmt.Sprintf("radar %s detected threat %s", r.ID, shortID(th.ID)))
				break
			}
		}
	}

	// Interceptor assignment: fastest feasible interceptor wins and the
	// binding is final. Failing candidates are simply skipped; an
	// unbound threat is retried next step.
	if th.DetectedBy != "" && !th.Bound() {
		for _, ic := range interceptors {
			t, point, ok := solveIntercept(th.Position, v, ic.Position, ic.ShotSpeed)
			if !ok || t < 0 {
				continue
			}
			if geo.DistanceMeters(point, ic.Position) > ic.RangeMeters() {
				continue
			}
			base := ic.Position
			th.InterceptorID = ic.ID
			th.InterceptorPos = &base
			th.PredictedIntercept = &point
			e.logEvent(EventLock, SeverityWarn, th, ic.ID,
				fmt.Sprintf("interceptor %s locked on threat %s", ic.ID, shortID(th.ID)))
			break
		}
	}

	// Pursuit: chase the current predicted intercept point, refreshed
	// from the interceptor's present position each sub-step.
	if th.Bound() && th.InterceptorPos != nil {
		shotSpeed := e.shotSpeed(th.InterceptorID)
		if t, point, ok := solveIntercept(th.Position, v, *th.InterceptorPos, shotSpeed); ok && t >= 0 {
			th.PredictedIntercept = &point
		}
		if th.PredictedIntercept != nil {
			p := stepToward(*th.InterceptorPos, *th.PredictedIntercept, shotSpeed, dt)
			th.InterceptorPos = &p
		}

		if geo.DistanceMeters(*th.InterceptorPos, th.Position) <= killRadiusM(e.accel, th.Speed) {
			th.Status = threat.StatusIntercepted
			e.counters.Intercepted++
			e.addExplosion(EventIntercept, th.Position)
			e.logEvent(EventIntercept, SeverityInfo, th, th.InterceptorID,
				fmt.Sprintf("threat %s intercepted by %s", shortID(th.ID), th.InterceptorID))
			return th
		}
	}

	// Impact is checked regardless of any interception attempt.
	if geo.DistanceMeters(th.Position, th.Target) <= impactRadiusM(e.accel) {
		th.Status = threat.StatusImpacted
		th.Position = th.Target
		e.counters.Impacted++
		e.addExplosion(EventImpact, th.Position)
		e.logEvent(EventImpact, SeverityAlert, th, "",
			fmt.Sprintf("threat %s impacted target", shortID(th.ID)))
	}
	return th
}

func (e *Engine) shotSpeed(unitID string) float64 {
	for _, u := range e.units {
		if u.ID == unitID {
			return u.ShotSpeed
		}
	}
	return 0
}

func (e *Engine) addExplosion(kind string, p geo.Position) {
	e.explosions = append(e.explosions, Explosion{
		ID:        uuid.New().String(),
		Kind:      kind,
		Position:  p,
		ExpiresAt: e.now().Add(explosionTTL),
	})
}

func (e *Engine) pruneExplosions(ts time.Time) {
	var keep []Explosion
	for _, ex := range e.explosions {
		if ex.ExpiresAt.After(ts) {
			keep = append(keep, ex)
		}
	}
	e.explosions = keep
}

func (e *Engine) logEvent(kind string, sev Severity, th threat.Threat, unitID, msg string) {
	ts := e.now().UTC()
	e.logs = append(e.logs, LogEntry{Timestamp: ts, Severity: sev, Kind: kind, Message: msg})
	if len(e.logs) > maxLogEntries {
		e.logs = e.logs[len(e.logs)-maxLogEntries:]
	}
	if e.eventWriter == nil {
		return
	}
	row := EventRow{
		RunID:     e.runID,
		Kind:      kind,
		Severity:  sev,
		ThreatID:  th.ID,
		UnitID:    unitID,
		Lat:       th.Position.Lat,
		Lng:       th.Position.Lng,
		Message:   msg,
		Timestamp: ts,
	}
	_ = e.eventWriter.WriteEvent(row)
}

func (e *Engine) writeRows(rows []TrackRow) {
	if e.writer == nil || len(rows) == 0 {
		return
	}
	if bw, ok := e.writer.(batchTrackWriter); ok {
		_ = bw.WriteBatch(rows)
		return
	}
	for _, r := range rows {
		_ = e.writer.Write(r)
	}
}

// Snapshot returns a copy of the current threats, unexpired explosions,
// and counters.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	threats := make([]threat.Threat, len(e.threats))
	copy(threats, e.threats)
	explosions := make([]Explosion, len(e.explosions))
	copy(explosions, e.explosions)
	return Snapshot{Threats: threats, Explosions: explosions, Counters: e.counters}
}

// Logs returns a copy of the retained log entries.
func (e *Engine) Logs() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	logs := make([]LogEntry, len(e.logs))
	copy(logs, e.logs)
	return logs
}

// CountersNow returns the current counters.
func (e *Engine) CountersNow() Counters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counters
}

// Units returns a copy of the current defense layout.
func (e *Engine) Units() []defense.Unit {
	e.mu.Lock()
	defer e.mu.Unlock()
	units := make([]defense.Unit, len(e.units))
	copy(units, e.units)
	return units
}

// SetUnits replaces the defense layout wholesale.
func (e *Engine) SetUnits(units []defense.Unit) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := make([]defense.Unit, len(units))
	copy(next, units)
	e.units = next
}

// SetUnitActive toggles one unit's participation. It reports whether the
// id was known.
func (e *Engine) SetUnitActive(id string, active bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := make([]defense.Unit, len(e.units))
	copy(next, e.units)
	found := false
	for i := range next {
		if next[i].ID == id {
			next[i].Active = active
			found = true
		}
	}
	e.units = next
	return found
}

// SetAcceleration updates the time-acceleration factor.
func (e *Engine) SetAcceleration(accel float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if accel > 0 {
		e.accel = accel
	}
}

// Reset performs a hard reset: all threats, explosions, logs, and
// counters are dropped.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.threats = nil
	e.explosions = nil
	e.logs = nil
	e.counters = Counters{}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// randomTarget prefers weighted cities and occasionally picks a uniform
// interior point.
func randomTarget(r *rand.Rand, cities []config.City, bbox geo.BoundingBox) geo.Position {
	const cityBias = 0.8
	if r.Float64() < cityBias {
		if c, ok := config.WeightedCity(r, cities); ok {
			return c.Position()
		}
	}
	return bbox.RandomIn(r)
}

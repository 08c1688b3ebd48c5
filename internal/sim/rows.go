// Track and event rows with greptime tags
package sim

import (
	"os"
	"time"

	"airshield-sim/internal/geo"
	"airshield-sim/internal/threat"
)

// TrackRow represents one threat track sample for GreptimeDB.
type TrackRow struct {
	RunID          string    `json:"run_id"`    // TAG
	ThreatID       string    `json:"threat_id"` // TAG
	Lat            float64   `json:"lat"`       // FIELD
	Lng            float64   `json:"lng"`       // FIELD
	Status         string    `json:"status"`    // FIELD
	Speed          float64   `json:"speed"`     // FIELD
	DetectedBy     string    `json:"detected_by"`
	InterceptorID  string    `json:"interceptor_id"`
	InterceptorLat float64   `json:"interceptor_lat"`
	InterceptorLng float64   `json:"interceptor_lng"`
	Timestamp      time.Time `json:"ts"` // TIME INDEX
}

// TrackTableName holds the table name used when writing to GreptimeDB.
// It defaults to "threat_track" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var TrackTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "threat_track"
}()

func (TrackRow) TableName() string {
	return TrackTableName
}

// Severity tags a defense event for the display layer.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityAlert Severity = "alert"
)

// Event kinds emitted by the engine. Message text rendering for display
// languages is an external concern; consumers key off Kind and the ids.
const (
	EventLaunch    = "launch"
	EventDetected  = "detected"
	EventLock      = "lock"
	EventIntercept = "intercept"
	EventImpact    = "impact"
)

// EventRow describes one defense event (detection, lock-on, intercept,
// impact) for writers.
type EventRow struct {
	RunID     string    `json:"run_id"`
	Kind      string    `json:"kind"`
	Severity  Severity  `json:"severity"`
	ThreatID  string    `json:"threat_id"`
	UnitID    string    `json:"unit_id,omitempty"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"ts"`
}

// EventTableName is the GreptimeDB table for defense events, overridable
// via DEFENSE_EVENT_TABLE.
var EventTableName = func() string {
	if env := os.Getenv("DEFENSE_EVENT_TABLE"); env != "" {
		return env
	}
	return "defense_event"
}()

func (EventRow) TableName() string {
	return EventTableName
}

// Counters aggregates run totals. Launched always equals Intercepted +
// Impacted + currently moving threats.
type Counters struct {
	Launched    int `json:"launched"`
	Intercepted int `json:"intercepted"`
	Impacted    int `json:"impacted"`
}

// Explosion is a transient display marker with a fixed time to live. It is
// never used in further computation.
type Explosion struct {
	ID        string       `json:"id"`
	Kind      string       `json:"kind"` // intercept or impact
	Position  geo.Position `json:"position"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Snapshot is a per-tick copy of engine state for the display layer.
type Snapshot struct {
	Threats    []threat.Threat `json:"threats"`
	Explosions []Explosion     `json:"explosions"`
	Counters   Counters        `json:"counters"`
}

func trackRow(runID string, th threat.Threat, ts time.Time) TrackRow {
	row := TrackRow{
		RunID:         runID,
		ThreatID:      th.ID,
		Lat:           th.Position.Lat,
		Lng:           th.Position.Lng,
		Status:        string(th.Status),
		Speed:         th.Speed,
		DetectedBy:    th.DetectedBy,
		InterceptorID: th.InterceptorID,
		Timestamp:     ts,
	}
	if th.InterceptorPos != nil {
		row.InterceptorLat = th.InterceptorPos.Lat
		row.InterceptorLng = th.InterceptorPos.Lng
	}
	return row
}

package sim

import (
	"context"
	"log"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// GreptimeDBWriter writes threat tracks and defense events to GreptimeDB
// via the ingester client.
type GreptimeDBWriter struct {
	client     greptime.Client
	db         string
	trackTable string
	eventTable string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer and auto-creates
// the tables if needed.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	trackDDL := `
CREATE TABLE IF NOT EXISTS ` + TrackTableName + ` (
  run_id STRING TAG,
  threat_id STRING TAG,
  lat DOUBLE,
  lng DOUBLE,
  status STRING,
  speed DOUBLE,
  detected_by STRING,
  interceptor_id STRING,
  interceptor_lat DOUBLE,
  interceptor_lng DOUBLE,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, trackDDL); err != nil {
		return nil, err
	}

	eventDDL := `
CREATE TABLE IF NOT EXISTS ` + EventTableName + ` (
  run_id STRING TAG,
  kind STRING TAG,
  severity STRING,
  threat_id STRING,
  unit_id STRING,
  lat DOUBLE,
  lng DOUBLE,
  message STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, eventDDL); err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client:     client,
		db:         database,
		trackTable: TrackTableName,
		eventTable: EventTableName,
	}, nil
}

// Write inserts a single track row.
func (w *GreptimeDBWriter) Write(row TrackRow) error {
	return w.WriteBatch([]TrackRow{row})
}

// WriteBatch inserts multiple track rows.
func (w *GreptimeDBWriter) WriteBatch(rows []TrackRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.trackTable)
	tbl.AddTagColumn("run_id", types.StringType, 0)
	tbl.AddTagColumn("threat_id", types.StringType, 0)
	tbl.AddFieldColumn("lat", types.Float64Type)
	tbl.AddFieldColumn("lng", types.Float64Type)
	tbl.AddFieldColumn("status", types.StringType)
	tbl.AddFieldColumn("speed", types.Float64Type)
	tbl.AddFieldColumn("detected_by", types.StringType)
	tbl.AddFieldColumn("interceptor_id", types.StringType)
	tbl.AddFieldColumn("interceptor_lat", types.Float64Type)
	tbl.AddFieldColumn("interceptor_lng", types.Float64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("run_id", r.RunID)
		tbl.AppendTagValue("threat_id", r.ThreatID)
		tbl.AppendFieldValue("lat", r.Lat)
		tbl.AppendFieldValue("lng", r.Lng)
		tbl.AppendFieldValue("status", r.Status)
		tbl.AppendFieldValue("speed", r.Speed)
		tbl.AppendFieldValue("detected_by", r.DetectedBy)
		tbl.AppendFieldValue("interceptor_id", r.InterceptorID)
		tbl.AppendFieldValue("interceptor_lat", r.InterceptorLat)
		tbl.AppendFieldValue("interceptor_lng", r.InterceptorLng)
		tbl.AppendTimeIndex(r.Timestamp)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] track write failed: %v", err)
		return err
	}
	return nil
}

// WriteEvent inserts a single defense event.
func (w *GreptimeDBWriter) WriteEvent(row EventRow) error {
	return w.WriteEvents([]EventRow{row})
}

// WriteEvents inserts multiple defense events.
func (w *GreptimeDBWriter) WriteEvents(rows []EventRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.eventTable)
	tbl.AddTagColumn("run_id", types.StringType, 0)
	tbl.AddTagColumn("kind", types.StringType, 0)
	tbl.AddFieldColumn("severity", types.StringType)
	tbl.AddFieldColumn("threat_id", types.StringType)
	tbl.AddFieldColumn("unit_id", types.StringType)
	tbl.AddFieldColumn("lat", types.Float64Type)
	tbl.AddFieldColumn("lng", types.Float64Type)
	tbl.AddFieldColumn("message", types.StringType)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("run_id", r.RunID)
		tbl.AppendTagValue("kind", r.Kind)
		tbl.AppendFieldValue("severity", string(r.Severity))
		tbl.AppendFieldValue("threat_id", r.ThreatID)
		tbl.AppendFieldValue("unit_id", r.UnitID)
		tbl.AppendFieldValue("lat", r.Lat)
		tbl.AppendFieldValue("lng", r.Lng)
		tbl.AppendFieldValue("message", r.Message)
		tbl.AppendTimeIndex(r.Timestamp)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] event write failed: %v", err)
		return err
	}
	return nil
}

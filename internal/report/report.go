// Package report renders batch and coverage results into readable text.
package report

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"airshield-sim/internal/batch"
	"airshield-sim/internal/coverage"
)

const batchTemplate = `BATCH EVALUATION {{.Report.Archetype}}
=================================

Rounds:            {{.Report.Rounds}} x {{.Report.PerRound}} missiles
Launched:          {{.Report.Launched}}
Detected:          {{.Report.Detected}} ({{printf "%.1f" .DetectionPct}}%)
Intercepted:       {{.Report.Intercepted}}
Impacted:          {{.Report.Impacted}}
Elapsed:           {{.Report.Elapsed}}
{{if .Coverage}}
COVERAGE
--------
Combined land:     {{printf "%.1f" .Coverage.CombinedLandPct}}%
Combined cities:   {{printf "%.1f" .Coverage.CombinedCityPct}}%
Combined sea:      {{printf "%.1f" .Coverage.CombinedSeaPct}}%
Radar land:        {{printf "%.1f" .Coverage.RadarLandPct}}%
Interceptor land:  {{printf "%.1f" .Coverage.InterceptorLandPct}}%
{{end}}{{if .Report.LogSample}}
SAMPLED TRIALS
--------------
{{range .Report.LogSample}}{{.}}
{{end}}{{end}}`

type batchData struct {
	Report       batch.Report
	Coverage     *coverage.Result
	DetectionPct float64
}

// WriteBatch renders a batch report, with an optional coverage section, to w.
func WriteBatch(w io.Writer, rep batch.Report, cov *coverage.Result) error {
	t, err := template.New("batch").Parse(batchTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}
	return t.Execute(w, batchData{
		Report:       rep,
		Coverage:     cov,
		DetectionPct: rep.DetectionRate * 100,
	})
}

// SaveBatch writes the rendered report to a file.
func SaveBatch(path string, rep batch.Report, cov *coverage.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteBatch(f, rep, cov); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

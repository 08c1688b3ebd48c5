package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"airshield-sim/internal/batch"
	"airshield-sim/internal/coverage"
)

func sampleReport() batch.Report {
	return batch.Report{
		Rounds:        10,
		PerRound:      5,
		Launched:      50,
		Detected:      40,
		Intercepted:   30,
		Impacted:      20,
		DetectionRate: 0.8,
		Archetype:     "cruise",
		Elapsed:       120 * time.Millisecond,
		LogSample:     []string{"trial 100: detected=true intercepted=true"},
	}
}

func TestWriteBatch(t *testing.T) {
	var sb strings.Builder
	cov := &coverage.Result{CombinedLandPct: 72.5, CombinedCityPct: 90}
	if err := WriteBatch(&sb, sampleReport(), cov); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		"BATCH EVALUATION cruise",
		"Launched:          50",
		"(80.0%)",
		"Combined land:     72.5%",
		"trial 100",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteBatch_NoCoverage(t *testing.T) {
	var sb strings.Builder
	if err := WriteBatch(&sb, sampleReport(), nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(sb.String(), "COVERAGE") {
		t.Fatalf("coverage section rendered without data")
	}
}

func TestSaveBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := SaveBatch(path, sampleReport(), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "Intercepted:       30") {
		t.Fatalf("file missing rendered content:\n%s", b)
	}
}

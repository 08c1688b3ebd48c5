// ColorStdoutWriter prints human-friendly, colorized track output to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"airshield-sim/internal/config"
	"airshield-sim/internal/threat"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints track rows using ANSI colors. Colors are
// disabled automatically when STDOUT is not a terminal.
type ColorStdoutWriter struct {
	cfg   *config.SimulationConfig
	out   io.Writer
	once  sync.Once
	color bool
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.SimulationConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		cfg:   cfg,
		out:   os.Stdout,
		color: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (w *ColorStdoutWriter) paint(color, s string) string {
	if !w.color {
		return s
	}
	return color + s + colorReset
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, "Simulation Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Acceleration:\t%.1f\n", w.cfg.Acceleration)
	fmt.Fprintf(tw, "Base Speed:\t%.4f\n", w.cfg.BaseSpeed)
	fmt.Fprintf(tw, "Archetype:\t%s\n", w.cfg.Archetype)
	fmt.Fprintf(tw, "Units:\t%d\n", len(w.cfg.Units))
	fmt.Fprintf(tw, "Cities:\t%d\n", len(w.cfg.Cities))
	tw.Flush()
	fmt.Fprintln(w.out)
}

func (w *ColorStdoutWriter) statusColor(status string) string {
	switch threat.Status(status) {
	case threat.StatusIntercepted:
		return colorGreen
	case threat.StatusImpacted:
		return colorRed
	default:
		return colorCyan
	}
}

// Write outputs a single track row in colorized format.
func (w *ColorStdoutWriter) Write(row TrackRow) error {
	w.once.Do(w.printOverview)
	line := fmt.Sprintf("%s %s %s %s %s",
		w.paint(colorGray, "["+row.Timestamp.Format(time.RFC3339)+"]"),
		w.paint(colorBlue, "threat="+shortID(row.ThreatID)),
		w.paint(colorYellow, fmt.Sprintf("lat=%.4f lng=%.4f", row.Lat, row.Lng)),
		w.paint(colorMagenta, fmt.Sprintf("spd=%.4f", row.Speed)),
		w.paint(w.statusColor(row.Status), "status="+row.Status),
	)
	if row.DetectedBy != "" {
		line += " " + w.paint(colorCyan, "radar="+row.DetectedBy)
	}
	if row.InterceptorID != "" {
		line += " " + w.paint(colorGreen, "interceptor="+row.InterceptorID)
	}
	fmt.Fprintln(w.out, line)
	return nil
}

// WriteBatch outputs multiple track rows.
func (w *ColorStdoutWriter) WriteBatch(rows []TrackRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent outputs a defense event in colorized format.
func (w *ColorStdoutWriter) WriteEvent(row EventRow) error {
	w.once.Do(w.printOverview)
	sevColor := colorGray
	switch row.Severity {
	case SeverityWarn:
		sevColor = colorYellow
	case SeverityAlert:
		sevColor = colorRed
	}
	fmt.Fprintf(w.out, "%s %s %s\n",
		w.paint(colorGray, "["+row.Timestamp.Format(time.RFC3339)+"]"),
		w.paint(sevColor, row.Kind),
		row.Message,
	)
	return nil
}

// WriteEvents outputs multiple defense events.
func (w *ColorStdoutWriter) WriteEvents(rows []EventRow) error {
	for _, r := range rows {
		_ = w.WriteEvent(r)
	}
	return nil
}

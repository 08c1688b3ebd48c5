// Writer implementation printing rows as JSON lines
package sim

import (
	"encoding/json"
	"io"
	"os"
	"sync"
)

// StdoutWriter emits track rows and defense events as JSON lines, one
// object per line. Out defaults to os.Stdout; tests inject a buffer.
type StdoutWriter struct {
	Out io.Writer

	mu sync.Mutex
}

func (w *StdoutWriter) encode(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.Out
	if out == nil {
		out = os.Stdout
	}
	return json.NewEncoder(out).Encode(v)
}

// Write outputs a single track row.
func (w *StdoutWriter) Write(row TrackRow) error {
	return w.encode(row)
}

// WriteBatch outputs each row on its own line.
func (w *StdoutWriter) WriteBatch(rows []TrackRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent outputs a defense event.
func (w *StdoutWriter) WriteEvent(row EventRow) error {
	return w.encode(row)
}

// WriteEvents outputs each event on its own line.
func (w *StdoutWriter) WriteEvents(rows []EventRow) error {
	for _, r := range rows {
		if err := w.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

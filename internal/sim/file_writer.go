package sim

import (
	"encoding/json"
	"os"
)

// FileWriter writes track and event data to JSONL files.
type FileWriter struct {
	trackFile *os.File
	eventFile *os.File
	trackEnc  *json.Encoder
	eventEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. eventPath may be empty to skip the
// event log.
func NewFileWriter(trackPath, eventPath string) (*FileWriter, error) {
	tf, err := os.Create(trackPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{trackFile: tf, trackEnc: json.NewEncoder(tf)}
	if eventPath != "" {
		ef, err := os.Create(eventPath)
		if err != nil {
			tf.Close()
			return nil, err
		}
		fw.eventFile = ef
		fw.eventEnc = json.NewEncoder(ef)
	}
	return fw, nil
}

// Write appends one track row.
func (w *FileWriter) Write(row TrackRow) error {
	return w.trackEnc.Encode(row)
}

// WriteBatch appends multiple track rows.
func (w *FileWriter) WriteBatch(rows []TrackRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent appends one defense event.
func (w *FileWriter) WriteEvent(row EventRow) error {
	if w.eventEnc == nil {
		return nil
	}
	return w.eventEnc.Encode(row)
}

// WriteEvents appends multiple defense events.
func (w *FileWriter) WriteEvents(rows []EventRow) error {
	for _, r := range rows {
		if err := w.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying files.
func (w *FileWriter) Close() error {
	var err error
	if w.trackFile != nil {
		err = w.trackFile.Close()
	}
	if w.eventFile != nil {
		if cerr := w.eventFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

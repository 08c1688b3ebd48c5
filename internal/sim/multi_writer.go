package sim

// MultiWriter fan-outs track and event rows to multiple writers.
type MultiWriter struct {
	trackWriters []TrackWriter
	eventWriters []EventWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(tws []TrackWriter, ews []EventWriter) *MultiWriter {
	return &MultiWriter{trackWriters: tws, eventWriters: ews}
}

// Write sends a track row to all writers.
func (mw *MultiWriter) Write(row TrackRow) error {
	for _, w := range mw.trackWriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple track rows to all writers, using batch mode
// where supported.
func (mw *MultiWriter) WriteBatch(rows []TrackRow) error {
	for _, w := range mw.trackWriters {
		if bw, ok := w.(batchTrackWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEvent sends a defense event to all event writers.
func (mw *MultiWriter) WriteEvent(row EventRow) error {
	for _, w := range mw.eventWriters {
		if err := w.WriteEvent(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents sends multiple events to all event writers, using batch
// mode where supported.
func (mw *MultiWriter) WriteEvents(rows []EventRow) error {
	for _, w := range mw.eventWriters {
		if bw, ok := w.(batchEventWriter); ok {
			if err := bw.WriteEvents(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteEvent(r); err != nil {
				return err
			}
		}
	}
	return nil
}

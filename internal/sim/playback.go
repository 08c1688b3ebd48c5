package sim

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// ReplayLog feeds recorded track rows back into a writer. When an event
// stream and writer are supplied, defense events are interleaved with the
// tracks in timestamp order, so a replay reproduces the original run
// including launches, locks, and intercepts. A speed >1 accelerates
// playback; speed <= 0 disables pacing entirely.
func ReplayLog(tracks, events io.Reader, w TrackWriter, ew EventWriter, speed float64) error {
	trackDec := json.NewDecoder(tracks)
	var eventDec *json.Decoder
	if events != nil && ew != nil {
		eventDec = json.NewDecoder(events)
	}

	var (
		track     TrackRow
		event     EventRow
		haveTrack bool
		haveEvent bool
		prev      time.Time
	)
	for {
		if !haveTrack {
			if err := trackDec.Decode(&track); err == nil {
				haveTrack = true
			} else if err != io.EOF {
				return err
			}
		}
		if !haveEvent && eventDec != nil {
			if err := eventDec.Decode(&event); err == nil {
				haveEvent = true
			} else if err != io.EOF {
				return err
			}
		}
		if !haveTrack && !haveEvent {
			return nil
		}

		// Tracks win timestamp ties so an event never precedes the row
		// that produced it.
		if haveTrack && (!haveEvent || !event.Timestamp.Before(track.Timestamp)) {
			pace(&prev, track.Timestamp, speed)
			if err := w.Write(track); err != nil {
				return err
			}
			haveTrack = false
			continue
		}
		pace(&prev, event.Timestamp, speed)
		if err := ew.WriteEvent(event); err != nil {
			return err
		}
		haveEvent = false
	}
}

// pace sleeps for the recorded gap between rows, scaled by speed.
func pace(prev *time.Time, ts time.Time, speed float64) {
	if !prev.IsZero() && speed > 0 {
		diff := ts.Sub(*prev)
		if speed != 1 {
			diff = time.Duration(float64(diff) / speed)
		}
		if diff > 0 {
			time.Sleep(diff)
		}
	}
	*prev = ts
}

// ReplayLogFile replays a recorded track log. When an event writer is
// given and the companion event log (path + ".events", the file writer's
// naming) exists, the events are replayed alongside the tracks.
func ReplayLogFile(path string, w TrackWriter, ew EventWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if ew != nil {
		ef, err := os.Open(path + ".events")
		if err == nil {
			defer ef.Close()
			return ReplayLog(f, ef, w, ew, speed)
		}
		if !os.IsNotExist(err) {
			return err
		}
	}
	return ReplayLog(f, nil, w, nil, speed)
}

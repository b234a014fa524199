package forecast

import (
	"errors"
	"strings"
	"time"

	"github.com/kilianp07/occupancy/core/model"
)

var errBadTimestamp = errors.New("unrecognised timestamp format")

// timestampLayouts lists the accepted input formats, most common first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses raw in loc. A nil loc means UTC. Zoned formats keep
// their own offset.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Column: "time", Value: raw, Err: errBadTimestamp}
}

// TruncateHour returns the start of the clock hour containing t, in t's
// location. It works on the instant, so the repeated hour of a DST fall-back
// maps to the right one of the two.
func TruncateHour(t time.Time) time.Time {
	_, off := t.Zone()
	d := time.Duration(off) * time.Second
	return t.Add(d).Truncate(time.Hour).Add(-d)
}

// Normalize returns a copy of events with every time snapped to its hour.
func Normalize(events []model.ActivationEvent) []model.ActivationEvent {
	out := make([]model.ActivationEvent, len(events))
	for i, ev := range events {
		ev.Time = TruncateHour(ev.Time)
		out[i] = ev
	}
	return out
}

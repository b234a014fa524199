// Package csvlog reads sensor activation logs stored as CSV.
package csvlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/occupancy/core/forecast"
	"github.com/kilianp07/occupancy/core/model"
)

// Required column names.
const (
	ColumnTime      = "time"
	ColumnDevice    = "device"
	ColumnActivated = "device_activated"
)

var errBadFlag = errors.New("expected 0/1 or true/false")

// ReadResult holds the events kept from a log.
type ReadResult struct {
	Events []model.ActivationEvent
	// Rows is the number of data rows read.
	Rows int
	// Dropped counts rows strictly after the cutoff.
	Dropped int
	// Latest is the latest event time in the log, dropped rows included.
	Latest time.Time
}

// ReadEvents parses an activation log from r. Timestamps without a zone are
// read in loc (UTC when nil). Rows after cutoff are dropped. Any malformed row
// aborts the read with a *forecast.ParseError.
func ReadEvents(r io.Reader, cutoff time.Time, loc *time.Location) (ReadResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ReadResult{}, &forecast.ParseError{Line: 1, Column: ColumnTime, Err: forecast.ErrMissingColumn}
	}
	if err != nil {
		return ReadResult{}, rowError(err, "header")
	}
	idx, err := columnIndex(header)
	if err != nil {
		return ReadResult{}, err
	}

	var res ReadResult
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ReadResult{}, rowError(err, "row")
		}
		res.Rows++
		line, _ := cr.FieldPos(0)
		ev, err := parseRow(rec, idx, loc)
		if err != nil {
			var pe *forecast.ParseError
			if errors.As(err, &pe) {
				pe.Line = line
			}
			return ReadResult{}, err
		}
		if ev.Time.After(res.Latest) {
			res.Latest = ev.Time
		}
		if ev.Time.After(cutoff) {
			res.Dropped++
			continue
		}
		res.Events = append(res.Events, ev)
	}
	return res, nil
}

// rowError converts CSV syntax errors to a ParseError and passes I/O errors
// through.
func rowError(err error, column string) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &forecast.ParseError{Line: csvErr.StartLine, Column: column, Err: csvErr.Err}
	}
	return fmt.Errorf("read %s: %w", column, err)
}

type columns struct {
	time, device, activated int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}
	var c columns
	for _, req := range []struct {
		name string
		dst  *int
	}{
		{ColumnTime, &c.time},
		{ColumnDevice, &c.device},
		{ColumnActivated, &c.activated},
	} {
		i, ok := pos[req.name]
		if !ok {
			return columns{}, &forecast.ParseError{Line: 1, Column: req.name, Err: forecast.ErrMissingColumn}
		}
		*req.dst = i
	}
	return c, nil
}

func parseRow(rec []string, idx columns, loc *time.Location) (model.ActivationEvent, error) {
	ts, err := forecast.ParseTimestamp(rec[idx.time], loc)
	if err != nil {
		return model.ActivationEvent{}, err
	}
	device := strings.TrimSpace(rec[idx.device])
	if device == "" {
		return model.ActivationEvent{}, &forecast.ParseError{Column: ColumnDevice, Err: errors.New("empty device identifier")}
	}
	activated, err := parseFlag(rec[idx.activated])
	if err != nil {
		return model.ActivationEvent{}, &forecast.ParseError{Column: ColumnActivated, Value: rec[idx.activated], Err: err}
	}
	return model.ActivationEvent{Device: device, Time: ts, Activated: activated}, nil
}

// parseFlag accepts 0/1, true/false and numeric values where non-zero means
// activated.
func parseFlag(raw string) (bool, error) {
	s := strings.TrimSpace(raw)
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false, errBadFlag
	}
	return f != 0, nil
}

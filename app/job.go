// Package app wires configuration, I/O and the forecast pipeline into a
// single batch run.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/occupancy/config"
	"github.com/kilianp07/occupancy/core/forecast"
	"github.com/kilianp07/occupancy/core/publish"
	"github.com/kilianp07/occupancy/infra/csvlog"
	"github.com/kilianp07/occupancy/infra/logger"
	"github.com/kilianp07/occupancy/infra/metrics"
	"github.com/kilianp07/occupancy/pkg/export"
)

// Request names the inputs of a forecast run.
type Request struct {
	Cutoff string
	Input  string
	Output string
}

// Job runs forecasts for a fixed configuration.
type Job struct {
	cfg      *config.Config
	pipeline *forecast.Pipeline
	loc      *time.Location
	sink     publish.Sink
	log      logger.Logger
	now      func() time.Time
}

// New builds a Job from cfg. A nil logger discards output.
func New(cfg *config.Config, log logger.Logger) (*Job, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	pipeline, err := forecast.NewPipeline(cfg.Forecast.Pipeline(), log)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	loc, err := cfg.Forecast.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	sink, err := publish.NewSink(cfg.Publish.Sinks)
	if err != nil {
		return nil, fmt.Errorf("publish sink: %w", err)
	}
	return &Job{cfg: cfg, pipeline: pipeline, loc: loc, sink: sink, log: log, now: time.Now}, nil
}

// ParseCutoff parses a cutoff timestamp in the configured timezone.
func (j *Job) ParseCutoff(raw string) (time.Time, error) {
	t, err := forecast.ParseTimestamp(raw, j.loc)
	if err != nil {
		var pe *forecast.ParseError
		if errors.As(err, &pe) {
			pe.Column = "cutoff"
		}
		return time.Time{}, err
	}
	return t, nil
}

// Run reads the log, forecasts the slots after the cutoff and writes the
// predictions to the output file. Nothing is written when any step before
// the output fails.
func (j *Job) Run(ctx context.Context, req Request) (forecast.Result, error) {
	started := j.now()
	runID := uuid.NewString()
	m := metrics.NewRunMetrics()

	cutoff, err := j.ParseCutoff(req.Cutoff)
	if err != nil {
		return forecast.Result{}, err
	}
	m.ObserveRun(runID, cutoff)

	in, err := j.readLog(req.Input, cutoff)
	if err != nil {
		return forecast.Result{}, err
	}
	m.ObserveInput(in.Rows, in.Dropped)

	res, err := j.pipeline.Run(in.Events, cutoff)
	if err != nil {
		return forecast.Result{}, err
	}
	m.ObserveResult(res)
	for _, s := range res.Summaries {
		j.log.Debugw("device history", map[string]any{
			"device":         s.Device,
			"hours":          s.Hours,
			"occupied_hours": s.OccupiedHours,
			"rate":           s.Rate,
		})
	}

	if err := j.writeOutput(req.Output, res); err != nil {
		return forecast.Result{}, err
	}

	f := publish.Forecast{RunID: runID, Cutoff: res.Cutoff, Start: res.Start, Predictions: res.Predictions}
	if err := j.sink.Publish(ctx, f); err != nil {
		j.log.Warnf("publish forecast: %v", err)
	}

	elapsed := j.now().Sub(started)
	m.ObserveSuccess(elapsed, j.now())
	if path := j.cfg.Metrics.Textfile; path != "" {
		if err := m.WriteTextfile(path); err != nil {
			j.log.Warnf("write metrics textfile %s: %v", path, err)
		}
	}
	j.log.Infow("forecast written", map[string]any{
		"run_id":      runID,
		"output":      req.Output,
		"start":       res.Start.Format(time.RFC3339),
		"slots":       res.Stats.Slots,
		"occupied":    res.Stats.Occupied,
		"cold_start":  res.Stats.ColdStart,
		"duration_ms": elapsed.Milliseconds(),
	})
	return res, nil
}

// Learn returns the historical hash built from the log up to the cutoff.
func (j *Job) Learn(cutoffRaw, input string) (forecast.Hash, error) {
	cutoff, err := j.ParseCutoff(cutoffRaw)
	if err != nil {
		return nil, err
	}
	in, err := j.readLog(input, cutoff)
	if err != nil {
		return nil, err
	}
	hash, _ := j.pipeline.Learn(in.Events, cutoff)
	return hash, nil
}

// Close releases the publish sinks.
func (j *Job) Close() error { return j.sink.Close() }

func (j *Job) readLog(path string, cutoff time.Time) (csvlog.ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return csvlog.ReadResult{}, &FileAccessError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()
	res, err := csvlog.ReadEvents(f, cutoff, j.loc)
	if err != nil {
		var pe *forecast.ParseError
		if errors.As(err, &pe) {
			return csvlog.ReadResult{}, fmt.Errorf("%s: %w", path, err)
		}
		return csvlog.ReadResult{}, &FileAccessError{Op: "read", Path: path, Err: err}
	}
	if res.Dropped > 0 {
		j.log.Warnf("input log runs past the cutoff (latest %s), ignored %d later rows",
			res.Latest.Format(time.RFC3339), res.Dropped)
	}
	return res, nil
}

// writeOutput writes the predictions to a temporary file next to path and
// renames it into place once complete. A .json path selects JSON, anything
// else CSV.
func (j *Job) writeOutput(path string, res forecast.Result) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &FileAccessError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	write := export.WriteCSV
	if strings.EqualFold(filepath.Ext(path), ".json") {
		write = export.WriteJSON
	}
	if err = write(tmp, res.Predictions, j.cfg.Forecast.OutputLayout); err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return &FileAccessError{Op: "chmod", Path: path, Err: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &FileAccessError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// Package publish forwards finished forecasts to optional downstream
// consumers. The CSV output file is always written; sinks are extras
// configured under publish.sinks.
package publish

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/occupancy/core/model"
)

// Forecast is a complete run output handed to sinks.
type Forecast struct {
	RunID       string
	Cutoff      time.Time
	Start       time.Time
	Predictions []model.Prediction
}

// Sink receives forecasts.
type Sink interface {
	Publish(ctx context.Context, f Forecast) error
	Close() error
}

// NopSink drops every forecast.
type NopSink struct{}

func (NopSink) Publish(context.Context, Forecast) error { return nil }
func (NopSink) Close() error                            { return nil }

// MultiSink fans a forecast out to several sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// Publish forwards f to all sinks, returning the first error encountered.
func (m *MultiSink) Publish(ctx context.Context, f Forecast) error {
	for _, s := range m.Sinks {
		if err := s.Publish(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

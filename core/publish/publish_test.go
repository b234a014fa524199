package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/occupancy/core/factory"
)

type recordSink struct {
	published int
	closed    bool
	err       error
}

func (r *recordSink) Publish(context.Context, Forecast) error {
	r.published++
	return r.err
}

func (r *recordSink) Close() error {
	r.closed = true
	return r.err
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	require.NoError(t, m.Publish(context.Background(), Forecast{RunID: "r"}))
	require.NoError(t, m.Close())
	if s1.published != 1 || s2.published != 1 || !s1.closed || !s2.closed {
		t.Fatalf("forecast not forwarded: %+v %+v", s1, s2)
	}
}

func TestMultiSinkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	assert.ErrorIs(t, m.Publish(context.Background(), Forecast{}), boom)
	assert.Zero(t, s2.published)
	assert.ErrorIs(t, m.Close(), boom)
	assert.True(t, s2.closed)
}

func TestNewSink(t *testing.T) {
	s, err := NewSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	rec := &recordSink{}
	require.NoError(t, RegisterSink("test-record", func(map[string]any) (Sink, error) { return rec, nil }))
	s, err = NewSink([]factory.ModuleConfig{{Type: "test-record"}})
	require.NoError(t, err)
	assert.Same(t, rec, s)

	s, err = NewSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "test-record"}})
	require.NoError(t, err)
	assert.IsType(t, &MultiSink{}, s)

	_, err = NewSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "missing"}})
	assert.Error(t, err)
	assert.True(t, rec.closed)
}

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/occupancy/config"
	"github.com/kilianp07/occupancy/core/factory"
	"github.com/kilianp07/occupancy/core/forecast"
	"github.com/kilianp07/occupancy/core/publish"
)

const sampleLog = `time,device,device_activated
2016-08-25 09:14:00,device_1,1
2016-08-25 09:40:00,device_1,0
2016-08-26 10:05:00,device_2,1
2016-08-30 15:00:00,device_7,1
2016-09-01 09:00:00,device_1,1
`

const cutoff = "2016-08-31 23:59:59"

type capturingSink struct {
	forecasts []publish.Forecast
	err       error
}

func (c *capturingSink) Publish(_ context.Context, f publish.Forecast) error {
	c.forecasts = append(c.forecasts, f)
	return c.err
}

func (c *capturingSink) Close() error { return nil }

var testSink = &capturingSink{}

func init() {
	if err := publish.RegisterSink("test-capture", func(map[string]any) (publish.Sink, error) {
		return testSink, nil
	}); err != nil {
		panic(err)
	}
}

func newJob(t *testing.T, mutate func(*config.Config)) *Job {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}
	j, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func writeInput(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, "device_activations.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestJobRun(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, sampleLog)
	out := filepath.Join(dir, "predictions.csv")

	res, err := newJob(t, nil).Run(context.Background(), Request{Cutoff: cutoff, Input: in, Output: out})
	require.NoError(t, err)
	assert.Len(t, res.Predictions, 168)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 169)
	assert.Equal(t, "time,device,device_activated", lines[0])
	assert.Equal(t, "2016-09-01 00:00:00,device_1,0", lines[1])
	assert.Equal(t, "2016-09-01 00:00:00,device_7,0", lines[7])
	// Thursday 09:00 is the 10th hour of the window, device_1 is the first device
	assert.Equal(t, "2016-09-01 09:00:00,device_1,1", lines[1+9*7])
	for _, l := range lines[1:] {
		if strings.Contains(l, "device_7") {
			assert.True(t, strings.HasSuffix(l, ",0"), l)
		}
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files left behind")
}

func TestJobRunJSONOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, sampleLog)
	out := filepath.Join(dir, "predictions.json")

	_, err := newJob(t, nil).Run(context.Background(), Request{Cutoff: cutoff, Input: in, Output: out})
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)

	var rows []struct {
		Time            string `json:"time"`
		Device          string `json:"device"`
		DeviceActivated int    `json:"device_activated"`
	}
	require.NoError(t, json.Unmarshal(b, &rows))
	require.Len(t, rows, 168)
	assert.Equal(t, "2016-09-01 09:00:00", rows[9*7].Time)
	assert.Equal(t, "device_1", rows[9*7].Device)
	assert.Equal(t, 1, rows[9*7].DeviceActivated)
}

func TestJobRunIdempotent(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, sampleLog)
	j := newJob(t, nil)
	var outputs [][]byte
	for _, name := range []string{"a.csv", "b.csv"} {
		out := filepath.Join(dir, name)
		_, err := j.Run(context.Background(), Request{Cutoff: cutoff, Input: in, Output: out})
		require.NoError(t, err)
		b, err := os.ReadFile(out)
		require.NoError(t, err)
		outputs = append(outputs, b)
	}
	assert.True(t, bytes.Equal(outputs[0], outputs[1]))
}

func TestJobRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")
	_, err := newJob(t, nil).Run(context.Background(), Request{Cutoff: cutoff, Input: filepath.Join(dir, "nope.csv"), Output: out})
	var fe *FileAccessError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, "open", fe.Op)
	assert.NoFileExists(t, out)
}

func TestJobRunMalformedInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, sampleLog+"garbage,device_1,1\n")
	out := filepath.Join(dir, "out.csv")
	_, err := newJob(t, nil).Run(context.Background(), Request{Cutoff: cutoff, Input: in, Output: out})
	var pe *forecast.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, 7, pe.Line)
	assert.NoFileExists(t, out)
}

func TestJobRunBadCutoff(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, sampleLog)
	_, err := newJob(t, nil).Run(context.Background(), Request{Cutoff: "tomorrow", Input: in, Output: filepath.Join(dir, "o.csv")})
	var pe *forecast.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "cutoff", pe.Column)
}

func TestJobRunUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, sampleLog)
	out := filepath.Join(dir, "missing", "out.csv")
	_, err := newJob(t, nil).Run(context.Background(), Request{Cutoff: cutoff, Input: in, Output: out})
	var fe *FileAccessError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, "create", fe.Op)
}

func TestJobRunPublishesAndWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, sampleLog)
	prom := filepath.Join(dir, "occupancy.prom")
	testSink.forecasts = nil
	testSink.err = errors.New("broker down")
	defer func() { testSink.err = nil }()

	j := newJob(t, func(c *config.Config) {
		c.Metrics.Textfile = prom
		c.Publish.Sinks = []factory.ModuleConfig{{Type: "test-capture"}}
	})
	_, err := j.Run(context.Background(), Request{Cutoff: cutoff, Input: in, Output: filepath.Join(dir, "o.csv")})
	require.NoError(t, err, "publish failures must not fail the run")

	require.Len(t, testSink.forecasts, 1)
	f := testSink.forecasts[0]
	assert.NotEmpty(t, f.RunID)
	assert.Len(t, f.Predictions, 168)

	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(b), "occupancy_input_rows 5")
	assert.Contains(t, string(b), "occupancy_input_rows_dropped 1")
}

func TestJobLearn(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, sampleLog)
	hash, err := newJob(t, nil).Learn(cutoff, in)
	require.NoError(t, err)
	occupied, found := hash.Lookup("device_1", mustParse(t, "2016-09-01 09:00:00"))
	assert.True(t, found)
	assert.True(t, occupied)
}

func TestNewRejectsUnknownSink(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Publish.Sinks = []factory.ModuleConfig{{Type: "carrier-pigeon"}}
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := forecast.ParseTimestamp(s, nil)
	require.NoError(t, err)
	return v
}

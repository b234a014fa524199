// Package metrics exposes the figures of a forecast run as Prometheus
// metrics. A batch job has no scrape endpoint, so the metrics are written to a
// file picked up by node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/occupancy/core/forecast"
)

// RunMetrics holds the gauges describing a single run.
type RunMetrics struct {
	reg *prometheus.Registry

	info        *prometheus.GaugeVec
	rows        prometheus.Gauge
	dropped     prometheus.Gauge
	gridHours   prometheus.Gauge
	hashEntries prometheus.Gauge
	slots       *prometheus.GaugeVec
	historyRate *prometheus.GaugeVec
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// NewRunMetrics registers the run metrics on a fresh registry.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		reg: prometheus.NewRegistry(),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "occupancy_run_info",
			Help: "Identifier of the run that produced these metrics",
		}, []string{"run_id", "cutoff"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_input_rows",
			Help: "Data rows read from the activation log",
		}),
		dropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_input_rows_dropped",
			Help: "Rows ignored because they are later than the cutoff",
		}),
		gridHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_grid_hours",
			Help: "Device hours in the gap-filled history",
		}),
		hashEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_hash_entries",
			Help: "Distinct device, weekday and hour keys learned from history",
		}),
		slots: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "occupancy_forecast_slots",
			Help: "Forecast slots by outcome",
		}, []string{"outcome"}),
		historyRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "occupancy_history_rate",
			Help: "Fraction of historical hours a device was occupied",
		}, []string{"device"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_run_duration_seconds",
			Help: "Wall time of the run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
	}
	m.reg.MustRegister(m.info, m.rows, m.dropped, m.gridHours, m.hashEntries,
		m.slots, m.historyRate, m.duration, m.lastSuccess)
	return m
}

// ObserveRun labels the metrics with the run identifier and cutoff.
func (m *RunMetrics) ObserveRun(runID string, cutoff time.Time) {
	m.info.WithLabelValues(runID, cutoff.Format(time.RFC3339)).Set(1)
}

// ObserveInput records how many log rows were read and dropped.
func (m *RunMetrics) ObserveInput(rows, dropped int) {
	m.rows.Set(float64(rows))
	m.dropped.Set(float64(dropped))
}

// ObserveResult records the size of the history and the forecast outcome.
func (m *RunMetrics) ObserveResult(res forecast.Result) {
	m.gridHours.Set(float64(len(res.Grid)))
	m.hashEntries.Set(float64(len(res.Hash)))
	st := res.Stats
	m.slots.WithLabelValues("total").Set(float64(st.Slots))
	m.slots.WithLabelValues("occupied").Set(float64(st.Occupied))
	m.slots.WithLabelValues("cold_start").Set(float64(st.ColdStart))
	m.slots.WithLabelValues("forced_empty").Set(float64(st.Forced))
	for _, s := range res.Summaries {
		m.historyRate.WithLabelValues(s.Device).Set(s.Rate)
	}
}

// ObserveSuccess records the run duration and completion time.
func (m *RunMetrics) ObserveSuccess(d time.Duration, at time.Time) {
	m.duration.Set(d.Seconds())
	m.lastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile atomically writes the metrics in text exposition format.
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

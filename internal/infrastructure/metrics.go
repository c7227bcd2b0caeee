package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "mdgprep"

// Metrics collects counters for a single batch run. It uses its own registry
// and is flushed to a node-exporter textfile when the run ends.
type Metrics struct {
	registry *prometheus.Registry

	rowsSelected     *prometheus.CounterVec
	cellsFilled      *prometheus.CounterVec
	emptyMedians     prometheus.Counter
	operationSeconds *prometheus.HistogramVec
	lastRun          prometheus.Gauge
}

// NewMetrics creates and registers the run collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rowsSelected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_selected_total",
			Help:      "Submit rows selected from the training table, by operation.",
		}, []string{"operation"}),
		cellsFilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cells_filled_total",
			Help:      "Feature cells filled by the imputer, by method.",
		}, []string{"method"}),
		emptyMedians: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "median_nan_groups_total",
			Help:      "Indicators whose cross-sectional median had no observations.",
		}),
		operationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall time of preprocessing operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished.",
		}),
	}

	m.registry.MustRegister(m.rowsSelected, m.cellsFilled, m.emptyMedians, m.operationSeconds, m.lastRun)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RowsSelected records n rows selected by operation.
func (m *Metrics) RowsSelected(operation string, n int) {
	m.rowsSelected.WithLabelValues(operation).Add(float64(n))
}

// CellsFilled records n cells filled with method.
func (m *Metrics) CellsFilled(method string, n int) {
	if n <= 0 {
		return
	}
	m.cellsFilled.WithLabelValues(method).Add(float64(n))
}

// EmptyMedianGroup records an indicator whose median was NaN.
func (m *Metrics) EmptyMedianGroup(string) {
	m.emptyMedians.Inc()
}

// ObserveDuration records how long operation took.
func (m *Metrics) ObserveDuration(operation string, d time.Duration) {
	m.operationSeconds.WithLabelValues(operation).Observe(d.Seconds())
}

// WriteTextfile stamps the run time and writes every collector to path in
// the Prometheus text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	m.lastRun.SetToCurrentTime()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Navigation results
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics holds the Prometheus collectors for record stores and navigators.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Store metrics
	storeReadsTotal     *prometheus.CounterVec
	storeReadBytesTotal *prometheus.CounterVec
	windowCacheTotal    *prometheus.CounterVec

	// Navigator metrics
	navigationOpsTotal  *prometheus.CounterVec
	recordsDecodedTotal *prometheus.CounterVec
	linearScanRecords   prometheus.Histogram
	navigatorsOpen      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		storeReadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdstream_store_reads_total",
				Help: "Total number of record store reads",
			},
			[]string{"kind", "status"},
		),

		storeReadBytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdstream_store_read_bytes_total",
				Help: "Total number of bytes returned by record store reads",
			},
			[]string{"kind"},
		),

		windowCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdstream_window_cache_total",
				Help: "File store window cache lookups",
			},
			[]string{"result"},
		),

		navigationOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdstream_navigation_ops_total",
				Help: "Total number of navigator operations",
			},
			[]string{"op", "result"},
		),

		recordsDecodedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdstream_records_decoded_total",
				Help: "Total number of records decoded by navigators",
			},
			[]string{"shape"},
		),

		linearScanRecords: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cdstream_linear_scan_records",
				Help:    "Records visited by a linear scan for the last record",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),

		navigatorsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cdstream_navigators_open",
				Help: "Number of navigators not yet closed",
			},
		),
	}

	return m
}

// RecordStoreRead records one store read
func (m *Metrics) RecordStoreRead(kind string, n int, err error) {
	if m == nil {
		return
	}

	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.storeReadsTotal.WithLabelValues(kind, status).Inc()
	m.storeReadBytesTotal.WithLabelValues(kind).Add(float64(n))
}

// RecordWindowCache records a window cache hit or miss
func (m *Metrics) RecordWindowCache(hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	m.windowCacheTotal.WithLabelValues(result).Inc()
}

// RecordNavigation records the outcome of a navigator operation
func (m *Metrics) RecordNavigation(op string, found bool, err error) {
	if m == nil {
		return
	}

	result := ResultFound
	switch {
	case err != nil:
		result = ResultError
	case !found:
		result = ResultNotFound
	}
	m.navigationOpsTotal.WithLabelValues(op, result).Inc()
}

// RecordDecoded counts one decoded record by header shape
func (m *Metrics) RecordDecoded(shape string) {
	if m == nil {
		return
	}
	m.recordsDecodedTotal.WithLabelValues(shape).Inc()
}

// ObserveLinearScan records the number of records a last-record scan visited
func (m *Metrics) ObserveLinearScan(records int) {
	if m == nil {
		return
	}
	m.linearScanRecords.Observe(float64(records))
}

// NavigatorOpened increments the open navigator gauge
func (m *Metrics) NavigatorOpened() {
	if m == nil {
		return
	}
	m.navigatorsOpen.Inc()
}

// NavigatorClosed decrements the open navigator gauge
func (m *Metrics) NavigatorClosed() {
	if m == nil {
		return
	}
	m.navigatorsOpen.Dec()
}

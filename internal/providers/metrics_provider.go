package providers

import (
	"auroscope/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	ObserveRemoteRequest(resource string, status int, duration time.Duration)
	IncFetchFallbacks()
	IncReportsTotal(period string, ok bool)
	ObserveReportDuration(period string, duration time.Duration)
	SetReportRecords(period string, count int)
	IncDuplicateCommands()
	IncCacheHits(prefix string)
	IncCacheMisses(prefix string)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	remoteRequests      *prometheus.CounterVec
	remoteDuration      *prometheus.HistogramVec
	fetchFallbacks      prometheus.Counter
	reportsTotal        *prometheus.CounterVec
	reportDuration      *prometheus.HistogramVec
	reportRecords       *prometheus.GaugeVec
	duplicateCommands   prometheus.Counter
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveRemoteRequest records one round-trip to the data store. Status 0 means transport failure.
func (m *MetricsProvider) ObserveRemoteRequest(resource string, status int, duration time.Duration) {
	bucket := "error"
	if status > 0 {
		bucket = httpStatusBucket(status)
	}
	m.remoteRequests.WithLabelValues(resource, bucket).Inc()
	m.remoteDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncFetchFallbacks() {
	m.fetchFallbacks.Inc()
}

func (m *MetricsProvider) IncReportsTotal(period string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.reportsTotal.WithLabelValues(period, result).Inc()
}

func (m *MetricsProvider) ObserveReportDuration(period string, duration time.Duration) {
	m.reportDuration.WithLabelValues(period).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetReportRecords(period string, count int) {
	m.reportRecords.WithLabelValues(period).Set(float64(count))
}

func (m *MetricsProvider) IncDuplicateCommands() {
	m.duplicateCommands.Inc()
}

func (m *MetricsProvider) IncCacheHits(prefix string) {
	m.cacheHits.WithLabelValues(prefix).Inc()
}

func (m *MetricsProvider) IncCacheMisses(prefix string) {
	m.cacheMisses.WithLabelValues(prefix).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auroscope_requests_total",
			Help: "Total number of admin HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auroscope_request_duration_seconds",
			Help:    "Admin HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		remoteRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auroscope_store_requests_total",
			Help: "Total number of requests sent to the data store",
		}, []string{"resource", "status"}),

		remoteDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auroscope_store_request_duration_seconds",
			Help:    "Data store round-trip duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),

		fetchFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auroscope_fetch_fallbacks_total",
			Help: "Number of filtered listings replaced by full listing and local filtering",
		}),

		reportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auroscope_reports_total",
			Help: "Total number of generated reports",
		}, []string{"period", "result"}),

		reportDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auroscope_report_duration_seconds",
			Help:    "Report generation duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"period"}),

		reportRecords: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "auroscope_report_records",
			Help: "Number of records in the last report per period",
		}, []string{"period"}),

		duplicateCommands: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auroscope_duplicate_commands_total",
			Help: "Report commands rejected while the same report was in progress",
		}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auroscope_cache_hits_total",
			Help: "Cache lookups that found a value, by key prefix",
		}, []string{"prefix"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auroscope_cache_misses_total",
			Help: "Cache lookups that found nothing, by key prefix",
		}, []string{"prefix"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "auroscope_persistence_duration_seconds",
			Help:    "Duration of scheduler state persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                       {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)       {}
func (n *noopMetrics) ObserveRemoteRequest(_ string, _ int, _ time.Duration) {}
func (n *noopMetrics) IncFetchFallbacks()                                     {}
func (n *noopMetrics) IncReportsTotal(_ string, _ bool)                       {}
func (n *noopMetrics) ObserveReportDuration(_ string, _ time.Duration)        {}
func (n *noopMetrics) SetReportRecords(_ string, _ int)                       {}
func (n *noopMetrics) IncDuplicateCommands()                                  {}
func (n *noopMetrics) IncCacheHits(_ string)                                  {}
func (n *noopMetrics) IncCacheMisses(_ string)                                {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)             {}

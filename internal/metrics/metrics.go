package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ust"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	UpdatesTotal        *prometheus.CounterVec
	UpdateErrorsTotal   prometheus.Counter
	DatesConfirmedTotal prometheus.Counter
	FetchDuration       prometheus.Histogram
	ReferencesTotal     *prometheus.CounterVec
	YieldFailuresTotal  *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New(instance string) *Metrics {
	labels := prometheus.Labels{"instance_id": instance}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		UpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "updates_total",
			Help:        "Date updates by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		UpdateErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "update_errors_total",
			Help:        "Date updates that failed",
			ConstLabels: labels,
		}),
		DatesConfirmedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "dates_confirmed_total",
			Help:        "Dates that became confirmed",
			ConstLabels: labels,
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "fetch_duration_seconds",
			Help:        "Daily price download latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}),
		ReferencesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "references_total",
			Help:        "Reference backfill attempts by result",
			ConstLabels: labels,
		}, []string{"result"}),
		YieldFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "yield_failures_total",
			Help:        "Yield table rows without a yield, by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests served",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.UpdatesTotal,
		m.UpdateErrorsTotal,
		m.DatesConfirmedTotal,
		m.FetchDuration,
		m.ReferencesTotal,
		m.YieldFailuresTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUpdate records the outcome of one date update.
func (m *Metrics) ObserveUpdate(outcome string, confirmed bool, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.UpdateErrorsTotal.Inc()
		return
	}
	m.UpdatesTotal.WithLabelValues(outcome).Inc()
	if confirmed {
		m.DatesConfirmedTotal.Inc()
	}
}

// ObserveFetch records the latency of one download in seconds.
func (m *Metrics) ObserveFetch(seconds float64) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(seconds)
}

// ObserveReference records one backfill result: inserted, exists, unknown or error.
func (m *Metrics) ObserveReference(result string) {
	if m == nil {
		return
	}
	m.ReferencesTotal.WithLabelValues(result).Inc()
}

// ObserveYieldFailure records a yield table row left without a yield.
func (m *Metrics) ObserveYieldFailure(reason string) {
	if m == nil {
		return
	}
	m.YieldFailuresTotal.WithLabelValues(reason).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

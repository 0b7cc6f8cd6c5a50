package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer
// and the assignment engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	distributions   *prometheus.CounterVec
	unfilledSlots   *prometheus.CounterVec
	mutations       *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	distributions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "observer_distribution_runs_total",
		Help: "Completed auto-distribution planner runs",
	}, []string{"grade_level"})

	unfilledSlots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "observer_distribution_unfilled_slots_total",
		Help: "Slots the planner left empty because no eligible candidate existed",
	}, []string{"grade_level"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_mutations_total",
		Help: "Manual assignment mutations by kind and outcome",
	}, []string{"kind", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, distributions, unfilledSlots, mutations, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		distributions:   distributions,
		unfilledSlots:   unfilledSlots,
		mutations:       mutations,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordDistribution counts a completed planner run and its unfilled slots.
func (m *MetricsService) RecordDistribution(gradeLevel string, unfilled int) {
	if m == nil {
		return
	}
	m.distributions.WithLabelValues(gradeLevel).Inc()
	if unfilled > 0 {
		m.unfilledSlots.WithLabelValues(gradeLevel).Add(float64(unfilled))
	}
}

// RecordMutation counts a manual edit or swap by outcome.
func (m *MetricsService) RecordMutation(kind string, rejected bool) {
	if m == nil {
		return
	}
	outcome := "committed"
	if rejected {
		outcome = "rejected"
	}
	m.mutations.WithLabelValues(kind, outcome).Inc()
}

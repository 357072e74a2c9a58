package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	complaintsCreated *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	responsesAdded    prometheus.Counter
	exportsGenerated  *prometheus.CounterVec
}

// NewMetricsService registers the service's Prometheus collectors.
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

	complaintsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "complaints_created_total",
		Help: "Total complaints submitted",
	}, []string{"category"})

	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_status_transitions_total",
		Help: "Total complaint status transitions recorded",
	}, []string{"new_status"})

	responsesAdded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "complaint_responses_total",
		Help: "Total staff responses appended",
	})

	exportsGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exports_generated_total",
		Help: "Total export files generated",
	}, []string{"format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, complaintsCreated, statusTransitions, responsesAdded, exportsGenerated, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		complaintsCreated: complaintsCreated,
		statusTransitions: statusTransitions,
		responsesAdded:    responsesAdded,
		exportsGenerated:  exportsGenerated,
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

// IncComplaintCreated counts a submitted complaint.
func (m *MetricsService) IncComplaintCreated(category string) {
	if m == nil {
		return
	}
	m.complaintsCreated.WithLabelValues(category).Inc()
}

// IncStatusTransition counts a recorded transition.
func (m *MetricsService) IncStatusTransition(newStatus string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(newStatus).Inc()
}

// IncResponseAdded counts an appended staff response.
func (m *MetricsService) IncResponseAdded() {
	if m == nil {
		return
	}
	m.responsesAdded.Inc()
}

// IncExportGenerated counts a rendered export file.
func (m *MetricsService) IncExportGenerated(format string) {
	if m == nil {
		return
	}
	m.exportsGenerated.WithLabelValues(format).Inc()
}

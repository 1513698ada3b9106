package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API
// surface and the generation pipeline.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	runTotal       *prometheus.CounterVec
	runDuration    prometheus.Histogram
	placedTotal    prometheus.Counter
	unplacedTotal  prometheus.Counter
	swapsTotal     prometheus.Counter
	lastSoftCost   prometheus.Gauge
	lastUnassigned prometheus.Gauge
}

// NewMetricsService registers the service's Prometheus collectors on a
// private registry.
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

	runTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_runs_total",
		Help: "Total generation runs by terminal status",
	}, []string{"status"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_run_duration_seconds",
		Help:    "Wall-clock duration of generation runs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	})

	placedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_sessions_placed_total",
		Help: "Session tokens successfully placed across all runs",
	})

	unplacedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_sessions_unassigned_total",
		Help: "Session tokens left unassigned across all runs",
	})

	swapsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_optimizer_swaps_total",
		Help: "Optimizer swaps accepted across all runs",
	})

	lastSoftCost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_run_soft_cost",
		Help: "Final soft cost of the most recent completed run",
	})

	lastUnassigned := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_run_unassigned",
		Help: "Unassigned session count of the most recent completed run",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runTotal, runDuration,
		placedTotal, unplacedTotal, swapsTotal, lastSoftCost, lastUnassigned, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		runTotal:        runTotal,
		runDuration:     runDuration,
		placedTotal:     placedTotal,
		unplacedTotal:   unplacedTotal,
		swapsTotal:      swapsTotal,
		lastSoftCost:    lastSoftCost,
		lastUnassigned:  lastUnassigned,
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

// ObserveRun records the outcome of one finished generation run.
func (m *MetricsService) ObserveRun(status string, placed, unassigned, swaps, finalSoftCost int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(elapsed.Seconds())
	m.placedTotal.Add(float64(placed))
	m.unplacedTotal.Add(float64(unassigned))
	m.swapsTotal.Add(float64(swaps))
	m.lastSoftCost.Set(float64(finalSoftCost))
	m.lastUnassigned.Set(float64(unassigned))
}

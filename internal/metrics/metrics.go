package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Dataset metrics
	RecordsLoaded     prometheus.Gauge
	LoadFailures      prometheus.Counter
	LoadDuration      prometheus.Histogram
	RecordsByCategory *prometheus.GaugeVec

	// Dashboard metrics
	ViewsBuilt prometheus.Counter
	Exports    prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RecordsLoaded: f.NewGauge(prometheus.GaugeOpts{
			Name: "call_records_loaded",
			Help: "Number of call records in the loaded snapshot",
		}),
		LoadFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "call_records_load_failures_total",
			Help: "Total number of failed source loads",
		}),
		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "call_records_load_duration_seconds",
			Help:    "Time spent fetching and deriving the call log",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RecordsByCategory: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "call_records_by_category",
			Help: "Number of loaded call records per category",
		}, []string{"category"}),
		ViewsBuilt: f.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_views_total",
			Help: "Total number of dashboard views computed",
		}),
		Exports: f.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_exports_total",
			Help: "Total number of workbook exports",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

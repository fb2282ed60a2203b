// Package metrics provides Prometheus instrumentation for the reporting service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReportsGenerated counts generated reports, partitioned by report kind.
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporting_reports_generated_total",
		Help: "Total number of reports generated",
	}, []string{"kind"})

	// ReportErrors counts failed report generations by kind.
	ReportErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporting_report_errors_total",
		Help: "Total number of failed report generations",
	}, []string{"kind"})

	// EngineDuration tracks calculation engine runtime per engine.
	EngineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reporting_engine_duration_seconds",
		Help:    "Calculation engine runtime in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"engine"})

	// QCVerdicts counts comprehensive QC outcomes by status.
	QCVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporting_qc_verdicts_total",
		Help: "Comprehensive QC outcomes",
	}, []string{"status"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporting_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reporting_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// ObserveEngine records one engine invocation's runtime.
func ObserveEngine(engine string, start time.Time) {
	EngineDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

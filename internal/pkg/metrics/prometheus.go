package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "subtrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "subtrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "subtrack",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Label hierarchy metrics
	labelMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "subtrack",
			Subsystem: "labels",
			Name:      "mutations_total",
			Help:      "Total number of label mutations",
		},
		[]string{"operation"},
	)

	labelHierarchyRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "subtrack",
			Subsystem: "labels",
			Name:      "hierarchy_rejections_total",
			Help:      "Label mutations rejected by hierarchy invariants",
		},
		[]string{"reason"},
	)

	// Billing rollover metrics
	billingRolloversTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "subtrack",
			Subsystem: "billing",
			Name:      "rollovers_total",
			Help:      "Total number of next-payment-date rollovers",
		},
		[]string{"frequency"},
	)

	billingRollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "subtrack",
			Subsystem: "billing",
			Name:      "roll_duration_seconds",
			Help:      "Duration of a billing rollover sweep in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)
)

// RecordLabelMutation increments the label mutation counter
func RecordLabelMutation(operation string) {
	labelMutationsTotal.WithLabelValues(operation).Inc()
}

// RecordHierarchyRejection increments the hierarchy rejection counter
func RecordHierarchyRejection(reason string) {
	labelHierarchyRejections.WithLabelValues(reason).Inc()
}

// RecordBillingRollover increments the billing rollover counter
func RecordBillingRollover(frequency string) {
	billingRolloversTotal.WithLabelValues(frequency).Inc()
}

// ObserveBillingSweep records the duration of a billing rollover sweep
func ObserveBillingSweep(d time.Duration) {
	billingRollDuration.Observe(d.Seconds())
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts, durations, and in-flight gauge
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// Use the chi route pattern to keep cardinality bounded
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}

		status := strconv.Itoa(rec.status)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

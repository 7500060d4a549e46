package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	clientsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clientbook_clients",
			Help: "Clients in the current projection, by bucket",
		},
		[]string{"bucket"},
	)

	storeWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clientbook_store_write_errors_total",
			Help: "Total number of failed record store writes",
		},
		[]string{"op"},
	)

	messagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clientbook_messages_sent_total",
			Help: "Total number of outbound messages by channel and result",
		},
		[]string{"channel", "status"},
	)

	clientEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clientbook_client_events_total",
			Help: "Total number of client events consumed",
		},
		[]string{"type"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps client ids out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// ClientCounts is what RecordClientStats publishes.
type ClientCounts struct {
	Total     int
	Today     int
	Approach  int
	Confirmed int
	Responded int
}

func RecordClientStats(c ClientCounts) {
	clientsGauge.WithLabelValues("total").Set(float64(c.Total))
	clientsGauge.WithLabelValues("today").Set(float64(c.Today))
	clientsGauge.WithLabelValues("approach").Set(float64(c.Approach))
	clientsGauge.WithLabelValues("confirmed").Set(float64(c.Confirmed))
	clientsGauge.WithLabelValues("responded").Set(float64(c.Responded))
}

func RecordStoreWriteError(op string) {
	storeWriteErrors.WithLabelValues(op).Inc()
}

func RecordMessageSent(channel, status string) {
	messagesSent.WithLabelValues(channel, status).Inc()
}

func RecordClientEvent(eventType string) {
	clientEvents.WithLabelValues(eventType).Inc()
}

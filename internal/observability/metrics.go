package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	sessionExchanges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "linectl",
			Subsystem: "session",
			Name:      "exchanges_total",
			Help:      "Completed send/receive exchanges.",
		},
	)
	sessionBytesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "linectl",
			Subsystem: "session",
			Name:      "bytes_sent_total",
			Help:      "Bytes written to the server, newline terminators included.",
		},
	)
	sessionBytesReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "linectl",
			Subsystem: "session",
			Name:      "bytes_received_total",
			Help:      "Bytes read from the server.",
		},
	)
	sessionExchangeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "linectl",
			Subsystem: "session",
			Name:      "exchange_duration_seconds",
			Help:      "Time from write start to response read.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	sessionTerminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linectl",
			Subsystem: "session",
			Name:      "terminations_total",
			Help:      "Session loop exits by reason.",
		},
		[]string{"reason"},
	)
	sessionConnectFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "linectl",
			Subsystem: "session",
			Name:      "connect_failures_total",
			Help:      "Failed connection attempts.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served by the metrics listener.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "linectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			sessionExchanges,
			sessionBytesSent,
			sessionBytesReceived,
			sessionExchangeDuration,
			sessionTerminations,
			sessionConnectFailures,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordExchange(sent, received int, elapsed time.Duration) {
	RegisterMetrics()
	sessionExchanges.Inc()
	sessionBytesSent.Add(float64(sent))
	sessionBytesReceived.Add(float64(received))
	sessionExchangeDuration.Observe(elapsed.Seconds())
}

func RecordTermination(reason string) {
	RegisterMetrics()
	sessionTerminations.WithLabelValues(reason).Inc()
}

func RecordConnectFailure() {
	RegisterMetrics()
	sessionConnectFailures.Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// Recorder forwards session events into the process-wide collectors.
type Recorder struct{}

func NewRecorder() Recorder {
	RegisterMetrics()
	return Recorder{}
}

func (Recorder) ExchangeCompleted(sent, received int, elapsed time.Duration) {
	RecordExchange(sent, received, elapsed)
}

func (Recorder) Terminated(reason string) {
	RecordTermination(reason)
}

func (Recorder) ConnectFailed() {
	RecordConnectFailure()
}

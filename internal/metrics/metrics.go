package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"dmmap/internal/geom"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dmmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dmmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
	}, []string{"method", "path"})

	// Ingestion metrics
	IngestRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dmmap",
		Subsystem: "ingest",
		Name:      "records_total",
		Help:      "Total coordinate records read, by result",
	}, []string{"result"})

	IngestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dmmap",
		Subsystem: "ingest",
		Name:      "runs_total",
		Help:      "Total ingestion runs, by outcome",
	}, []string{"outcome"})

	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dmmap",
		Subsystem: "ingest",
		Name:      "duration_seconds",
		Help:      "Duration of ingestion runs",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	})
)

// ObserveIngest records the outcome of one ingestion run.
func ObserveIngest(stats geom.Stats, took time.Duration, err error) {
	IngestDuration.Observe(took.Seconds())
	if err != nil {
		IngestRuns.WithLabelValues("error").Inc()
		return
	}
	IngestRuns.WithLabelValues("ok").Inc()
	IngestRecords.WithLabelValues("accepted").Add(float64(stats.Accepted))
	IngestRecords.WithLabelValues("rejected").Add(float64(stats.Rejected))
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

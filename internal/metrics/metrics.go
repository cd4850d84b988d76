// Package metrics provides Prometheus instrumentation: standard HTTP metrics
// plus the domain counters for invoice issuance and delivery. Scrape /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "facturapos",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// VentasEmitidas counts successfully issued invoices.
	VentasEmitidas = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "facturapos",
		Subsystem: "ventas",
		Name:      "emitidas_total",
		Help:      "Total number of invoices issued.",
	})

	// EnviosFactura counts delivery attempts by outcome
	// (enviada | omitida | pendiente | error).
	EnviosFactura = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facturapos",
			Subsystem: "envios",
			Name:      "facturas_total",
			Help:      "Invoice email deliveries by outcome.",
		},
		[]string{"estado"},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, VentasEmitidas, EnviosFactura)
}

// Middleware records per-request duration labeled by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

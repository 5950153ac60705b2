package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics instruments inbound request counts and latency.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func NewHTTPMetrics(cfg Config, provider metric.MeterProvider) (*HTTPMetrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "inkvoice"
	}
	meter := provider.Meter(name)

	requests, err := meter.Int64Counter("inkvoice_http_requests_total")
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("inkvoice_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

// GinMiddleware records per-route request metrics.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
			attribute.String("status", strconv.Itoa(c.Writer.Status())),
		)
		ctx := c.Request.Context()
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

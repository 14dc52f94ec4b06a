package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTP metric attributes
var (
	attrMethod = attribute.Key("http.request.method")
	attrRoute  = attribute.Key("http.route")
	attrStatus = attribute.Key("http.response.status_code")
)

var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type httpMetrics struct {
	requests       metric.Int64Counter
	duration       metric.Float64Histogram
	responseSize   metric.Int64Histogram
	activeRequests metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	m := &httpMetrics{}
	var err error
	if m.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests by route and status"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(httpDurationBuckets...),
	); err != nil {
		return nil, err
	}
	if m.responseSize, err = meter.Int64Histogram("http.server.response.body.size",
		metric.WithDescription("HTTP response body size"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.activeRequests, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// HTTPMetrics records request count, latency, response size and in-flight
// requests on meter. Routes are recorded by pattern; unmatched paths share
// the "unknown" route.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		base := []attribute.KeyValue{attrMethod.String(c.Request.Method), attrRoute.String(route)}

		m.activeRequests.Add(ctx, 1, metric.WithAttributes(base...))
		defer m.activeRequests.Add(ctx, -1, metric.WithAttributes(base...))

		c.Next()

		m.requests.Add(ctx, 1, metric.WithAttributes(append(base, attrStatus.Int(c.Writer.Status()))...))
		m.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(base...))
		if size := c.Writer.Size(); size > 0 {
			m.responseSize.Record(ctx, int64(size), metric.WithAttributes(base...))
		}
	}, nil
}

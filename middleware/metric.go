package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restaurant/cache"
	"restaurant/store"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

// InitMetrics registers the HTTP, cache and backend collectors with reg.
func InitMetrics(reg prometheus.Registerer) {
	reg.MustRegister(HttpRequestsTotal, HttpRequestDuration, cache.Requests, store.Fallbacks)
}

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}

// MetricsHandler serves /metrics to the listed client IPs only.
func MetricsHandler(gatherer prometheus.Gatherer, allowed []string) gin.HandlerFunc {
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		if !slices.Contains(allowed, c.ClientIP()) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		h.ServeHTTP(c.Writer, c.Request)
	}
}

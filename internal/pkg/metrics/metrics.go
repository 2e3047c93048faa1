// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interntrack_http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "interntrack_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// StudentsImported counts rows successfully imported from CSV batches
	StudentsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interntrack_students_imported_total",
		Help: "Students imported from CSV batches.",
	})

	// NotificationsCreated counts dispatched notifications
	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interntrack_notifications_created_total",
		Help: "Notifications composed and dispatched.",
	})

	// LiveClients tracks currently connected dashboard feed clients
	LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "interntrack_live_clients",
		Help: "Connected dashboard feed clients.",
	})
)

// GinMiddleware records request counts and latency per route
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the /metrics endpoint handler
func Handler() http.Handler {
	return promhttp.Handler()
}

package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests)
	prometheus.MustRegister(httpRequestDuration)
}

func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(ctx.Request.Method, ctx.FullPath()))
		ctx.Next()
		timer.ObserveDuration()

		httpRequests.WithLabelValues(
			ctx.Request.Method,
			ctx.FullPath(),
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()
	}
}

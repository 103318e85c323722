package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendify_records_added_total",
		Help: "Attendance records created.",
	})
	RecordsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendify_records_removed_total",
		Help: "Attendance delete operations confirmed.",
	})
	Summaries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendify_summaries_total",
		Help: "Summary requests by outcome.",
	}, []string{"outcome"})
	SummaryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "attendify_summary_duration_seconds",
		Help:    "Time spent waiting on the text generation service.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	})
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "attendify_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
)

// GinMiddleware records request latency per route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

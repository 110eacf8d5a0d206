package web

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of one server.
// Each server has its own registry.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	loadFailures *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmap",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "code"})
	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eventmap",
		Name:      "http_request_duration_seconds",
		Help:      "Time spent handling HTTP requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	m.loadFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmap",
		Name:      "events_load_failures_total",
		Help:      "Failed reads of the events document by reason",
	}, []string{"reason"})

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.loadFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware counts and times every request
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// LoadFailure counts one failed events document read
func (m *Metrics) LoadFailure(reason string) {
	m.loadFailures.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

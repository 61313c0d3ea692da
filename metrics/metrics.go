package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of the booking service on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	BookingsTotal   *prometheus.CounterVec
	UploadsTotal    *prometheus.CounterVec
	UploadLatency   prometheus.Histogram
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers all collectors under namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking submissions handled, by outcome",
		}, []string{"outcome"}),
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_uploads_total",
			Help:      "Report uploads sent to the upload relay, by outcome",
		}, []string{"outcome"}),
		UploadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_upload_duration_seconds",
			Help:      "Time spent uploading one report",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
		}, []string{"method", "path", "status"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
	m.registry.MustRegister(
		m.BookingsTotal,
		m.UploadsTotal,
		m.UploadLatency,
		m.RequestDuration,
		m.RequestsTotal,
	)
	return m
}

// ObserveBooking counts one booking outcome. Safe on a nil receiver.
func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveUpload counts one relay upload and its duration. Safe on a nil receiver.
func (m *Metrics) ObserveUpload(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(outcome).Inc()
	m.UploadLatency.Observe(d.Seconds())
}

// Middleware records duration and count of every request.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

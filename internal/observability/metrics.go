package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors used by the API and dispatch flows.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal         *prometheus.CounterVec
	httpRequestDuration       *prometheus.HistogramVec
	notificationsCreatedTotal *prometheus.CounterVec
	notificationsFailedTotal  *prometheus.CounterVec
	dispatchDuration          prometheus.Histogram
	donorMatchesTotal         prometheus.Counter
	sosMessagesSentTotal      prometheus.Counter
	sosMessagesFailedTotal    prometheus.Counter
	servicesDiscoveredTotal   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "response_engine",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "response_engine",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		notificationsCreatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "response_engine",
				Name:      "notifications_created_total",
				Help:      "Total number of notifications created successfully by recipient category.",
			},
			[]string{"category"},
		),
		notificationsFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "response_engine",
				Name:      "notifications_failed_total",
				Help:      "Total number of notification creates that failed by category and reason.",
			},
			[]string{"category", "reason"},
		),
		dispatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "response_engine",
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of a full notification dispatch fan-out in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		donorMatchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "response_engine",
				Name:      "donor_matches_total",
				Help:      "Total number of donors matched to blood requests.",
			},
		),
		sosMessagesSentTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "response_engine",
				Name:      "sos_messages_sent_total",
				Help:      "Total number of direct SOS messages sent to donors.",
			},
		),
		sosMessagesFailedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "response_engine",
				Name:      "sos_messages_failed_total",
				Help:      "Total number of direct SOS messages that failed to send.",
			},
		),
		servicesDiscoveredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "response_engine",
				Name:      "services_discovered_total",
				Help:      "Total number of emergency services matched inside the search radius by category.",
			},
			[]string{"category"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.notificationsCreatedTotal,
		m.notificationsFailedTotal,
		m.dispatchDuration,
		m.donorMatchesTotal,
		m.sosMessagesSentTotal,
		m.sosMessagesFailedTotal,
		m.servicesDiscoveredTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncNotificationCreated(category string) {
	if m == nil {
		return
	}
	m.notificationsCreatedTotal.WithLabelValues(normalizeCategory(category)).Inc()
}

func (m *Metrics) IncNotificationFailed(category string, reason string) {
	if m == nil {
		return
	}
	reasonLabel := strings.TrimSpace(strings.ToLower(reason))
	if reasonLabel == "" {
		reasonLabel = "unknown"
	}
	m.notificationsFailedTotal.WithLabelValues(normalizeCategory(category), reasonLabel).Inc()
}

func (m *Metrics) ObserveDispatchDuration(duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.dispatchDuration.Observe(seconds)
}

func (m *Metrics) AddDonorMatches(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.donorMatchesTotal.Add(float64(count))
}

func (m *Metrics) IncSOSMessageSent() {
	if m == nil {
		return
	}
	m.sosMessagesSentTotal.Inc()
}

func (m *Metrics) IncSOSMessageFailed() {
	if m == nil {
		return
	}
	m.sosMessagesFailedTotal.Inc()
}

func (m *Metrics) AddServicesDiscovered(category string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.servicesDiscoveredTotal.WithLabelValues(normalizeCategory(category)).Add(float64(count))
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func normalizeCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}

package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.DefaultRegisterer

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by path/method/code.",
		},
		[]string{"path", "method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by path/method/code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "code"},
	)

	teamEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "team_operations_total",
			Help: "Team and task workflow operations by operation and result.",
		},
		[]string{"op", "result"},
	)

	teamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "team_operation_duration_seconds",
			Help:    "Duration of team workflow operations by op and result.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "result"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Outbox deliveries by result.",
		},
		[]string{"result"},
	)

	eventSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "team_event_subscribers",
			Help: "Open websocket subscriptions to team events.",
		},
	)
)

// Middleware records request count and latency by route pattern
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		// unmatched routes report the raw path
		if path == "" || path == "/" {
			path = c.Path()
		}
		if path == "/metrics" || strings.HasSuffix(path, "/events") {
			return err
		}

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		code := strconv.Itoa(status)
		method := c.Method()

		httpRequests.WithLabelValues(path, method, code).Inc()
		httpDuration.WithLabelValues(path, method, code).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the prometheus exposition format
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func ObserveTeamOp(op string, start time.Time, result string) {
	teamEvents.WithLabelValues(op, result).Inc()
	teamDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

func ObserveNotification(result string) {
	notifications.WithLabelValues(result).Inc()
}

func AddEventSubscribers(delta float64) {
	eventSubscribers.Add(delta)
}

func init() {
	collectors := []prometheus.Collector{
		httpRequests,
		httpDuration,
		teamEvents,
		teamDuration,
		notifications,
		eventSubscribers,
	}

	for _, c := range collectors {
		_ = registry.Register(c)
	}
}

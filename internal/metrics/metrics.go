// Package metrics registers the Prometheus collectors for mission control.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the process-wide collectors.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	TableOperationsTotal   *prometheus.CounterVec
	TableOperationDuration *prometheus.HistogramVec

	RemindersSentTotal *prometheus.CounterVec
}

// NewMetrics returns the shared collectors, registering them on first use.
//
//   - mc_http_requests_total{method,route,status}
//   - mc_http_request_duration_seconds{method,route}
//   - mc_table_operations_total{op,status}
//   - mc_table_operation_duration_seconds{op}
//   - mc_reminders_sent_total{kind}
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mc_http_requests_total",
					Help: "Total number of HTTP requests handled",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "mc_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
			TableOperationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mc_table_operations_total",
					Help: "Total number of record table operations",
				},
				[]string{"op", "status"}, // status: ok or the error type
			),
			TableOperationDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "mc_table_operation_duration_seconds",
					Help:    "Record table operation latency in seconds",
					Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
				},
				[]string{"op"},
			),
			RemindersSentTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mc_reminders_sent_total",
					Help: "Total number of reminder notifications sent",
				},
				[]string{"kind"}, // "alarm" or "digest"
			),
		}
	})
	return globalMetrics
}

// ReminderSent counts one delivered notification.
func (m *Metrics) ReminderSent(kind string) {
	m.RemindersSentTotal.WithLabelValues(kind).Inc()
}

// Middleware records request counts and latency labelled by the matched route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler pick the status before it is recorded
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

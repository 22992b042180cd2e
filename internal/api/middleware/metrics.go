// Package middleware provides Echo middleware for the pricing engine API.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cardstock/pricing-engine/internal/metrics"
)

// operationalGauges maps probe and scrape paths to an up/down gauge.
// A nil gauge means the path is excluded from metrics entirely.
// These endpoints are hit constantly by infrastructure; recording them
// in the request histogram would drown out storefront traffic.
var operationalGauges = map[string]prometheus.Gauge{
	"/metrics": nil,
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and
// status counts. Operational paths bypass the histogram and counter;
// health probes instead flip a 0/1 gauge on each response.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if gauge, operational := operationalGauges[path]; operational {
				err := next(c)
				if gauge != nil {
					setUpDown(gauge, c.Response().Status)
				}
				return err
			}

			start := time.Now()
			err := next(c)

			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}

func setUpDown(gauge prometheus.Gauge, status int) {
	if status >= 200 && status < 300 {
		gauge.Set(1)
	} else {
		gauge.Set(0)
	}
}

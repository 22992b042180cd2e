package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardstock/pricing-engine/internal/metrics"
)

func runRequest(t *testing.T, path string, status int) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Metrics()(func(c echo.Context) error {
		return c.NoContent(status)
	})
	require.NoError(t, handler(c))
}

func TestMetrics_CountsAPIRequests(t *testing.T) {
	before := ptestutil.ToFloat64(
		metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/featured", "200"),
	)

	runRequest(t, "/api/v1/featured", http.StatusOK)

	after := ptestutil.ToFloat64(
		metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/featured", "200"),
	)
	assert.Equal(t, before+1, after)
}

func TestMetrics_SkipsOperationalPaths(t *testing.T) {
	runRequest(t, "/metrics", http.StatusOK)

	// The counter vec must not grow a series for /metrics itself.
	count := ptestutil.ToFloat64(
		metrics.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200"),
	)
	assert.Zero(t, count)
}

func TestMetrics_HealthGauges(t *testing.T) {
	runRequest(t, "/healthz", http.StatusOK)
	assert.Equal(t, float64(1), ptestutil.ToFloat64(metrics.HealthzUp))

	runRequest(t, "/readyz", http.StatusServiceUnavailable)
	assert.Equal(t, float64(0), ptestutil.ToFloat64(metrics.ReadyzUp))

	runRequest(t, "/readyz", http.StatusOK)
	assert.Equal(t, float64(1), ptestutil.ToFloat64(metrics.ReadyzUp))
}

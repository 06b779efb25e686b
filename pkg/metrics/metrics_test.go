package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/users/:userId", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/users/1", "/users/2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/users/:userId",status="200"} 2`)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
}

func TestObservers(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.ObserveGuard("is_admin", false)
	m.ObserveGuard("has_role", true)
	m.ObserveRoleSource("fail_open")
	m.ObserveIdentitySource("header")

	body := scrape(t, m)
	assert.Contains(t, body, `authz_guard_decisions_total{guard="is_admin",result="deny"} 1`)
	assert.Contains(t, body, `authz_guard_decisions_total{guard="has_role",result="allow"} 1`)
	assert.Contains(t, body, `authz_role_resolutions_total{source="fail_open"} 1`)
	assert.Contains(t, body, `identity_extractions_total{source="header"} 1`)
}

func TestNew_SameRegistryTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.NoError(t, err)
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveGuard("is_admin", true)
		m.ObserveRoleSource("store")
		m.ObserveIdentitySource("query")
		assert.NoError(t, m.RegisterPool(nil))
	})

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

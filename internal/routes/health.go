package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"user-service/pkg/metrics"
)

func runHealthRouter(e *echo.Echo, serviceName string, m *metrics.Metrics) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "ok",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

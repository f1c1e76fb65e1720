package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"smsinbox/internal/boot"
)

type ReadinessProbe interface {
	Ready() error
}

// Live reports only that the process is running.
func Live() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "live"})
	}
}

// Ready reports whether the service can correctly take traffic: the
// shared secret must be configured and the store must answer its
// probe. The secret check comes first and does not depend on storage.
func Ready(config *boot.Config, probe ReadinessProbe) echo.HandlerFunc {
	return func(c echo.Context) error {
		if config.WebhookSecret == "" {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"status": "not_ready",
				"reason": "missing WEBHOOK_SECRET",
			})
		}

		if err := probe.Ready(); err != nil {
			c.Logger().Errorf("readiness probe: %+v", err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"status": "not_ready",
				"reason": "db not ready",
			})
		}

		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	}
}

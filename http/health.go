package http

import (
	"context"
	"net/http"
	"time"

	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type HealthzHandler struct {
	redisClient *redis.Client
}

// NewHealthzHandler registers the probes. redisClient is nil unless the
// session lives in redis.
func NewHealthzHandler(e *echo.Echo, redisClient *redis.Client) {
	healthzHandler := HealthzHandler{redisClient: redisClient}

	e.GET("/livez", healthzHandler.Livez)
	e.GET("/readyz", healthzHandler.Readyz)
}

func (hh *HealthzHandler) Livez(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (hh *HealthzHandler) Readyz(c echo.Context) error {
	if hh.redisClient == nil {
		return c.NoContent(http.StatusOK)
	}

	redisCtx, redisCtxCancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer redisCtxCancel()
	if err := hh.redisClient.Ping(redisCtx).Err(); err != nil {
		logger.Context(c.Request().Context()).Error(err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}

	return c.NoContent(http.StatusOK)
}

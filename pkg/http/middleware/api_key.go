package httpmiddleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/labstack/echo/v4"
)

const apiKeyHeader = "X-API-Key"

// ApiKey rejects requests whose X-API-Key header differs from apiKey. An empty
// apiKey leaves the routes open.
func ApiKey(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if apiKey == "" {
				return next(c)
			}

			given := c.Request().Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
				logger.Context(c.Request().Context()).Warnf("api key mismatch for %s %s", c.Request().Method, c.Path())
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "api key is not found"})
			}

			return next(c)
		}
	}
}

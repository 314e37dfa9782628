package httpmiddleware

import (
	"context"
	"net/http"

	"github.com/kinkando/score-admin/model"
	"github.com/labstack/echo/v4"
)

// Session answers 401 while no operator is signed in. signedIn is asked on
// every request since the session may end between two of them.
func Session(signedIn func(ctx context.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !signedIn(c.Request().Context()) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": model.ErrSignInRequired.Error()})
			}
			return next(c)
		}
	}
}

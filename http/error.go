package http

import (
	"errors"
	"net/http"

	"github.com/kinkando/score-admin/model"
	"github.com/labstack/echo/v4"
)

// errorStatus maps a service failure onto the status the console answers with.
func errorStatus(err error) int {
	var (
		authErr       *model.AuthenticationError
		validationErr *model.ValidationError
		backendErr    *model.BackendError
	)

	switch {
	case errors.Is(err, model.ErrSignInRequired), errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &validationErr), errors.Is(err, model.ErrRejectReasonRequired):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrAlreadyVerified), errors.Is(err, model.ErrRejectNotInitiated):
		return http.StatusConflict
	case errors.Is(err, model.ErrScoreNotFound):
		return http.StatusNotFound
	case errors.As(err, &backendErr):
		if backendErr.StatusCode >= http.StatusInternalServerError {
			return http.StatusBadGateway
		}
		return backendErr.StatusCode
	}
	return http.StatusInternalServerError
}

func errorResponse(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), echo.Map{"error": err.Error()})
}

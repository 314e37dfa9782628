package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/score-admin/model"
	httpmiddleware "github.com/kinkando/score-admin/pkg/http/middleware"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/kinkando/score-admin/service"
	"github.com/labstack/echo/v4"
)

type AuthenHandler struct {
	authenService service.Authen
	validate      *validator.Validate
}

func NewAuthenHandler(e *echo.Echo, validate *validator.Validate, apiKey string, authenService service.Authen) {
	handler := &AuthenHandler{
		authenService: authenService,
		validate:      validate,
	}

	route := e.Group("/auth", httpmiddleware.ApiKey(apiKey))
	route.POST("/sign-in", handler.signIn)
	route.POST("/sign-out", handler.signOut)
	route.GET("/session", handler.session)
}

func (h *AuthenHandler) signIn(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.SignInRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	session, err := h.authenService.SignIn(ctx, req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, session)
}

func (h *AuthenHandler) signOut(c echo.Context) error {
	h.authenService.SignOut(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthenHandler) session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.authenService.Session(c.Request().Context()))
}

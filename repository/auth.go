package repository

import (
	"context"
	"errors"
	"net/http"

	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/labstack/echo/v4"
)

const (
	signInPath  = "/auth/sign-in"
	reissuePath = "/auth/reissue"
)

// Auth talks to the unauthenticated endpoints of the backend. Its client must
// not go through the token interceptor.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (model.JWT, error)
	Reissue(ctx context.Context, refreshToken string) (string, error)
}

type auth struct {
	rest *restClient
}

func NewAuthRepository(baseURL string, client *http.Client) Auth {
	return &auth{
		rest: &restClient{baseURL: baseURL, client: client},
	}
}

func (r *auth) SignIn(ctx context.Context, email, password string) (jwt model.JWT, err error) {
	err = r.rest.do(ctx, restRequest{
		method: http.MethodPost,
		path:   signInPath,
		body:   model.SignInRequest{Email: email, Password: password},
	}, &jwt)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.JWT{}, asAuthenticationError(err)
	}
	return jwt, nil
}

func (r *auth) Reissue(ctx context.Context, refreshToken string) (string, error) {
	header := http.Header{}
	header.Set(echo.HeaderAuthorization, "Bearer "+refreshToken)

	var res model.ReissueResponse
	err := r.rest.do(ctx, restRequest{
		method: http.MethodPost,
		path:   reissuePath,
		header: header,
		body:   struct{}{},
	}, &res)
	if err != nil {
		logger.Context(ctx).Error(err)
		return "", asAuthenticationError(err)
	}

	if res.AccessToken == "" {
		return "", &model.AuthenticationError{StatusCode: http.StatusOK, Message: "reissue response carries no access token"}
	}
	return res.AccessToken, nil
}

// asAuthenticationError turns a 4xx answer into an authentication failure.
// Transport errors and 5xx answers are returned unchanged.
func asAuthenticationError(err error) error {
	var backendErr *model.BackendError
	if errors.As(err, &backendErr) && backendErr.StatusCode >= 400 && backendErr.StatusCode < 500 {
		return &model.AuthenticationError{StatusCode: backendErr.StatusCode, Message: backendErr.Message}
	}
	return err
}

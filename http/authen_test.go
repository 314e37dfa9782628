package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/score-admin/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenService struct {
	session  model.Session
	err      error
	signedIn []model.SignInRequest
	signOuts int
}

func (s *stubAuthenService) SignIn(_ context.Context, req model.SignInRequest) (model.Session, error) {
	s.signedIn = append(s.signedIn, req)
	return s.session, s.err
}

func (s *stubAuthenService) SignOut(context.Context) {
	s.signOuts++
}

func (s *stubAuthenService) Session(context.Context) model.Session {
	return s.session
}

func TestAuthenHandler(t *testing.T) {
	svc := &stubAuthenService{session: model.Session{SignedIn: true, Subject: "7"}}
	e := echo.New()
	NewAuthenHandler(e, validator.New(), "", svc)

	rec := call(e, http.MethodPost, "/auth/sign-in", `{"email":"admin@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"signedIn":true,"subject":"7"}`, rec.Body.String())
	require.Len(t, svc.signedIn, 1)
	assert.Equal(t, "admin@example.com", svc.signedIn[0].Email)

	rec = call(e, http.MethodPost, "/auth/sign-in", `{"email":"not-an-email","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, svc.signedIn, 1)

	svc.err = &model.AuthenticationError{StatusCode: http.StatusUnauthorized, Message: "bad credentials"}
	rec = call(e, http.MethodPost, "/auth/sign-in", `{"email":"admin@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad credentials")

	rec = call(e, http.MethodGet, "/auth/session", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, http.MethodPost, "/auth/sign-out", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, svc.signOuts)
}

func TestAuthenHandlerApiKey(t *testing.T) {
	e := echo.New()
	NewAuthenHandler(e, validator.New(), "s3cret", &stubAuthenService{})

	rec := call(e, http.MethodGet, "/auth/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

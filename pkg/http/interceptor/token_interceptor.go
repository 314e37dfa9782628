package httpinterceptor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/kinkando/score-admin/pkg/option"
	"github.com/kinkando/score-admin/pkg/token"
	"github.com/labstack/echo/v4"
)

// TokenStore is the part of the session storage the interceptor needs.
type TokenStore interface {
	LoadAccessToken(ctx context.Context) string
	SaveAccessToken(ctx context.Context, token string)
	LoadRefreshToken(ctx context.Context) string
	Clear(ctx context.Context)
}

// Reissuer exchanges a refresh token for a new access token.
type Reissuer interface {
	Reissue(ctx context.Context, refreshToken string) (string, error)
}

// retryState tracks a single request through the authorization retry.
// Transitions only move forward: initial -> refreshing -> retried.
type retryState int

const (
	stateInitial retryState = iota
	stateRefreshing
	stateRetried
)

// TokenTransport attaches the stored access token to every request, reissuing
// it first when it is missing or expired. A 401 or 403 answer triggers one
// reissue and exactly one retry of the request with the new token.
//
// Concurrent requests holding an expired token each reissue on their own.
type TokenTransport struct {
	Transport http.RoundTripper
	store     TokenStore
	reissuer  Reissuer
	now       func() time.Time
}

func NewTokenTransport(store TokenStore, reissuer Reissuer, opts ...option.HTTPInterceptorTokenOption) *TokenTransport {
	ht := &option.HTTPInterceptorToken{
		Transport: http.DefaultTransport,
		Now:       time.Now,
	}
	for _, opt := range opts {
		opt.Apply(ht)
	}

	return &TokenTransport{
		Transport: ht.Transport,
		store:     store,
		reissuer:  reissuer,
		now:       ht.Now,
	}
}

func (tt *TokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	body, err := drainBody(req)
	if err != nil {
		return nil, err
	}

	outbound := withBearer(req, body, tt.accessToken(ctx))
	state := stateInitial
	for {
		res, err := tt.Transport.RoundTrip(outbound)
		if err != nil {
			return nil, err
		}
		if !isAuthorizationFailure(res.StatusCode) || state == stateRetried {
			return res, nil
		}

		discard(res)
		state = stateRefreshing

		accessToken, err := tt.reissueAfterRejection(ctx)
		if err != nil {
			return nil, err
		}

		outbound = withBearer(req, body, accessToken)
		state = stateRetried
	}
}

// accessToken returns a usable access token for an outgoing request, or ""
// when the request has to go out without a credential.
func (tt *TokenTransport) accessToken(ctx context.Context) string {
	accessToken := tt.store.LoadAccessToken(ctx)
	if accessToken != "" && !token.IsExpiredAt(accessToken, tt.now()) {
		return accessToken
	}

	refreshToken := tt.store.LoadRefreshToken(ctx)
	if refreshToken == "" || token.IsExpiredAt(refreshToken, tt.now()) {
		tt.store.Clear(ctx)
		return ""
	}

	accessToken, err := tt.reissuer.Reissue(ctx, refreshToken)
	if err != nil {
		tt.store.Clear(ctx)
		logger.Context(ctx).Errorf("httpinterceptor: reissue access token: %v", err)
		return ""
	}

	tt.store.SaveAccessToken(ctx, accessToken)
	return accessToken
}

// reissueAfterRejection runs after the backend refused the credential. Any
// failure ends the session.
func (tt *TokenTransport) reissueAfterRejection(ctx context.Context) (string, error) {
	refreshToken := tt.store.LoadRefreshToken(ctx)
	if refreshToken == "" || token.IsExpiredAt(refreshToken, tt.now()) {
		tt.store.Clear(ctx)
		return "", model.ErrSignInRequired
	}

	accessToken, err := tt.reissuer.Reissue(ctx, refreshToken)
	if err != nil {
		tt.store.Clear(ctx)
		logger.Context(ctx).Errorf("httpinterceptor: reissue access token after rejection: %v", err)
		return "", fmt.Errorf("%w: %v", model.ErrSignInRequired, err)
	}

	tt.store.SaveAccessToken(ctx, accessToken)
	return accessToken, nil
}

func isAuthorizationFailure(statusCode int) bool {
	return statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden
}

// drainBody reads the request body once so it can be replayed on retry.
func drainBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	return io.ReadAll(req.Body)
}

func withBearer(req *http.Request, body []byte, accessToken string) *http.Request {
	out := req.Clone(req.Context())
	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		out.ContentLength = int64(len(body))
	}

	if accessToken == "" {
		out.Header.Del(echo.HeaderAuthorization)
	} else {
		out.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	}
	return out
}

func discard(res *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
	_ = res.Body.Close()
}

package httpinterceptor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/option"
	"github.com/kinkando/score-admin/repository"
	"github.com/stretchr/testify/require"
)

var testNow = time.Unix(1_700_000_000, 0)

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

// recorder keeps the order of reissue and backend calls.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeReissuer struct {
	rec         *recorder
	accessToken string
	err         error
	calls       int
	gotRefresh  string
}

func (f *fakeReissuer) Reissue(_ context.Context, refreshToken string) (string, error) {
	f.calls++
	f.gotRefresh = refreshToken
	f.rec.add("reissue")
	if f.err != nil {
		return "", f.err
	}
	return f.accessToken, nil
}

type backendCall struct {
	authorization string
	body          string
}

type fakeBackend struct {
	srv      *httptest.Server
	mu       sync.Mutex
	calls    []backendCall
	statuses []int
}

// newFakeBackend answers with statuses in order, repeating the last one.
func newFakeBackend(t *testing.T, rec *recorder, statuses ...int) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{statuses: statuses}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.calls = append(fb.calls, backendCall{authorization: r.Header.Get("Authorization"), body: string(body)})
		idx := len(fb.calls) - 1
		if idx >= len(fb.statuses) {
			idx = len(fb.statuses) - 1
		}
		status := fb.statuses[idx]
		fb.mu.Unlock()

		rec.add("backend")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(http.StatusText(status)))
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) recorded() []backendCall {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]backendCall(nil), fb.calls...)
}

type fixture struct {
	store    repository.TokenStore
	reissuer *fakeReissuer
	backend  *fakeBackend
	rec      *recorder
	client   *http.Client
}

func newFixture(t *testing.T, statuses ...int) *fixture {
	t.Helper()
	rec := &recorder{}
	f := &fixture{
		store:    repository.NewMemoryTokenStore(),
		reissuer: &fakeReissuer{rec: rec},
		backend:  newFakeBackend(t, rec, statuses...),
		rec:      rec,
	}
	transport := NewTokenTransport(f.store, f.reissuer,
		option.WithHTTPInterceptorTokenClock(func() time.Time { return testNow }),
	)
	f.client = &http.Client{Transport: transport}
	return f
}

func (f *fixture) get(t *testing.T) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, f.backend.srv.URL+"/scores/gpas", nil)
	require.NoError(t, err)
	res, err := f.client.Do(req)
	if res != nil {
		t.Cleanup(func() { _ = res.Body.Close() })
	}
	return res, err
}

func TestTokenTransport_ValidAccessTokenIsAttached(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	access := tokenExpiringAt(t, testNow.Add(time.Hour))
	f.store.SaveAccessToken(context.Background(), access)

	res, err := f.get(t)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	calls := f.backend.recorded()
	require.Len(t, calls, 1)
	require.Equal(t, "Bearer "+access, calls[0].authorization)
	require.Zero(t, f.reissuer.calls)
}

func TestTokenTransport_ExpiredAccessTokenIsReissuedFirst(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	ctx := context.Background()
	refresh := tokenExpiringAt(t, testNow.Add(24*time.Hour))
	fresh := tokenExpiringAt(t, testNow.Add(time.Hour))
	f.store.SaveAccessToken(ctx, tokenExpiringAt(t, testNow.Add(-time.Second)))
	f.store.SaveRefreshToken(ctx, refresh)
	f.reissuer.accessToken = fresh

	res, err := f.get(t)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.Equal(t, []string{"reissue", "backend"}, f.rec.list())
	require.Equal(t, refresh, f.reissuer.gotRefresh)
	require.Equal(t, "Bearer "+fresh, f.backend.recorded()[0].authorization)
	require.Equal(t, fresh, f.store.LoadAccessToken(ctx))
	require.Equal(t, refresh, f.store.LoadRefreshToken(ctx))
}

func TestTokenTransport_MissingAccessTokenIsReissued(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusOK)
	f.store.SaveRefreshToken(context.Background(), tokenExpiringAt(t, testNow.Add(time.Hour)))
	f.reissuer.accessToken = tokenExpiringAt(t, testNow.Add(time.Hour))

	_, err := f.get(t)
	require.NoError(t, err)
	require.Equal(t, 1, f.reissuer.calls)
	require.Len(t, f.backend.recorded(), 1)
}

func TestTokenTransport_NoUsableRefreshTokenSendsWithoutCredential(t *testing.T) {
	t.Parallel()

	cases := map[string]func(t *testing.T, store repository.TokenStore){
		"expired refresh token": func(t *testing.T, store repository.TokenStore) {
			store.SaveAccessToken(context.Background(), tokenExpiringAt(t, testNow.Add(-time.Minute)))
			store.SaveRefreshToken(context.Background(), tokenExpiringAt(t, testNow.Add(-time.Second)))
		},
		"absent refresh token": func(t *testing.T, store repository.TokenStore) {
			store.SaveAccessToken(context.Background(), tokenExpiringAt(t, testNow.Add(-time.Minute)))
		},
		"malformed refresh token": func(t *testing.T, store repository.TokenStore) {
			store.SaveRefreshToken(context.Background(), "garbage")
		},
		"no session": func(*testing.T, repository.TokenStore) {},
	}

	for name, seed := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, http.StatusOK)
			seed(t, f.store)

			_, err := f.get(t)
			require.NoError(t, err)

			calls := f.backend.recorded()
			require.Len(t, calls, 1)
			require.Empty(t, calls[0].authorization)
			require.Zero(t, f.reissuer.calls)
			require.Empty(t, f.store.LoadAccessToken(context.Background()))
			require.Empty(t, f.store.LoadRefreshToken(context.Background()))
		})
	}
}

func TestTokenTransport_ReissueFailureBeforeRequestClearsSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusUnauthorized)
	ctx := context.Background()
	f.store.SaveRefreshToken(ctx, tokenExpiringAt(t, testNow.Add(time.Hour)))
	f.reissuer.err = &model.AuthenticationError{StatusCode: http.StatusUnauthorized, Message: "revoked"}

	_, err := f.get(t)
	require.ErrorIs(t, err, model.ErrSignInRequired)

	calls := f.backend.recorded()
	require.Len(t, calls, 1)
	require.Empty(t, calls[0].authorization)
	require.Equal(t, 1, f.reissuer.calls, "the 401 finds no refresh token left and does not reissue again")
	require.Empty(t, f.store.LoadRefreshToken(ctx))
}

func TestTokenTransport_UnauthorizedIsRetriedOnceWithNewToken(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			f := newFixture(t, status, http.StatusOK)
			ctx := context.Background()
			stale := tokenExpiringAt(t, testNow.Add(time.Hour))
			fresh := tokenExpiringAt(t, testNow.Add(2*time.Hour))
			f.store.SaveAccessToken(ctx, stale)
			f.store.SaveRefreshToken(ctx, tokenExpiringAt(t, testNow.Add(24*time.Hour)))
			f.reissuer.accessToken = fresh

			res, err := f.get(t)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, res.StatusCode)

			calls := f.backend.recorded()
			require.Len(t, calls, 2)
			require.Equal(t, "Bearer "+stale, calls[0].authorization)
			require.Equal(t, "Bearer "+fresh, calls[1].authorization)
			require.Equal(t, []string{"backend", "reissue", "backend"}, f.rec.list())
			require.Equal(t, fresh, f.store.LoadAccessToken(ctx))
		})
	}
}

func TestTokenTransport_NeverRetriesTwice(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusUnauthorized)
	ctx := context.Background()
	f.store.SaveAccessToken(ctx, tokenExpiringAt(t, testNow.Add(time.Hour)))
	f.store.SaveRefreshToken(ctx, tokenExpiringAt(t, testNow.Add(24*time.Hour)))
	f.reissuer.accessToken = tokenExpiringAt(t, testNow.Add(2*time.Hour))

	res, err := f.get(t)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Len(t, f.backend.recorded(), 2)
	require.Equal(t, 1, f.reissuer.calls)
}

func TestTokenTransport_UnauthorizedWithoutUsableRefreshToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusUnauthorized)
	ctx := context.Background()
	f.store.SaveAccessToken(ctx, tokenExpiringAt(t, testNow.Add(time.Hour)))
	f.store.SaveRefreshToken(ctx, tokenExpiringAt(t, testNow.Add(-time.Hour)))

	_, err := f.get(t)
	require.ErrorIs(t, err, model.ErrSignInRequired)
	require.Len(t, f.backend.recorded(), 1)
	require.Zero(t, f.reissuer.calls)
	require.Empty(t, f.store.LoadAccessToken(ctx))
	require.Empty(t, f.store.LoadRefreshToken(ctx))
}

func TestTokenTransport_UnauthorizedAndReissueRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusUnauthorized)
	ctx := context.Background()
	f.store.SaveAccessToken(ctx, tokenExpiringAt(t, testNow.Add(time.Hour)))
	f.store.SaveRefreshToken(ctx, tokenExpiringAt(t, testNow.Add(time.Hour)))
	f.reissuer.err = errors.New("refresh token revoked")

	_, err := f.get(t)
	require.ErrorIs(t, err, model.ErrSignInRequired)
	require.Len(t, f.backend.recorded(), 1)
	require.Equal(t, 1, f.reissuer.calls)
	require.Empty(t, f.store.LoadAccessToken(ctx))
	require.Empty(t, f.store.LoadRefreshToken(ctx))
}

func TestTokenTransport_OtherFailuresPassThrough(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusInternalServerError)
	access := tokenExpiringAt(t, testNow.Add(time.Hour))
	f.store.SaveAccessToken(context.Background(), access)

	res, err := f.get(t)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	require.Len(t, f.backend.recorded(), 1)
	require.Zero(t, f.reissuer.calls)
	require.Equal(t, access, f.store.LoadAccessToken(context.Background()))
}

func TestTokenTransport_RetryReplaysBody(t *testing.T) {
	t.Parallel()

	f := newFixture(t, http.StatusUnauthorized, http.StatusOK)
	ctx := context.Background()
	f.store.SaveAccessToken(ctx, tokenExpiringAt(t, testNow.Add(time.Hour)))
	f.store.SaveRefreshToken(ctx, tokenExpiringAt(t, testNow.Add(time.Hour)))
	f.reissuer.accessToken = tokenExpiringAt(t, testNow.Add(time.Hour))

	const payload = `{"verifyStatus":"APPROVED"}`
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, f.backend.srv.URL+"/scores/gpas/42", strings.NewReader(payload))
	require.NoError(t, err)
	res, err := f.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })

	calls := f.backend.recorded()
	require.Len(t, calls, 2)
	require.Equal(t, payload, calls[0].body)
	require.Equal(t, payload, calls[1].body)
}

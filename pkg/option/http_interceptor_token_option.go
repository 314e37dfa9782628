package option

import (
	"net/http"
	"time"
)

type HTTPInterceptorTokenOption interface {
	Apply(*HTTPInterceptorToken)
}

type httpInterceptorTokenOptionFunc func(*HTTPInterceptorToken)

func (f httpInterceptorTokenOptionFunc) Apply(o *HTTPInterceptorToken) {
	f(o)
}

func WithHTTPInterceptorTokenTransport(transport http.RoundTripper) HTTPInterceptorTokenOption {
	return httpInterceptorTokenOptionFunc(func(o *HTTPInterceptorToken) {
		o.Transport = transport
	})
}

// WithHTTPInterceptorTokenClock replaces the clock tokens are checked against.
func WithHTTPInterceptorTokenClock(now func() time.Time) HTTPInterceptorTokenOption {
	return httpInterceptorTokenOptionFunc(func(o *HTTPInterceptorToken) {
		o.Now = now
	})
}

type HTTPInterceptorToken struct {
	Transport http.RoundTripper
	Now       func() time.Time
}

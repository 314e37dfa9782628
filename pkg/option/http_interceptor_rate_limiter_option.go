package option

import (
	"net/http"
	"time"

	"go.uber.org/ratelimit"
)

type HTTPInterceptorRateLimiterOption interface {
	Apply(*HTTPInterceptorRateLimiter)
}

type httpInterceptorRateLimiterOptionFunc func(*HTTPInterceptorRateLimiter)

func (hitrof httpInterceptorRateLimiterOptionFunc) Apply(hitro *HTTPInterceptorRateLimiter) {
	hitrof(hitro)
}

func WithHTTPInterceptorRateLimiterTransport(transport http.RoundTripper) HTTPInterceptorRateLimiterOption {
	return httpInterceptorRateLimiterOptionFunc(func(hitro *HTTPInterceptorRateLimiter) {
		hitro.Transport = transport
	})
}

// WithHTTPInterceptorRateLimiterRate allows at most rate calls per second. A
// non-positive rate disables pacing.
func WithHTTPInterceptorRateLimiterRate(rate int) HTTPInterceptorRateLimiterOption {
	return httpInterceptorRateLimiterOptionFunc(func(hitro *HTTPInterceptorRateLimiter) {
		if rate <= 0 {
			hitro.RateLimiter = ratelimit.NewUnlimited()
			return
		}
		hitro.RateLimiter = ratelimit.New(rate, ratelimit.Per(time.Second))
	})
}

func WithHTTPInterceptorRateLimiterRateLimiter(rateLimiter ratelimit.Limiter) HTTPInterceptorRateLimiterOption {
	return httpInterceptorRateLimiterOptionFunc(func(hitro *HTTPInterceptorRateLimiter) {
		hitro.RateLimiter = rateLimiter
	})
}

type HTTPInterceptorRateLimiter struct {
	Transport   http.RoundTripper
	RateLimiter ratelimit.Limiter
}

package httpinterceptor

import (
	"net/http"
	"time"

	"github.com/kinkando/score-admin/pkg/option"
	"go.uber.org/ratelimit"
)

// RateLimiterTransport paces outgoing calls to the backend.
type RateLimiterTransport struct {
	Transport   http.RoundTripper
	RateLimiter ratelimit.Limiter
}

func NewRateLimiterTransport(opts ...option.HTTPInterceptorRateLimiterOption) *RateLimiterTransport {
	hi := &option.HTTPInterceptorRateLimiter{
		Transport:   http.DefaultTransport,
		RateLimiter: ratelimit.New(100, ratelimit.Per(time.Second)),
	}
	for _, opt := range opts {
		opt.Apply(hi)
	}

	return &RateLimiterTransport{
		Transport:   hi.Transport,
		RateLimiter: hi.RateLimiter,
	}
}

func (rt *RateLimiterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}
	rt.RateLimiter.Take()
	return rt.Transport.RoundTrip(req)
}

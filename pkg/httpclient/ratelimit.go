package httpclient

import (
	"net/http"

	"github.com/go-faster/errors"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the outgoing request limiter.
type RateLimitConfig struct {
	// PerSecond is the sustained request rate. Zero or negative disables
	// limiting.
	PerSecond float64
	// Burst is the number of requests allowed at once. Values below 1 are
	// treated as 1.
	Burst int
}

// RateLimit returns a middleware that delays requests so the client never
// exceeds the configured rate. Waiting honours the request context; a
// cancelled wait fails the request without sending it.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.PerSecond <= 0 {
		return func(next http.RoundTripper) http.RoundTripper { return next }
	}
	burst := max(cfg.Burst, 1)
	limiter := rate.NewLimiter(rate.Limit(cfg.PerSecond), burst)

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if err := limiter.Wait(r.Context()); err != nil {
				return nil, errors.Wrap(err, "rate limit")
			}
			return next.RoundTrip(r)
		})
	}
}

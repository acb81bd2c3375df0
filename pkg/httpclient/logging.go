package httpclient

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// LogRequests returns a middleware that logs each outgoing request with its
// outcome. The logger is taken from the request context.
func LogRequests() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			lg := zctx.From(r.Context())
			if lg == nil {
				lg = zap.NewNop()
			}
			lg = lg.With(
				zap.String("http.method", r.Method),
				zap.String("http.path", r.URL.Path),
				zap.String("request_id", r.Header.Get("X-Request-ID")),
			)

			start := time.Now()
			resp, err := next.RoundTrip(r)
			duration := time.Since(start)

			if err != nil {
				lg.Warn("Request failed", zap.Duration("duration", duration), zap.Error(err))
				return nil, err
			}
			lg.Debug("Request completed",
				zap.Int("http.status", resp.StatusCode),
				zap.Duration("duration", duration),
			)
			return resp, nil
		})
	}
}

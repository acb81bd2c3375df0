package httpclient

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDKey is the context key for a caller-chosen request ID.
type requestIDKey struct{}

// WithRequestID returns a context whose outgoing requests carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request ID set by WithRequestID.
// It returns an empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID returns a middleware that stamps every outgoing request with an
// X-Request-ID header. An ID already on the request or in its context is
// kept when valid; otherwise a new UUID v4 is generated.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			id := r.Header.Get("X-Request-ID")
			if !isValidRequestID(id) {
				id = RequestIDFromContext(r.Context())
			}
			if !isValidRequestID(id) {
				id = uuid.New().String()
			}

			r = r.Clone(r.Context())
			r.Header.Set("X-Request-ID", id)
			return next.RoundTrip(r)
		})
	}
}

// isValidRequestID checks that id is non-empty, at most 128 bytes, and
// contains only printable ASCII (0x20-0x7E).
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}

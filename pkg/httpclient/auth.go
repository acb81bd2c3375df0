package httpclient

import (
	"context"
	"net/http"
)

// TokenSource supplies the bearer token for mutating requests. An empty
// token with a nil error means "not logged in".
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Bearer returns a middleware that attaches "Authorization: Bearer <token>"
// to every request that is not a GET or HEAD. Requests go out without the
// header when no token is available; the service decides what that means.
func Bearer(src TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Header.Get("Authorization") != "" {
				return next.RoundTrip(r)
			}

			token, err := src.Token(r.Context())
			if err != nil {
				return nil, &TokenError{Op: r.Method + " " + r.URL.Path, Err: err}
			}
			if token != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", "Bearer "+token)
			}
			return next.RoundTrip(r)
		})
	}
}

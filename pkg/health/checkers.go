package health

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/AnorgTechnlogies/KHARA-AGRO-ADMIN/pkg/httpclient"
)

// ErrNoToken is reported by TokenCheck when nobody is logged in.
var ErrNoToken = errors.New("not logged in")

// TokenCheck returns a CheckFunc that fails when src has no token.
func TokenCheck(src httpclient.TokenSource) CheckFunc {
	return func(ctx context.Context) error {
		token, err := src.Token(ctx)
		if err != nil {
			return err
		}
		if token == "" {
			return ErrNoToken
		}
		return nil
	}
}

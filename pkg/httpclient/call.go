package httpclient

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 10 << 20

// Envelope is the wrapper every catalog and admin endpoint answers with.
type Envelope struct {
	Success bool
	Message string
}

// FieldFunc decodes an envelope key other than "success" and "message".
// It must consume the value, for example with d.Skip.
type FieldFunc func(d *jx.Decoder, key string) error

// Call sends req and folds the outcome into the failure taxonomy:
// a *TokenError when the bearer token could not be loaded, a
// *TransportError when no response arrived, a *ServiceError when the
// response did not confirm success, and nil otherwise. Payload keys are
// handed to field as they are decoded.
func Call(hc *http.Client, req *http.Request, op string, field FieldFunc) (Envelope, error) {
	resp, err := hc.Do(req)
	if err != nil {
		var tokErr *TokenError
		if errors.As(err, &tokErr) {
			return Envelope{}, &TokenError{Op: op, Err: tokErr.Err}
		}
		return Envelope{}, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Envelope{}, &TransportError{Op: op, Err: errors.Wrap(err, "read body")}
	}

	env, decodeErr := decodeEnvelope(body, field)
	switch {
	case resp.StatusCode >= http.StatusBadRequest:
		return env, &ServiceError{Op: op, Status: resp.StatusCode, Message: env.Message}
	case decodeErr != nil:
		return env, &ServiceError{Op: op, Status: resp.StatusCode, Err: errors.Wrap(decodeErr, "decode response")}
	case !env.Success:
		return env, &ServiceError{Op: op, Status: resp.StatusCode, Message: env.Message}
	}
	return env, nil
}

func decodeEnvelope(body []byte, field FieldFunc) (Envelope, error) {
	var env Envelope
	err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "success":
			if d.Next() != jx.Bool {
				return d.Skip()
			}
			v, err := d.Bool()
			env.Success = v
			return err
		case "message":
			if d.Next() != jx.String {
				return d.Skip()
			}
			v, err := d.Str()
			env.Message = v
			return err
		default:
			if field == nil {
				return d.Skip()
			}
			return field(d, key)
		}
	})
	return env, err
}

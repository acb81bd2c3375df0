package httpclient

import (
	"fmt"
	"net/http"
)

// TransportError reports that a request produced no response at all:
// the connection failed, timed out, or the body could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: no response from server: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TokenError reports that the bearer token could not be loaded. The
// request was never sent.
type TokenError struct {
	Op  string
	Err error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%s: load token: %v", e.Op, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// ServiceError reports a response that did not confirm success: the
// envelope said success=false, the status was an error, or the body could
// not be decoded. Message carries the service-supplied text when present.
type ServiceError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

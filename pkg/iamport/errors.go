package iamport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrTimeout means the gateway did not answer before the deadline.
	ErrTimeout = errors.New("iamport: request timed out")
	// ErrTransport covers connection-level failures other than timeouts.
	ErrTransport = errors.New("iamport: transport failure")
	// ErrRejected means the gateway answered with a non-zero code or an HTTP error status.
	ErrRejected = errors.New("iamport: request rejected by gateway")
	// ErrMalformed means the response could not be decoded or misses required fields.
	ErrMalformed = errors.New("iamport: malformed response")
	// ErrNothingToCancel is returned by Cancel when no cancellable charge exists.
	ErrNothingToCancel = errors.New("iamport: nothing to cancel")
)

// APIError carries the gateway's own code and message. Envelope is false
// when the body was not an iamport JSON envelope (a proxy error page, say),
// in which case Code and Message are synthesized from the HTTP status.
type APIError struct {
	HTTPStatus int
	Code       int
	Message    string
	Envelope   bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("iamport: http=%d code=%d msg=%s", e.HTTPStatus, e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return ErrRejected }

// classifyTransport maps an http.Client error onto ErrTimeout or ErrTransport.
func classifyTransport(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

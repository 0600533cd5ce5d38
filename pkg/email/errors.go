package email

import "fmt"

type ErrDisabled struct{}

func (e ErrDisabled) Error() string { return "email is disabled" }

type ErrInvalidConfig struct{ Reason string }

func (e ErrInvalidConfig) Error() string { return "invalid email config: " + e.Reason }

type ErrInvalidMessage struct{ Reason string }

func (e ErrInvalidMessage) Error() string { return "invalid email message: " + e.Reason }

// ErrSend wraps a delivery failure with the SMTP host that refused it.
type ErrSend struct {
	Host string
	Err  error
}

func (e ErrSend) Error() string { return fmt.Sprintf("email send via %s failed: %v", e.Host, e.Err) }
func (e ErrSend) Unwrap() error { return e.Err }

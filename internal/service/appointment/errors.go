package appointment

import "errors"

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrInvalidDept      = errors.New("unknown hospital department")
	ErrInvalidPhone     = errors.New("invalid appointment phone number")
	ErrInvalidRequest   = errors.New("invalid appointment request")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
)

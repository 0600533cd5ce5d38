package repo

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrPreconditionFailed means a conditional update matched no row
	// because the guarded state had already changed.
	ErrPreconditionFailed = errors.New("precondition failed")

	ErrAlreadyPaid      = errors.New("appointment is already paid")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
)

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

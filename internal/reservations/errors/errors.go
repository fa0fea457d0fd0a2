package errors

import "errors"

var (
	ErrNotFound  = errors.New("booking not found")
	ErrInvalidID = errors.New("invalid booking ID")

	// ErrLockHeld means another request owns the slot bucket right now.
	ErrLockHeld = errors.New("slot bucket lock is held")

	// ErrLeaseGone means the hold lease was already released or reaped.
	ErrLeaseGone = errors.New("hold lease no longer exists")
)

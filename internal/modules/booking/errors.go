package booking

import (
	"errors"
	"fmt"
)

var (
	ErrCommitFailed      = errors.New("booking could not be saved")
	ErrUnauthenticated   = errors.New("acting user is not signed in")
	ErrMissingTrip       = errors.New("trip dates are incomplete")
	ErrNoRooms           = errors.New("no rooms selected")
	ErrRoomNotFound      = errors.New("selected room no longer exists")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrForbidden         = errors.New("booking belongs to another user")
	ErrInvalidTransition = errors.New("booking status does not allow this change")
)

// CommitError is a failed write at one stage of the commit. Nothing was persisted.
type CommitError struct {
	Stage string
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %s: %v", e.Stage, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

func (e *CommitError) Is(target error) bool { return target == ErrCommitFailed }

// OrphanedBookingError means the booking row exists but its payment could not be written.
type OrphanedBookingError struct {
	BookingID string
	Err       error
}

func (e *OrphanedBookingError) Error() string {
	return fmt.Sprintf("booking %s saved without payment: %v", e.BookingID, e.Err)
}

func (e *OrphanedBookingError) Unwrap() error { return e.Err }

func (e *OrphanedBookingError) Is(target error) bool { return target == ErrCommitFailed }

package availability

import (
	"errors"
	"strings"
)

var (
	ErrAvailabilityUnknown = errors.New("cannot determine availability, try again")
	ErrInvalidRange        = errors.New("check-out must be after check-in")
	ErrRoomsUnavailable    = errors.New("rooms are no longer available")
)

// Fault is a failed backend read. It never degrades into "all free" or "all booked".
type Fault struct {
	Op  string
	Err error
}

func (f *Fault) Error() string {
	return "availability: " + f.Op + ": " + f.Err.Error()
}

func (f *Fault) Unwrap() error { return f.Err }

func (f *Fault) Is(target error) bool { return target == ErrAvailabilityUnknown }

type UnavailableError struct {
	RoomIDs []string
}

func (e *UnavailableError) Error() string {
	return "rooms no longer available: " + strings.Join(e.RoomIDs, ", ")
}

func (e *UnavailableError) Is(target error) bool { return target == ErrRoomsUnavailable }

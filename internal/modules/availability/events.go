package availability

import "time"

type EventType string

const (
	EventBookingCommitted EventType = "booking_committed"
	EventBookingConfirmed EventType = "booking_confirmed"
	EventBookingCancelled EventType = "booking_cancelled"
	EventHoldPlaced       EventType = "hold_placed"
	EventHoldReleased     EventType = "hold_released"
)

// Event tells open wizards that the occupancy of some rooms changed.
type Event struct {
	Type      EventType `json:"type"`
	RoomIDs   []string  `json:"roomIds"`
	CheckIn   time.Time `json:"checkInDate,omitempty"`
	CheckOut  time.Time `json:"checkOutDate,omitempty"`
	BookingID string    `json:"bookingId,omitempty"`
	At        time.Time `json:"at"`
}

type pongEvent struct {
	Type string `json:"type"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

package booking

import (
	"time"

	"resortbooking/internal/domain"
)

// Confirmation is what a successful commit reports back to the guest.
type Confirmation struct {
	Booking      domain.Booking `json:"booking"`
	Payment      domain.Payment `json:"payment"`
	Rooms        []domain.Room  `json:"rooms"`
	Nights       int            `json:"nights"`
	ContactEmail string         `json:"contactEmail"`
}

type BookingSummary struct {
	ID           string               `json:"id"`
	CheckIn      time.Time            `json:"checkInDate"`
	CheckOut     time.Time            `json:"checkOutDate"`
	NumGuests    int                  `json:"numGuests"`
	RoomIDs      []string             `json:"roomIds"`
	Status       domain.BookingStatus `json:"status"`
	TotalAmount  *float64             `json:"totalAmount,omitempty"`
	Advance      *float64             `json:"advance,omitempty"`
	PaymentState domain.PaymentStatus `json:"paymentStatus,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
}

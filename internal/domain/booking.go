package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentVerified PaymentStatus = "Verified"
	PaymentRejected PaymentStatus = "Rejected"
)

var ErrInvalidStay = errors.New("check-out must be after check-in")

type Booking struct {
	ID            string        `json:"id" gorm:"column:id;primaryKey"`
	UserID        string        `json:"userId" gorm:"column:user_id;index;not null"`
	CheckIn       time.Time     `json:"checkInDate" gorm:"column:check_in;not null"`
	CheckOut      time.Time     `json:"checkOutDate" gorm:"column:check_out;not null"`
	NumGuests     int           `json:"numGuests" gorm:"column:num_guests;not null"`
	RoomIDs       []string      `json:"roomIds" gorm:"column:room_ids;serializer:json;not null"`
	PaymentMethod string        `json:"paymentMethod" gorm:"column:payment_method"`
	Status        BookingStatus `json:"status" gorm:"column:status;type:varchar(16);index;not null"`
	CreatedAt     time.Time     `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" gorm:"column:updated_at"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *Booking) Validate() error {
	if !b.CheckOut.After(b.CheckIn) {
		return ErrInvalidStay
	}
	if b.NumGuests <= 0 {
		return errors.New("guest count must be positive")
	}
	if len(b.RoomIDs) == 0 {
		return errors.New("at least one room is required")
	}
	return nil
}

type Payment struct {
	ID          string        `json:"id" gorm:"column:id;primaryKey"`
	BookingID   string        `json:"bookingId" gorm:"column:booking_id;uniqueIndex;not null"`
	Method      string        `json:"paymentType" gorm:"column:method;not null"`
	ReceiptRef  *string       `json:"receipt,omitempty" gorm:"column:receipt_ref"`
	TotalAmount float64       `json:"totalAmount" gorm:"column:total_amount;not null"`
	Advance     float64       `json:"advance" gorm:"column:advance;not null"`
	PaidAmount  float64       `json:"paidAmount" gorm:"column:paid_amount;not null;default:0"`
	Status      PaymentStatus `json:"status" gorm:"column:status;type:varchar(16);not null"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"column:created_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// StayRecord is the occupancy view of a booking as it comes out of a store.
// CheckIn and CheckOut keep whatever encoding the store produced.
type StayRecord struct {
	BookingID string
	Status    BookingStatus
	RoomIDs   []string
	CheckIn   any
	CheckOut  any
}

// RoomHold reserves a room for one user for a short time while they finish the wizard.
// HolderID is the wizard that placed it.
type RoomHold struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey"`
	RoomID    string    `json:"roomId" gorm:"column:room_id;index;not null"`
	UserID    string    `json:"userId" gorm:"column:user_id;index;not null"`
	HolderID  string    `json:"holderId" gorm:"column:holder_id;index;not null"`
	CheckIn   time.Time `json:"checkInDate" gorm:"column:check_in;not null"`
	CheckOut  time.Time `json:"checkOutDate" gorm:"column:check_out;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"column:expires_at;index;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (RoomHold) TableName() string { return "room_holds" }

func (h *RoomHold) BeforeCreate(_ *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

func (h RoomHold) ActiveAt(t time.Time) bool { return h.ExpiresAt.After(t) }

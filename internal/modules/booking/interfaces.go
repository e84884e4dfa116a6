package booking

import (
	"context"

	"resortbooking/internal/domain"
)

type RoomRepository interface {
	GetRoomsByIDs(ctx context.Context, ids []string) ([]domain.Room, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error
	ListWithoutPayment(ctx context.Context) ([]domain.Booking, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)
}

// Transactor runs fn so that every repository call made with the ctx it receives commits or
// rolls back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

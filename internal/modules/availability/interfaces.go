package availability

import (
	"context"
	"time"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/catalog"
	"resortbooking/internal/modules/session"
)

type BookingReader interface {
	ListStays(ctx context.Context, statuses []domain.BookingStatus) ([]domain.StayRecord, error)
}

type RoomLister interface {
	ListAllRooms(ctx context.Context) ([]catalog.RoomView, error)
}

// HoldStore keeps room holds grouped by holder (one wizard).
type HoldStore interface {
	Replace(ctx context.Context, holderID string, holds []domain.RoomHold) error
	ListActive(ctx context.Context, now time.Time) ([]domain.RoomHold, error)
	DeleteByHolder(ctx context.Context, holderID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Publisher interface {
	Publish(ev Event)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (session.State, error)
}

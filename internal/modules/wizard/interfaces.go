package wizard

import (
	"context"
	"time"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/modules/booking"
	"resortbooking/internal/modules/catalog"
)

type Catalog interface {
	ResolveCategory(ctx context.Context, ref string) (catalog.CategoryView, bool, error)
	ListRoomsByIDs(ctx context.Context, ids []string) []catalog.RoomView
}

type Availability interface {
	BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time, opts ...availability.QueryOption) (map[string]struct{}, error)
	AvailableForCategoryAndCity(ctx context.Context, categoryID, cityID string, checkIn, checkOut time.Time, opts ...availability.QueryOption) ([]catalog.RoomView, error)
	ListAvailable(ctx context.Context, checkIn, checkOut time.Time, opts ...availability.QueryOption) ([]catalog.RoomView, error)
	PlaceHolds(ctx context.Context, userID, holderID string, roomIDs []string, checkIn, checkOut time.Time) (time.Time, error)
	ReleaseHolds(ctx context.Context, holderID string) error
}

type Committer interface {
	Quote(ctx context.Context, form domain.WizardFormState) (booking.Quote, []domain.Room, error)
	Commit(ctx context.Context, identity domain.Identity, form domain.WizardFormState) (*booking.Confirmation, error)
}

package catalog

import (
	"context"

	"resortbooking/internal/domain"
)

// Repository is the read side of the reference collections.
type Repository interface {
	ListCities(ctx context.Context) ([]domain.City, error)
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	ListCategories(ctx context.Context) ([]domain.RoomCategory, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
}

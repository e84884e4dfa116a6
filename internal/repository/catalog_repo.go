package repository

import (
	"context"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

// CatalogRepository reads the immutable reference data: cities, hotels, categories, rooms.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListCities(ctx context.Context) ([]domain.City, error) {
	var out []domain.City
	if err := conn(ctx, r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	if err := conn(ctx, r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.RoomCategory, error) {
	var out []domain.RoomCategory
	if err := conn(ctx, r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	if err := conn(ctx, r.db).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetRoomsByIDs returns the rooms that exist among ids. Missing ids are simply absent.
func (r *CatalogRepository) GetRoomsByIDs(ctx context.Context, ids []string) ([]domain.Room, error) {
	if len(ids) == 0 {
		return []domain.Room{}, nil
	}
	var out []domain.Room
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) CreateCity(ctx context.Context, c *domain.City) error {
	return translate(conn(ctx, r.db).Create(c).Error)
}

func (r *CatalogRepository) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	return translate(conn(ctx, r.db).Create(h).Error)
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.RoomCategory) error {
	return translate(conn(ctx, r.db).Create(c).Error)
}

func (r *CatalogRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	return translate(conn(ctx, r.db).Create(room).Error)
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return translate(conn(ctx, r.db).Create(b).Error)
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := conn(ctx, r.db).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves a booking from one status to another. It fails with ErrConflict when
// the stored status is no longer `from`.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	tx := conn(ctx, r.db).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// ListStays returns the occupancy view of every booking in one of the given statuses.
func (r *BookingRepository) ListStays(ctx context.Context, statuses []domain.BookingStatus) ([]domain.StayRecord, error) {
	var rows []domain.Booking
	err := conn(ctx, r.db).
		Select("id", "status", "room_ids", "check_in", "check_out").
		Where("status IN ?", statuses).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.StayRecord, 0, len(rows))
	for _, b := range rows {
		out = append(out, domain.StayRecord{
			BookingID: b.ID,
			Status:    b.Status,
			RoomIDs:   b.RoomIDs,
			CheckIn:   b.CheckIn,
			CheckOut:  b.CheckOut,
		})
	}
	return out, nil
}

// ListWithoutPayment finds bookings that never got their payment record.
func (r *BookingRepository) ListWithoutPayment(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	err := conn(ctx, r.db).
		Where("NOT EXISTS (SELECT 1 FROM payments p WHERE p.booking_id = bookings.id)").
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type HoldRepository struct {
	db *gorm.DB
}

func NewHoldRepository(db *gorm.DB) *HoldRepository {
	return &HoldRepository{db: db}
}

// Replace drops every hold of holderID and stores holds in their place.
func (r *HoldRepository) Replace(ctx context.Context, holderID string, holds []domain.RoomHold) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("holder_id = ?", holderID).Delete(&domain.RoomHold{}).Error; err != nil {
			return err
		}
		if len(holds) == 0 {
			return nil
		}
		return tx.Create(&holds).Error
	})
}

func (r *HoldRepository) ListActive(ctx context.Context, now time.Time) ([]domain.RoomHold, error) {
	var out []domain.RoomHold
	if err := conn(ctx, r.db).Where("expires_at > ?", now).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *HoldRepository) DeleteByHolder(ctx context.Context, holderID string) error {
	return conn(ctx, r.db).Where("holder_id = ?", holderID).Delete(&domain.RoomHold{}).Error
}

func (r *HoldRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := conn(ctx, r.db).Where("expires_at <= ?", now).Delete(&domain.RoomHold{})
	return tx.RowsAffected, tx.Error
}

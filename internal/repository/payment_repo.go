package repository

import (
	"context"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return translate(conn(ctx, r.db).Create(p).Error)
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := conn(ctx, r.db).First(&p, "booking_id = ?", bookingID).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

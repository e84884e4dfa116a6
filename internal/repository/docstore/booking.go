package docstore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

type BookingRepository struct {
	client *firestore.Client
}

func NewBookingRepository(client *firestore.Client) *BookingRepository {
	return &BookingRepository{client: client}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return create(ctx, r.client.Collection(colBookings).Doc(b.ID), bookingToData(b))
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	snap, err := r.client.Collection(colBookings).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	b := bookingFromData(snap.Ref.ID, snap.Data())
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	docs, err := r.client.Collection(colBookings).Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, bookingFromData(d.Ref.ID, d.Data()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	ref := r.client.Collection(colBookings).Doc(id)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return translate(err)
		}
		if domain.BookingStatus(str(snap.Data(), "status")) != from {
			return repository.ErrConflict
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(to)},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
}

// ListStays keeps the raw date values; documents written by other clients use several encodings.
func (r *BookingRepository) ListStays(ctx context.Context, statuses []domain.BookingStatus) ([]domain.StayRecord, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	docs, err := r.client.Collection(colBookings).Where("status", "in", values).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.StayRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, stayFromData(d.Ref.ID, d.Data()))
	}
	return out, nil
}

func (r *BookingRepository) ListWithoutPayment(ctx context.Context) ([]domain.Booking, error) {
	payments, err := r.client.Collection(colPayments).Select("bookingId").Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	paid := make(map[string]struct{}, len(payments))
	for _, p := range payments {
		paid[str(p.Data(), "bookingId")] = struct{}{}
	}

	docs, err := r.client.Collection(colBookings).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	var out []domain.Booking
	for _, d := range docs {
		if _, ok := paid[d.Ref.ID]; ok {
			continue
		}
		out = append(out, bookingFromData(d.Ref.ID, d.Data()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type PaymentRepository struct {
	client *firestore.Client
}

func NewPaymentRepository(client *firestore.Client) *PaymentRepository {
	return &PaymentRepository{client: client}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return create(ctx, r.client.Collection(colPayments).Doc(p.ID), paymentToData(p))
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	docs, err := r.client.Collection(colPayments).Where("bookingId", "==", bookingID).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, repository.ErrNotFound
	}
	p := paymentFromData(docs[0].Ref.ID, docs[0].Data())
	return &p, nil
}

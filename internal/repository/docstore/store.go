// Package docstore implements the repository contracts on Cloud Firestore.
package docstore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"resortbooking/internal/repository"
)

const (
	colCities     = "city"
	colHotels     = "hotel"
	colCategories = "roomCategory"
	colRooms      = "rooms"
	colBookings   = "bookings"
	colPayments   = "payment"
	colUsers      = "users"
	colHolds      = "roomHolds"
	colUploads    = "uploads"
)

type txKey struct{}

// Transactor runs fn inside a Firestore transaction. Creates made by this package with the
// context handed to fn are buffered in the transaction.
type Transactor struct {
	client *firestore.Client
}

func NewTransactor(client *firestore.Client) *Transactor {
	return &Transactor{client: client}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func create(ctx context.Context, ref *firestore.DocumentRef, data any) error {
	if tx, ok := ctx.Value(txKey{}).(*firestore.Transaction); ok {
		return tx.Create(ref, data)
	}
	_, err := ref.Create(ctx, data)
	return translate(err)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return repository.ErrNotFound
	case codes.AlreadyExists:
		return errors.Join(repository.ErrDuplicate, err)
	case codes.Aborted, codes.FailedPrecondition:
		return errors.Join(repository.ErrConflict, err)
	}
	return err
}

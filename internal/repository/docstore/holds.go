package docstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"resortbooking/internal/domain"
)

type HoldRepository struct {
	client *firestore.Client
}

func NewHoldRepository(client *firestore.Client) *HoldRepository {
	return &HoldRepository{client: client}
}

func (r *HoldRepository) Replace(ctx context.Context, holderID string, holds []domain.RoomHold) error {
	col := r.client.Collection(colHolds)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		old, err := tx.Documents(col.Where("holderId", "==", holderID)).GetAll()
		if err != nil {
			return err
		}
		for _, d := range old {
			if err := tx.Delete(d.Ref); err != nil {
				return err
			}
		}
		for i := range holds {
			h := &holds[i]
			if h.ID == "" {
				h.ID = uuid.NewString()
			}
			if h.CreatedAt.IsZero() {
				h.CreatedAt = time.Now().UTC()
			}
			if err := tx.Create(col.Doc(h.ID), holdToData(h)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *HoldRepository) ListActive(ctx context.Context, now time.Time) ([]domain.RoomHold, error) {
	docs, err := r.client.Collection(colHolds).Where("expiresAt", ">", now).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.RoomHold, 0, len(docs))
	for _, d := range docs {
		out = append(out, holdFromData(d.Ref.ID, d.Data()))
	}
	return out, nil
}

func (r *HoldRepository) DeleteByHolder(ctx context.Context, holderID string) error {
	return r.deleteWhere(ctx, r.client.Collection(colHolds).Where("holderId", "==", holderID))
}

func (r *HoldRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	docs, err := r.client.Collection(colHolds).Where("expiresAt", "<=", now).Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	if err := r.deleteDocs(ctx, docs); err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (r *HoldRepository) deleteWhere(ctx context.Context, q firestore.Query) error {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	return r.deleteDocs(ctx, docs)
}

func (r *HoldRepository) deleteDocs(ctx context.Context, docs []*firestore.DocumentSnapshot) error {
	if len(docs) == 0 {
		return nil
	}
	batch := r.client.Batch()
	for _, d := range docs {
		batch.Delete(d.Ref)
	}
	_, err := batch.Commit(ctx)
	return err
}

type UploadRepository struct {
	client *firestore.Client
}

func NewUploadRepository(client *firestore.Client) *UploadRepository {
	return &UploadRepository{client: client}
}

func (r *UploadRepository) Create(ctx context.Context, u *domain.Upload) error {
	return create(ctx, r.client.Collection(colUploads).Doc(u.ID), uploadToData(u))
}

func (r *UploadRepository) GetByID(ctx context.Context, id string) (*domain.Upload, error) {
	snap, err := r.client.Collection(colUploads).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	u := uploadFromData(snap.Ref.ID, snap.Data())
	return &u, nil
}

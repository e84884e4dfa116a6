package docstore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"

	"resortbooking/internal/domain"
)

type CatalogRepository struct {
	client *firestore.Client
}

func NewCatalogRepository(client *firestore.Client) *CatalogRepository {
	return &CatalogRepository{client: client}
}

func (r *CatalogRepository) ListCities(ctx context.Context) ([]domain.City, error) {
	docs, err := r.client.Collection(colCities).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.City, 0, len(docs))
	for _, d := range docs {
		out = append(out, cityFromData(d.Ref.ID, d.Data()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepository) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	docs, err := r.client.Collection(colHotels).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Hotel, 0, len(docs))
	for _, d := range docs {
		out = append(out, hotelFromData(d.Ref.ID, d.Data()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.RoomCategory, error) {
	docs, err := r.client.Collection(colCategories).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.RoomCategory, 0, len(docs))
	for _, d := range docs {
		out = append(out, categoryFromData(d.Ref.ID, d.Data()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	docs, err := r.client.Collection(colRooms).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Room, 0, len(docs))
	for _, d := range docs {
		out = append(out, roomFromData(d.Ref.ID, d.Data()))
	}
	return out, nil
}

func (r *CatalogRepository) GetRoomsByIDs(ctx context.Context, ids []string) ([]domain.Room, error) {
	if len(ids) == 0 {
		return []domain.Room{}, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.client.Collection(colRooms).Doc(id))
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Room, 0, len(snaps))
	for _, s := range snaps {
		if !s.Exists() {
			continue
		}
		out = append(out, roomFromData(s.Ref.ID, s.Data()))
	}
	return out, nil
}

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"resortbooking/internal/domain"
)

type Service struct {
	repo Repository
	log  *logrus.Logger
}

func NewService(repo Repository, log *logrus.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListAllRooms returns every room joined with its reference data. A failing read of any
// collection is returned as ErrCatalogUnavailable.
func (s *Service) ListAllRooms(ctx context.Context) ([]RoomView, error) {
	cities, err := s.repo.ListCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: cities: %v", ErrCatalogUnavailable, err)
	}
	hotels, err := s.repo.ListHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: hotels: %v", ErrCatalogUnavailable, err)
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: categories: %v", ErrCatalogUnavailable, err)
	}
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: rooms: %v", ErrCatalogUnavailable, err)
	}

	idx := BuildIndexes(cities, hotels, categories)
	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, EnrichRoom(r, idx))
	}
	return out, nil
}

// ListRoomsByCategorySlug filters by the slug of the category name. "all" or an empty
// slug returns everything.
func (s *Service) ListRoomsByCategorySlug(ctx context.Context, slug string) ([]RoomView, error) {
	rooms, err := s.ListAllRooms(ctx)
	if err != nil {
		return nil, err
	}

	want := domain.Slug(strings.TrimSpace(slug))
	if want == "" || want == "all" {
		return rooms, nil
	}

	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		if domain.Slug(r.CategoryName) == want {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListRoomsByIDs never fails: a backend error is logged and yields an empty list.
func (s *Service) ListRoomsByIDs(ctx context.Context, ids []string) []RoomView {
	if len(ids) == 0 {
		return []RoomView{}
	}

	rooms, err := s.ListAllRooms(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"room_ids": ids,
			"error":    err.Error(),
		}).Warn("catalog: listing rooms by id failed")
		return []RoomView{}
	}

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]RoomView, 0, len(ids))
	for _, r := range rooms {
		if _, ok := want[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *Service) ListCities(ctx context.Context) ([]domain.City, error) {
	cities, err := s.repo.ListCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return cities, nil
}

func (s *Service) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	hotels, err := s.repo.ListHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return hotels, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]CategoryView, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryView{ID: c.ID, Name: c.Name, Slug: c.Slug()})
	}
	return out, nil
}

// ResolveCategory accepts a category id or slug.
func (s *Service) ResolveCategory(ctx context.Context, ref string) (CategoryView, bool, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return CategoryView{}, false, nil
	}
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return CategoryView{}, false, err
	}
	slug := domain.Slug(ref)
	for _, c := range cats {
		if c.ID == ref || c.Slug == slug {
			return c, true, nil
		}
	}
	return CategoryView{}, false, nil
}

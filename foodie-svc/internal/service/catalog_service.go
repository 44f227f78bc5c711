package service

import (
	"context"

	"foodie/foodie-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type CatalogService struct {
	store      *DataStore
	popularity PopularitySource
}

func NewCatalogService(store *DataStore, popularity PopularitySource) *CatalogService {
	return &CatalogService{store: store, popularity: popularity}
}

func (s *CatalogService) FullMenu(ctx context.Context) (*domain.Menu, error) {
	return s.store.Menu(ctx)
}

func (s *CatalogService) Category(ctx context.Context, name string) ([]domain.MenuItem, error) {
	menu, err := s.store.Menu(ctx)
	if err != nil {
		return nil, err
	}
	category, ok := menu.Category(name)
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "Category not found")
	}
	return category.Items, nil
}

func (s *CatalogService) PriceOf(ctx context.Context, name string) (decimal.Decimal, error) {
	menu, err := s.store.Menu(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	item, ok := menu.Index()[domain.NormalizeName(name)]
	if !ok {
		return decimal.Zero, &domain.UnknownItemsError{Names: []string{name}}
	}
	return item.Price, nil
}

func (s *CatalogService) Branches(ctx context.Context) ([]string, error) {
	branches, err := s.store.Branches(ctx)
	if err != nil {
		return nil, err
	}
	locations := make([]string, 0, len(branches))
	for _, b := range branches {
		locations = append(locations, b.Location)
	}
	return locations, nil
}

func (s *CatalogService) BranchDetails(ctx context.Context, location string) (*domain.Branch, error) {
	branches, err := s.store.Branches(ctx)
	if err != nil {
		return nil, err
	}
	key := domain.NormalizeName(location)
	for i := range branches {
		if domain.NormalizeName(branches[i].Location) == key {
			return &branches[i], nil
		}
	}
	return nil, domain.Errorf(domain.ErrNotFound, "Foodie doesn't have a branch in %s", domain.TitleCase(location))
}

func (s *CatalogService) PopularDishes(ctx context.Context, period string, limit int) ([]domain.PopularDish, error) {
	if s.popularity == nil {
		return []domain.PopularDish{}, nil
	}
	if limit <= 0 {
		limit = 5
	}
	if period != domain.PeriodDaily {
		period = domain.PeriodAllTime
	}
	return s.popularity.TopDishes(ctx, period, limit)
}

// BookingCounts reports committed bookings per table type for a known
// branch. Branches with no bookings yet get an empty map.
func (s *CatalogService) BookingCounts(ctx context.Context, location string) (map[string]int64, error) {
	branch, err := s.BranchDetails(ctx, location)
	if err != nil {
		return nil, err
	}
	if s.popularity == nil {
		return map[string]int64{}, nil
	}
	return s.popularity.BookingCounts(ctx, branch.Location)
}

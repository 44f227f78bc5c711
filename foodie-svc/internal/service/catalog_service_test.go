package service_test

import (
	"context"
	"testing"

	"foodie/foodie-svc/internal/domain"
	"foodie/foodie-svc/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Category(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		category  string
		wantItems int
		wantErr   error
	}{
		{name: "exact", category: "drinks", wantItems: 2},
		{name: "case_insensitive", category: "  Main_Courses ", wantItems: 2},
		{name: "unknown", category: "desserts", wantErr: domain.ErrNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewRepository(t)
			s := newStack(repo, nil)
			repo.On("LoadMenu", ctx).Return(testMenu(), nil).Once()

			items, err := s.catalog.Category(ctx, testCase.category)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.EqualError(t, err, "Category not found")
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, testCase.wantItems)
		})
	}
}

func TestCatalogService_PriceOf(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewRepository(t)
	s := newStack(repo, nil)
	repo.On("LoadMenu", ctx).Return(testMenu(), nil).Twice()

	price, err := s.catalog.PriceOf(ctx, "jollof rice")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(1200)), "first match in category order wins")

	_, err = s.catalog.PriceOf(ctx, "Pizza")
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
}

func TestCatalogService_Branches(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewRepository(t)
	s := newStack(repo, nil)
	repo.On("LoadBranches", ctx).Return(testBranches(), nil)

	locations, err := s.catalog.Branches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ikeja", "lekki", "victoria island"}, locations)

	branch, err := s.catalog.BranchDetails(ctx, "Victoria Island")
	require.NoError(t, err)
	assert.Equal(t, "victoria island", branch.Location)

	_, err = s.catalog.BranchDetails(ctx, "abuja")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "Foodie doesn't have a branch in Abuja")
}

func TestCatalogService_PopularDishes(t *testing.T) {
	ctx := context.Background()

	t.Run("without_source", func(t *testing.T) {
		s := newStack(mocks.NewRepository(t), nil)
		dishes, err := s.catalog.PopularDishes(ctx, domain.PeriodDaily, 3)
		require.NoError(t, err)
		assert.Empty(t, dishes)
	})

	t.Run("default_limit", func(t *testing.T) {
		popularity := mocks.NewPopularitySource(t)
		s := newStack(mocks.NewRepository(t), popularity)
		popularity.On("TopDishes", ctx, domain.PeriodAllTime, 5).Return([]domain.PopularDish{{Name: "Jollof Rice", Quantity: 12}}, nil).Once()

		dishes, err := s.catalog.PopularDishes(ctx, "", 0)
		require.NoError(t, err)
		assert.Equal(t, "Jollof Rice", dishes[0].Name)
	})

	t.Run("daily", func(t *testing.T) {
		popularity := mocks.NewPopularitySource(t)
		s := newStack(mocks.NewRepository(t), popularity)
		popularity.On("TopDishes", ctx, domain.PeriodDaily, 2).Return([]domain.PopularDish{{Name: "Suya", Quantity: 4}}, nil).Once()

		dishes, err := s.catalog.PopularDishes(ctx, domain.PeriodDaily, 2)
		require.NoError(t, err)
		assert.Equal(t, "Suya", dishes[0].Name)
	})
}

func TestCatalogService_BookingCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("known_branch", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		popularity := mocks.NewPopularitySource(t)
		s := newStack(repo, popularity)
		repo.On("LoadBranches", ctx).Return(testBranches(), nil).Once()
		popularity.On("BookingCounts", ctx, "ikeja").Return(map[string]int64{"table_for_2": 3}, nil).Once()

		counts, err := s.catalog.BookingCounts(ctx, " Ikeja ")
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"table_for_2": 3}, counts)
	})

	t.Run("unknown_branch", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		s := newStack(repo, mocks.NewPopularitySource(t))
		repo.On("LoadBranches", ctx).Return(testBranches(), nil).Once()

		_, err := s.catalog.BookingCounts(ctx, "abuja")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("without_source", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		s := newStack(repo, nil)
		repo.On("LoadBranches", ctx).Return(testBranches(), nil).Once()

		counts, err := s.catalog.BookingCounts(ctx, "ikeja")
		require.NoError(t, err)
		assert.Empty(t, counts)
	})
}

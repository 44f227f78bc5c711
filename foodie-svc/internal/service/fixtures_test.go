package service_test

import (
	"foodie/foodie-svc/internal/domain"
	"foodie/foodie-svc/internal/mocks"
	"foodie/foodie-svc/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func testMenu() *domain.Menu {
	return &domain.Menu{
		VATPercentage: decimal.RequireFromString("7.5"),
		Categories: []domain.Category{
			{Name: "main_courses", Items: []domain.MenuItem{
				{Name: "Jollof Rice", Price: decimal.NewFromInt(1200)},
				{Name: "Fried Rice", Price: decimal.NewFromInt(1300)},
			}},
			{Name: "snacks", Items: []domain.MenuItem{
				{Name: "Meat Pie", Price: decimal.NewFromInt(700)},
				{Name: "Jollof Rice", Price: decimal.NewFromInt(900)},
			}},
			{Name: "drinks", Items: []domain.MenuItem{
				{Name: "Zobo", Price: decimal.NewFromInt(500)},
				{Name: "Chapman", Price: decimal.NewFromInt(1200)},
			}},
		},
	}
}

func testBranches() []domain.Branch {
	return []domain.Branch{
		{
			Location: "ikeja",
			AvailableTables: map[string]domain.TableInfo{
				"table_for_2": {Number: 5, UnitPrice: decimal.NewFromInt(2000)},
			},
		},
		{
			Location: "lekki",
			AvailableTables: map[string]domain.TableInfo{
				"table_for_2": {Number: 0, UnitPrice: decimal.NewFromInt(2500)},
				"table_for_4": {Number: 4, UnitPrice: decimal.NewFromInt(4000)},
			},
		},
		{Location: "victoria island", AvailableTables: map[string]domain.TableInfo{}},
	}
}

func testUser(balance int64) *domain.User {
	return &domain.User{CustomerID: 1, WalletBalance: decimal.NewFromInt(balance), LastOrders: []domain.OrderRecord{}}
}

func testSeed() *domain.Seed {
	return &domain.Seed{Users: []domain.User{*testUser(5000)}, Menu: *testMenu(), Branches: testBranches()}
}

type stack struct {
	repo    *mocks.Repository
	store   *service.DataStore
	catalog *service.CatalogService
	quotes  *service.QuoteEngine
}

func newStack(repo *mocks.Repository, popularity service.PopularitySource) stack {
	store := service.NewDataStore(repo, testSeed(), zerolog.Nop())
	catalog := service.NewCatalogService(store, popularity)
	quotes := service.NewQuoteEngine(catalog, service.Pricing{
		PackagingFee:    decimal.NewFromInt(200),
		DrinkCategories: []string{"drinks"},
	})
	return stack{repo: repo, store: store, catalog: catalog, quotes: quotes}
}

package mocks

import (
	"context"

	"foodie/foodie-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// CatalogService is a mock type for the CatalogServiceInterface type
type CatalogService struct {
	mock.Mock
}

func (_m *CatalogService) FullMenu(ctx context.Context) (*domain.Menu, error) {
	ret := _m.Called(ctx)
	var r0 *domain.Menu
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Menu)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogService) Category(ctx context.Context, name string) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, name)
	var r0 []domain.MenuItem
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogService) PriceOf(ctx context.Context, name string) (decimal.Decimal, error) {
	ret := _m.Called(ctx, name)
	var r0 decimal.Decimal
	if v := ret.Get(0); v != nil {
		r0 = v.(decimal.Decimal)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogService) Branches(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)
	var r0 []string
	if v := ret.Get(0); v != nil {
		r0 = v.([]string)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogService) BranchDetails(ctx context.Context, location string) (*domain.Branch, error) {
	ret := _m.Called(ctx, location)
	var r0 *domain.Branch
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Branch)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogService) PopularDishes(ctx context.Context, period string, limit int) ([]domain.PopularDish, error) {
	ret := _m.Called(ctx, period, limit)
	var r0 []domain.PopularDish
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.PopularDish)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogService) BookingCounts(ctx context.Context, location string) (map[string]int64, error) {
	ret := _m.Called(ctx, location)
	var r0 map[string]int64
	if v := ret.Get(0); v != nil {
		r0 = v.(map[string]int64)
	}
	return r0, ret.Error(1)
}

func NewCatalogService(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogService {
	m := &CatalogService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// QuoteEngine is a mock type for the QuoteEngineInterface type
type QuoteEngine struct {
	mock.Mock
}

func (_m *QuoteEngine) QuoteOrder(ctx context.Context, items []domain.OrderLine) (*domain.Quote, error) {
	ret := _m.Called(ctx, items)
	var r0 *domain.Quote
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Quote)
	}
	return r0, ret.Error(1)
}

func (_m *QuoteEngine) QuoteBooking(ctx context.Context, location, tableType string) (*domain.BookingQuote, error) {
	ret := _m.Called(ctx, location, tableType)
	var r0 *domain.BookingQuote
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.BookingQuote)
	}
	return r0, ret.Error(1)
}

func NewQuoteEngine(t interface {
	mock.TestingT
	Cleanup(func())
}) *QuoteEngine {
	m := &QuoteEngine{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// TransactionService is a mock type for the TransactionServiceInterface type
type TransactionService struct {
	mock.Mock
}

func (_m *TransactionService) User(ctx context.Context, customerID int) (*domain.User, error) {
	ret := _m.Called(ctx, customerID)
	var r0 *domain.User
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *TransactionService) PlaceOrder(ctx context.Context, customerID int, items []domain.OrderLine, declaredTotal decimal.Decimal) (*domain.OrderReceipt, error) {
	ret := _m.Called(ctx, customerID, items, declaredTotal)
	var r0 *domain.OrderReceipt
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.OrderReceipt)
	}
	return r0, ret.Error(1)
}

func (_m *TransactionService) BookTable(ctx context.Context, customerID int, location, tableType string) (*domain.BookingReceipt, error) {
	ret := _m.Called(ctx, customerID, location, tableType)
	var r0 *domain.BookingReceipt
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.BookingReceipt)
	}
	return r0, ret.Error(1)
}

func (_m *TransactionService) DepositWallet(ctx context.Context, customerID int, amount decimal.Decimal) (decimal.Decimal, error) {
	ret := _m.Called(ctx, customerID, amount)
	var r0 decimal.Decimal
	if v := ret.Get(0); v != nil {
		r0 = v.(decimal.Decimal)
	}
	return r0, ret.Error(1)
}

func (_m *TransactionService) Receipt(ctx context.Context, customerID int, orderID string) (*domain.OrderRecord, error) {
	ret := _m.Called(ctx, customerID, orderID)
	var r0 *domain.OrderRecord
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.OrderRecord)
	}
	return r0, ret.Error(1)
}

func (_m *TransactionService) ReceiptQRCode(ctx context.Context, customerID int, orderID string) ([]byte, error) {
	ret := _m.Called(ctx, customerID, orderID)
	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}
	return r0, ret.Error(1)
}

func (_m *TransactionService) Reset(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func NewTransactionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *TransactionService {
	m := &TransactionService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

package mocks

import (
	"context"

	"foodie/foodie-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Repository is a mock type for the Repository type
type Repository struct {
	mock.Mock
}

func (_m *Repository) LoadUser(ctx context.Context, customerID int) (*domain.User, error) {
	ret := _m.Called(ctx, customerID)
	var r0 *domain.User
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) LoadMenu(ctx context.Context) (*domain.Menu, error) {
	ret := _m.Called(ctx)
	var r0 *domain.Menu
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Menu)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) LoadBranches(ctx context.Context) ([]domain.Branch, error) {
	ret := _m.Called(ctx)
	var r0 []domain.Branch
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Branch)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) FindOrder(ctx context.Context, customerID int, orderID string) (*domain.OrderRecord, error) {
	ret := _m.Called(ctx, customerID, orderID)
	var r0 *domain.OrderRecord
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.OrderRecord)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) ReplaceAll(ctx context.Context, seed *domain.Seed) error {
	ret := _m.Called(ctx, seed)
	return ret.Error(0)
}

func (_m *Repository) CommitOrder(ctx context.Context, customerID int, order domain.OrderRecord) (decimal.Decimal, error) {
	ret := _m.Called(ctx, customerID, order)
	var r0 decimal.Decimal
	if v := ret.Get(0); v != nil {
		r0 = v.(decimal.Decimal)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) CommitBooking(ctx context.Context, customerID int, location, tableType string, price decimal.Decimal) (int, decimal.Decimal, error) {
	ret := _m.Called(ctx, customerID, location, tableType, price)
	var r1 decimal.Decimal
	if v := ret.Get(1); v != nil {
		r1 = v.(decimal.Decimal)
	}
	return ret.Int(0), r1, ret.Error(2)
}

func (_m *Repository) CreditWallet(ctx context.Context, customerID int, amount decimal.Decimal) (decimal.Decimal, error) {
	ret := _m.Called(ctx, customerID, amount)
	var r0 decimal.Decimal
	if v := ret.Get(0); v != nil {
		r0 = v.(decimal.Decimal)
	}
	return r0, ret.Error(1)
}

// NewRepository creates a new instance of Repository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	m := &Repository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

package mocks

import (
	"context"
	"time"

	"foodie/agg-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// StoreInterface is a mock type for the StoreInterface type
type StoreInterface struct {
	mock.Mock
}

func (_m *StoreInterface) RecordOrder(ctx context.Context, items []domain.OrderLine, at time.Time) error {
	ret := _m.Called(ctx, items, at)
	return ret.Error(0)
}

func (_m *StoreInterface) RecordBooking(ctx context.Context, location, tableType string) error {
	ret := _m.Called(ctx, location, tableType)
	return ret.Error(0)
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

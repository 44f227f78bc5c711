package mocks

import (
	"context"

	"foodie/foodie-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// EventPublisher is a mock type for the EventPublisher type
type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) Publish(ctx context.Context, msg domain.KafkaMessage) error {
	ret := _m.Called(ctx, msg)
	return ret.Error(0)
}

func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// PopularitySource is a mock type for the PopularitySource type
type PopularitySource struct {
	mock.Mock
}

func (_m *PopularitySource) TopDishes(ctx context.Context, period string, limit int) ([]domain.PopularDish, error) {
	ret := _m.Called(ctx, period, limit)
	var r0 []domain.PopularDish
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.PopularDish)
	}
	return r0, ret.Error(1)
}

func (_m *PopularitySource) BookingCounts(ctx context.Context, location string) (map[string]int64, error) {
	ret := _m.Called(ctx, location)
	var r0 map[string]int64
	if v := ret.Get(0); v != nil {
		r0 = v.(map[string]int64)
	}
	return r0, ret.Error(1)
}

func NewPopularitySource(t interface {
	mock.TestingT
	Cleanup(func())
}) *PopularitySource {
	m := &PopularitySource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// QRGenerator is a mock type for the QRGenerator type
type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(orderID string) ([]byte, error) {
	ret := _m.Called(orderID)
	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}
	return r0, ret.Error(1)
}

func NewQRGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

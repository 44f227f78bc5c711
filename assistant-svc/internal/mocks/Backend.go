package mocks

import (
	"context"
	"encoding/json"

	"foodie/assistant-svc/internal/tools"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock type for the tools.Backend type
type Backend struct {
	mock.Mock
}

func (_m *Backend) Do(ctx context.Context, customerID int, req tools.Request) (json.RawMessage, error) {
	ret := _m.Called(ctx, customerID, req)
	var r0 json.RawMessage
	if v := ret.Get(0); v != nil {
		r0 = v.(json.RawMessage)
	}
	return r0, ret.Error(1)
}

func NewBackend(t interface {
	mock.TestingT
	Cleanup(func())
}) *Backend {
	m := &Backend{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

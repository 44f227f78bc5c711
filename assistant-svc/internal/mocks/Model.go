package mocks

import (
	"context"

	"foodie/assistant-svc/internal/chat"

	"github.com/stretchr/testify/mock"
)

// Model is a mock type for the chat.Model type
type Model struct {
	mock.Mock
}

func (_m *Model) Generate(ctx context.Context, req chat.ModelRequest) (*chat.ModelReply, error) {
	ret := _m.Called(ctx, req)
	var r0 *chat.ModelReply
	if v := ret.Get(0); v != nil {
		r0 = v.(*chat.ModelReply)
	}
	return r0, ret.Error(1)
}

func NewModel(t interface {
	mock.TestingT
	Cleanup(func())
}) *Model {
	m := &Model{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

package mocks

import (
	"context"

	"foodie/assistant-svc/internal/chat"
	"foodie/assistant-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// ChatService is a mock type for the chat.Service type
type ChatService struct {
	mock.Mock
}

func (_m *ChatService) StartSession(ctx context.Context, customerID int, name, language string) (*domain.Session, string, error) {
	ret := _m.Called(ctx, customerID, name, language)
	var r0 *domain.Session
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Session)
	}
	return r0, ret.String(1), ret.Error(2)
}

func (_m *ChatService) HandleTurn(ctx context.Context, sessionID, text string, image *domain.Image) (*chat.TurnResult, error) {
	ret := _m.Called(ctx, sessionID, text, image)
	var r0 *chat.TurnResult
	if v := ret.Get(0); v != nil {
		r0 = v.(*chat.TurnResult)
	}
	return r0, ret.Error(1)
}

func (_m *ChatService) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	ret := _m.Called(ctx, sessionID)
	var r0 []domain.Message
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Message)
	}
	return r0, ret.Error(1)
}

func NewChatService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ChatService {
	m := &ChatService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

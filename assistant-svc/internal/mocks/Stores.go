package mocks

import (
	"context"

	"foodie/assistant-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// SessionStore is a mock type for the chat.SessionStore type
type SessionStore struct {
	mock.Mock
}

func (_m *SessionStore) CreateSession(ctx context.Context, session domain.Session) error {
	ret := _m.Called(ctx, session)
	return ret.Error(0)
}

func (_m *SessionStore) Session(ctx context.Context, id string) (*domain.Session, error) {
	ret := _m.Called(ctx, id)
	var r0 *domain.Session
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Session)
	}
	return r0, ret.Error(1)
}

func (_m *SessionStore) BeginTurn(ctx context.Context, id string) (int, error) {
	ret := _m.Called(ctx, id)
	return ret.Int(0), ret.Error(1)
}

func (_m *SessionStore) AppendHistory(ctx context.Context, id string, messages ...domain.Message) error {
	ret := _m.Called(ctx, id, messages)
	return ret.Error(0)
}

func (_m *SessionStore) History(ctx context.Context, id string, limit int) ([]domain.Message, error) {
	ret := _m.Called(ctx, id, limit)
	var r0 []domain.Message
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Message)
	}
	return r0, ret.Error(1)
}

func NewSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// QuoteStore is a mock type for the chat.QuoteStore type
type QuoteStore struct {
	mock.Mock
}

func (_m *QuoteStore) SaveQuote(ctx context.Context, customerID int, token domain.QuoteToken) error {
	ret := _m.Called(ctx, customerID, token)
	return ret.Error(0)
}

func (_m *QuoteStore) Quote(ctx context.Context, customerID int, fingerprint string) (*domain.QuoteToken, error) {
	ret := _m.Called(ctx, customerID, fingerprint)
	var r0 *domain.QuoteToken
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.QuoteToken)
	}
	return r0, ret.Error(1)
}

func (_m *QuoteStore) DeleteQuote(ctx context.Context, customerID int, fingerprint string) error {
	ret := _m.Called(ctx, customerID, fingerprint)
	return ret.Error(0)
}

func NewQuoteStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *QuoteStore {
	m := &QuoteStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

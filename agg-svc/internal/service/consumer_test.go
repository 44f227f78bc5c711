package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"foodie/agg-svc/internal/domain"
	"foodie/agg-svc/internal/mocks"
	"foodie/agg-svc/internal/service"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

func TestConsumer_Process(t *testing.T) {
	jollof := []domain.OrderLine{{Name: "Jollof Rice", Quantity: 2}, {Name: "Zobo", Quantity: 1}}

	tests := []struct {
		name           string
		inputMessage   domain.KafkaMessage
		setupMockStore func(*mocks.StoreInterface)
		wantErr        error
		wantAnyErr     bool
	}{
		{
			name: "order placed",
			inputMessage: domain.KafkaMessage{
				Type:       domain.EventOrderPlaced,
				CustomerID: 1,
				OrderID:    "9b2f",
				Items:      jollof,
				Amount:     decimal.RequireFromString("2795"),
				Timestamp:  placedAt,
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordOrder", mock.Anything, jollof, placedAt).Return(nil).Once()
			},
		},
		{
			name: "order without timestamp uses the current time",
			inputMessage: domain.KafkaMessage{
				Type:  domain.EventOrderPlaced,
				Items: jollof,
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordOrder", mock.Anything, jollof, mock.MatchedBy(func(at time.Time) bool {
					return !at.IsZero()
				})).Return(nil).Once()
			},
		},
		{
			name:           "order without items",
			inputMessage:   domain.KafkaMessage{Type: domain.EventOrderPlaced, OrderID: "empty"},
			setupMockStore: func(*mocks.StoreInterface) {},
			wantErr:        service.ErrMalformedEvent,
		},
		{
			name: "order store error",
			inputMessage: domain.KafkaMessage{
				Type:      domain.EventOrderPlaced,
				Items:     jollof,
				Timestamp: placedAt,
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordOrder", mock.Anything, jollof, placedAt).Return(errors.New("redis error")).Once()
			},
			wantAnyErr: true,
		},
		{
			name: "table booked",
			inputMessage: domain.KafkaMessage{
				Type:      domain.EventTableBooked,
				Location:  "ikeja",
				TableType: "table_for_4",
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordBooking", mock.Anything, "ikeja", "table_for_4").Return(nil).Once()
			},
		},
		{
			name:           "booking without location",
			inputMessage:   domain.KafkaMessage{Type: domain.EventTableBooked, TableType: "table_for_2"},
			setupMockStore: func(*mocks.StoreInterface) {},
			wantErr:        service.ErrMalformedEvent,
		},
		{
			name:           "wallet deposit is ignored",
			inputMessage:   domain.KafkaMessage{Type: domain.EventWalletDeposited, Amount: decimal.NewFromInt(500)},
			setupMockStore: func(*mocks.StoreInterface) {},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := service.NewConsumer(nil, mockStore, zerolog.Nop())

			err := consumer.Process(context.Background(), testCase.inputMessage)
			switch {
			case testCase.wantErr != nil:
				assert.ErrorIs(t, err, testCase.wantErr)
			case testCase.wantAnyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func encode(t *testing.T, msg domain.KafkaMessage) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestConsumer_Start(t *testing.T) {
	reader := mocks.NewMessageReader(t)
	mockStore := mocks.NewStoreInterface(t)

	lines := []domain.OrderLine{{Name: "Pounded Yam", Quantity: 3}}
	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{Value: []byte("{not json")}, nil).Once()
	reader.On("ReadMessage", mock.Anything).Return(encode(t, domain.KafkaMessage{
		Type:      domain.EventOrderPlaced,
		Items:     lines,
		Timestamp: placedAt,
	}), nil).Once()
	reader.On("ReadMessage", mock.Anything).Return(encode(t, domain.KafkaMessage{
		Type:      domain.EventTableBooked,
		Location:  "lekki",
		TableType: "table_for_2",
	}), nil).Once()
	reader.On("ReadMessage", mock.Anything).Return(nil, io.EOF).Once()

	mockStore.On("RecordOrder", mock.Anything, lines, mock.MatchedBy(func(at time.Time) bool {
		return at.Equal(placedAt)
	})).Return(nil).Once()
	mockStore.On("RecordBooking", mock.Anything, "lekki", "table_for_2").Return(errors.New("redis error")).Once()

	consumer := service.NewConsumer(reader, mockStore, zerolog.Nop())

	assert.NoError(t, consumer.Start(context.Background()))
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	reader := mocks.NewMessageReader(t)
	mockStore := mocks.NewStoreInterface(t)

	ctx, cancel := context.WithCancel(context.Background())
	reader.On("ReadMessage", mock.Anything).Return(nil, errors.New("broker unavailable")).Run(func(mock.Arguments) {
		cancel()
	}).Once()

	consumer := service.NewConsumer(reader, mockStore, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- consumer.Start(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

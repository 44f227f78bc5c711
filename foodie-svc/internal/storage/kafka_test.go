package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"foodie/foodie-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)

	msg := domain.KafkaMessage{
		Type:       domain.EventOrderPlaced,
		CustomerID: 7,
		OrderID:    "9c1f2a9e-0000-4000-8000-000000000001",
		Items:      []domain.OrderLine{{Name: "Jollof Rice", Quantity: 2}},
		Amount:     decimal.NewFromInt(2795),
		Timestamp:  time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(context.Background(), msg))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, "7", string(writer.messages[0].Key))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, "order_placed", decoded["type"])
	assert.Equal(t, float64(2795), decoded["amount"])
}

func TestKafkaPublisher_PropagatesError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	publisher := NewKafkaPublisher(writer)

	err := publisher.Publish(context.Background(), domain.KafkaMessage{Type: domain.EventWalletDeposited})
	assert.EqualError(t, err, "broker down")
}

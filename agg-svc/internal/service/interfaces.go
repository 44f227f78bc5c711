package service

import (
	"context"
	"time"

	"foodie/agg-svc/internal/domain"
	"foodie/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type StoreInterface interface {
	RecordOrder(ctx context.Context, items []domain.OrderLine, at time.Time) error
	RecordBooking(ctx context.Context, location, tableType string) error
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	Process(ctx context.Context, msg domain.KafkaMessage) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"foodie/agg-svc/internal/domain"
	"foodie/metrics"

	"github.com/rs/zerolog"
)

var ErrMalformedEvent = errors.New("malformed event")

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	logger zerolog.Logger

	retryDelay time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface, logger zerolog.Logger) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		logger:     logger,
		retryDelay: time.Second,
	}
}

// Start reads events until ctx is cancelled or the reader is closed.
// A message that fails to decode or apply is logged and skipped.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().Msg("Starting Aggregation Service consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Error().Err(err).Msg("error reading message")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}

		var msg domain.KafkaMessage
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			c.logger.Warn().Err(err).Int64("offset", message.Offset).Msg("error unmarshaling message")
			metrics.IncEventConsumed("unknown", "malformed")
			continue
		}

		if err := c.Process(ctx, msg); err != nil {
			c.logger.Error().Err(err).Str("type", msg.Type).Int64("offset", message.Offset).Msg("failed to process event")
		}
	}
}

func (c *Consumer) Process(ctx context.Context, msg domain.KafkaMessage) error {
	var err error
	switch msg.Type {
	case domain.EventOrderPlaced:
		err = c.processOrder(ctx, msg)
	case domain.EventTableBooked:
		err = c.processBooking(ctx, msg)
	default:
		metrics.IncEventConsumed(msg.Type, "ignored")
		return nil
	}

	result := "ok"
	switch {
	case errors.Is(err, ErrMalformedEvent):
		result = "malformed"
	case err != nil:
		result = "error"
	}
	metrics.IncEventConsumed(msg.Type, result)
	return err
}

func (c *Consumer) processOrder(ctx context.Context, msg domain.KafkaMessage) error {
	if len(msg.Items) == 0 {
		return fmt.Errorf("%w: order %s has no items", ErrMalformedEvent, msg.OrderID)
	}

	at := msg.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	if err := c.Store.RecordOrder(ctx, msg.Items, at); err != nil {
		return fmt.Errorf("failed to record order %s: %w", msg.OrderID, err)
	}

	c.logger.Info().
		Str("order_id", msg.OrderID).
		Int("customer_id", msg.CustomerID).
		Int("lines", len(msg.Items)).
		Msg("order aggregated")
	return nil
}

func (c *Consumer) processBooking(ctx context.Context, msg domain.KafkaMessage) error {
	if msg.Location == "" || msg.TableType == "" {
		return fmt.Errorf("%w: booking without location or table type", ErrMalformedEvent)
	}
	if err := c.Store.RecordBooking(ctx, msg.Location, msg.TableType); err != nil {
		return fmt.Errorf("failed to record booking at %s: %w", msg.Location, err)
	}

	c.logger.Info().
		Str("location", msg.Location).
		Str("table_type", msg.TableType).
		Msg("booking aggregated")
	return nil
}

package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodie/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	PopularAllTimeKey = "popular:alltime"
	dailyRetention    = 7 * 24 * time.Hour
)

func DailyKey(at time.Time) string {
	return "popular:daily:" + at.UTC().Format("2006-01-02")
}

func BookingsKey(location string) string {
	return "bookings:" + strings.ToLower(strings.TrimSpace(location))
}

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// RecordOrder adds each line's quantity to the all-time and daily
// leaderboards. Lines without a name or with a non-positive quantity are
// skipped.
func (s *Store) RecordOrder(ctx context.Context, items []domain.OrderLine, at time.Time) error {
	dailyKey := DailyKey(at)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range items {
			name := strings.TrimSpace(item.Name)
			if name == "" || item.Quantity <= 0 {
				continue
			}
			pipe.ZIncrBy(ctx, PopularAllTimeKey, float64(item.Quantity), name)
			pipe.ZIncrBy(ctx, dailyKey, float64(item.Quantity), name)
		}
		pipe.Expire(ctx, dailyKey, dailyRetention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update popularity: %w", err)
	}
	return nil
}

func (s *Store) RecordBooking(ctx context.Context, location, tableType string) error {
	if err := s.rdb.HIncrBy(ctx, BookingsKey(location), tableType, 1).Err(); err != nil {
		return fmt.Errorf("failed to update bookings: %w", err)
	}
	return nil
}

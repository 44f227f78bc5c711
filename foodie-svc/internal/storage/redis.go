package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"foodie/foodie-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Keys maintained by agg-svc from order_placed and table_booked events.
const (
	PopularAllTimeKey = "popular:alltime"
	popularDailyKey   = "popular:daily:"
	bookingsKey       = "bookings:"
)

type RedisPopularity struct {
	Client *redis.Client
	now    func() time.Time
}

func NewRedisPopularity(client *redis.Client) *RedisPopularity {
	return &RedisPopularity{Client: client, now: time.Now}
}

func (p *RedisPopularity) key(period string) string {
	if period == domain.PeriodDaily {
		return popularDailyKey + p.now().UTC().Format("2006-01-02")
	}
	return PopularAllTimeKey
}

func (p *RedisPopularity) TopDishes(ctx context.Context, period string, limit int) ([]domain.PopularDish, error) {
	entries, err := p.Client.ZRevRangeWithScores(ctx, p.key(period), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read popularity: %w", err)
	}

	dishes := make([]domain.PopularDish, 0, len(entries))
	for _, entry := range entries {
		name, ok := entry.Member.(string)
		if !ok {
			continue
		}
		dishes = append(dishes, domain.PopularDish{Name: name, Quantity: int64(entry.Score)})
	}
	return dishes, nil
}

// BookingCounts returns committed bookings per table type for a branch.
func (p *RedisPopularity) BookingCounts(ctx context.Context, location string) (map[string]int64, error) {
	raw, err := p.Client.HGetAll(ctx, bookingsKey+domain.NormalizeName(location)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for tableType, value := range raw {
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}
		counts[tableType] = n
	}
	return counts, nil
}

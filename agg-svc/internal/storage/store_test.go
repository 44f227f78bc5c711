package storage

import (
	"context"
	"testing"
	"time"

	"foodie/agg-svc/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client), mr
}

func TestStore_RecordOrder(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordOrder(ctx, []domain.OrderLine{
		{Name: "Jollof Rice", Quantity: 2},
		{Name: "Zobo", Quantity: 1},
	}, at))
	require.NoError(t, store.RecordOrder(ctx, []domain.OrderLine{
		{Name: "Jollof Rice", Quantity: 3},
		{Name: "  ", Quantity: 4},
		{Name: "Suya", Quantity: 0},
	}, at))

	score, err := mr.ZScore(PopularAllTimeKey, "Jollof Rice")
	require.NoError(t, err)
	assert.Equal(t, 5.0, score)

	daily := "popular:daily:2026-03-14"
	assert.Equal(t, daily, DailyKey(at))
	score, err = mr.ZScore(daily, "Zobo")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	members, err := mr.ZMembers(PopularAllTimeKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Jollof Rice", "Zobo"}, members)

	assert.Equal(t, 7*24*time.Hour, mr.TTL(daily))
	assert.Zero(t, mr.TTL(PopularAllTimeKey))
}

func TestStore_RecordBooking(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordBooking(ctx, "Ikeja", "table_for_2"))
	require.NoError(t, store.RecordBooking(ctx, "ikeja", "table_for_2"))
	require.NoError(t, store.RecordBooking(ctx, "ikeja", "table_for_6"))

	assert.Equal(t, "2", mr.HGet("bookings:ikeja", "table_for_2"))
	assert.Equal(t, "1", mr.HGet("bookings:ikeja", "table_for_6"))
}

func TestStore_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	err := store.RecordOrder(context.Background(), []domain.OrderLine{{Name: "Zobo", Quantity: 1}}, time.Now())
	assert.ErrorContains(t, err, "failed to update popularity")

	err = store.RecordBooking(context.Background(), "ikeja", "table_for_2")
	assert.ErrorContains(t, err, "failed to update bookings")
}

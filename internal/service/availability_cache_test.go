package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestCache(t *testing.T) (*AvailabilityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewAvailabilityCache(client, quietLogger()), mr
}

func TestAvailabilityCache_SetGetInvalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	therapistID := uuid.New()
	date := time.Now().AddDate(0, 0, 3).UTC().Truncate(24 * time.Hour)

	_, gen, hit := cache.Get(ctx, therapistID, date)
	assert.False(t, hit)

	cache.Set(ctx, therapistID, date, gen, []string{"09:00", "14:00"})
	got, _, hit := cache.Get(ctx, therapistID, date)
	require.True(t, hit)
	assert.Equal(t, []string{"09:00", "14:00"}, got)

	key := availabilityKey(therapistID, date)
	assert.True(t, mr.Exists(key))
	assert.Greater(t, mr.TTL(key), time.Duration(0))
	assert.LessOrEqual(t, mr.TTL(key), maxAvailabilityTTL)

	cache.Invalidate(ctx, therapistID, date)
	_, _, hit = cache.Get(ctx, therapistID, date)
	assert.False(t, hit)
	assert.Greater(t, mr.TTL(generationKey(therapistID, date)), time.Duration(0))
}

func TestAvailabilityCache_FillAfterInvalidateIsDropped(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	therapistID := uuid.New()
	date := time.Now().AddDate(0, 2, 0).UTC().Truncate(24 * time.Hour)

	_, gen, hit := cache.Get(ctx, therapistID, date)
	require.False(t, hit)

	// a booking commits between the database read and the fill
	cache.Invalidate(ctx, therapistID, date)
	cache.Set(ctx, therapistID, date, gen, []string{})

	_, _, hit = cache.Get(ctx, therapistID, date)
	assert.False(t, hit)
	assert.False(t, mr.Exists(availabilityKey(therapistID, date)))

	_, gen, _ = cache.Get(ctx, therapistID, date)
	cache.Set(ctx, therapistID, date, gen, []string{"09:00"})
	got, _, hit := cache.Get(ctx, therapistID, date)
	require.True(t, hit)
	assert.Equal(t, []string{"09:00"}, got)
}

func TestAvailabilityCache_EmptyDayIsAHit(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	therapistID := uuid.New()
	date := time.Now().AddDate(0, 0, 1)

	cache.Set(ctx, therapistID, date, "", nil)
	got, _, hit := cache.Get(ctx, therapistID, date)

	require.True(t, hit)
	assert.Empty(t, got)
}

func TestAvailabilityCache_RedisDownIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	_, _, hit := cache.Get(context.Background(), uuid.New(), time.Now())
	assert.False(t, hit)
}

func TestAvailabilityCache_NilIsAlwaysMiss(t *testing.T) {
	var cache *AvailabilityCache
	cache.Set(context.Background(), uuid.New(), time.Now(), "", []string{"09:00"})
	_, _, hit := cache.Get(context.Background(), uuid.New(), time.Now())
	assert.False(t, hit)
}

func TestCalculateTTL(t *testing.T) {
	assert.Equal(t, maxAvailabilityTTL, calculateTTL(time.Now().AddDate(0, 3, 0)))
	assert.Equal(t, time.Minute, calculateTTL(time.Now().AddDate(0, 0, -3)))

	soon := calculateTTL(time.Now().Add(-24*time.Hour + 2*time.Minute))
	assert.Greater(t, soon, time.Duration(0))
	assert.LessOrEqual(t, soon, 2*time.Minute)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"awn-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisAvailabilityKeyPrefix prefixes the occupied slot times of one therapist day
	RedisAvailabilityKeyPrefix = "availability:"

	// RedisAvailabilityGenPrefix prefixes the write generation of one therapist day
	RedisAvailabilityGenPrefix = "availability_gen:"

	// Timeout for individual Redis operations
	redisCacheTimeout = 2 * time.Second

	// maxAvailabilityTTL bounds how long a cached day is served
	maxAvailabilityTTL = 10 * time.Minute

	// generationTTL outlives every cached day it guards
	generationTTL = time.Hour

	// emptyDayMarker distinguishes a cached day without bookings from a cache miss
	emptyDayMarker = "-"
)

// AvailabilityCache keeps the occupied slot times of a therapist day in Redis.
// Every failure is logged and treated as a miss, the database stays authoritative.
// A nil *AvailabilityCache is a valid, always missing cache.
//
// Each day carries a generation counter bumped by Invalidate. A reader fills
// the cache only if the generation it saw before reading the database is
// still current, so a fill never overwrites a newer invalidation.
type AvailabilityCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewAvailabilityCache(redisClient *redis.Client, log *logrus.Logger) *AvailabilityCache {
	return &AvailabilityCache{
		redisClient: redisClient,
		log:         log,
	}
}

// Get returns the cached occupied times, the day's generation and whether the day was cached.
// The generation must be handed back to Set after reading the database.
func (c *AvailabilityCache) Get(ctx context.Context, therapistID uuid.UUID, date time.Time) ([]string, string, bool) {
	if c == nil {
		return nil, "", false
	}
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	values, err := c.redisClient.MGet(ctx, availabilityKey(therapistID, date), generationKey(therapistID, date)).Result()
	if err != nil {
		c.log.Warnf("Failed to read availability cache for therapist %s on %s: %+v", therapistID, date.Format(entity.DateLayout), err)
		return nil, "", false
	}

	generation, _ := values[1].(string)
	value, ok := values[0].(string)
	if !ok {
		return nil, generation, false
	}
	if value == emptyDayMarker {
		return []string{}, generation, true
	}
	return strings.Split(value, ","), generation, true
}

// Set caches the occupied times read under generation. It is a no-op when the
// day was invalidated since that generation was observed.
func (c *AvailabilityCache) Set(ctx context.Context, therapistID uuid.UUID, date time.Time, generation string, occupied []string) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	value := emptyDayMarker
	if len(occupied) > 0 {
		value = strings.Join(occupied, ",")
	}
	key, genKey := availabilityKey(therapistID, date), generationKey(therapistID, date)

	err := c.redisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, calculateTTL(date))
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.log.Debugf("Skipped stale availability fill for therapist %s on %s", therapistID, date.Format(entity.DateLayout))
	default:
		c.log.Warnf("Failed to write availability cache for therapist %s on %s: %+v", therapistID, date.Format(entity.DateLayout), err)
	}
}

// Invalidate bumps the generation of the given days and drops their cached times.
func (c *AvailabilityCache) Invalidate(ctx context.Context, therapistID uuid.UUID, dates ...time.Time) {
	if c == nil || len(dates) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	_, err := c.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range dates {
			genKey := generationKey(therapistID, d)
			pipe.Incr(ctx, genKey)
			pipe.Expire(ctx, genKey, generationTTL)
			pipe.Del(ctx, availabilityKey(therapistID, d))
		}
		return nil
	})
	if err != nil {
		c.log.Warnf("Failed to invalidate availability cache for therapist %s: %+v", therapistID, err)
	}
}

var errStaleGeneration = errors.New("availability generation moved")

func availabilityKey(therapistID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s%s:%s", RedisAvailabilityKeyPrefix, therapistID, date.Format(entity.DateLayout))
}

func generationKey(therapistID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s%s:%s", RedisAvailabilityGenPrefix, therapistID, date.Format(entity.DateLayout))
}

// calculateTTL keeps a day at most maxAvailabilityTTL and never past the day after date.
func calculateTTL(date time.Time) time.Duration {
	ttl := time.Until(date.AddDate(0, 0, 1))
	if ttl <= 0 {
		return time.Minute
	}
	if ttl > maxAvailabilityTTL {
		return maxAvailabilityTTL
	}
	return ttl
}

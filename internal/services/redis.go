package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// BookingUpdatesChannel carries every booking event as JSON
	BookingUpdatesChannel = "booking:updates"

	availabilityTTL = 5 * time.Minute
)

// NewRedisClient parses the URL and checks the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func availabilityKey(vehicleID string) string {
	return "vehicle:availability:" + vehicleID
}

// RedisCache keeps availability responses in Redis. Errors are logged and
// treated as a miss so the database stays the source of truth.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisCache(client redis.Cmdable, log *logger.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: availabilityTTL, log: log.With("component", "availability_cache")}
}

func (c *RedisCache) Get(ctx context.Context, vehicleID string) ([]DateRange, bool) {
	data, err := c.client.Get(ctx, availabilityKey(vehicleID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("availability cache read failed", "vehicle_id", vehicleID, "error", err)
		return nil, false
	}

	var ranges []DateRange
	if err := json.Unmarshal(data, &ranges); err != nil {
		c.log.Warn("discarding corrupt availability entry", "vehicle_id", vehicleID, "error", err)
		return nil, false
	}
	return ranges, true
}

func (c *RedisCache) Set(ctx context.Context, vehicleID string, ranges []DateRange) {
	data, err := json.Marshal(ranges)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, availabilityKey(vehicleID), data, c.ttl).Err(); err != nil {
		c.log.Warn("availability cache write failed", "vehicle_id", vehicleID, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, vehicleID string) {
	if err := c.client.Del(ctx, availabilityKey(vehicleID)).Err(); err != nil {
		c.log.Warn("availability cache invalidation failed", "vehicle_id", vehicleID, "error", err)
	}
}

// RedisPublisher fans booking events out to other API instances
type RedisPublisher struct {
	client redis.Cmdable
}

func NewRedisPublisher(client redis.Cmdable) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// PublishBookingEvent publishes the event on BookingUpdatesChannel
func (p *RedisPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, BookingUpdatesChannel, data).Err()
}

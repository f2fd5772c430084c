package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/UnknownOlympus/beacon/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the part of *redis.Client the sink uses.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisSink keeps the latest coordinates of the cab under "cab:location:<cab>" and publishes
// every update as JSON on a channel for live listeners.
type RedisSink struct {
	cabID   string
	client  RedisClient
	ttl     time.Duration
	channel string
	now     clock
}

func NewRedisSink(cabID string, client RedisClient, ttl time.Duration, channel string) *RedisSink {
	return &RedisSink{cabID: cabID, client: client, ttl: ttl, channel: channel, now: utcNow}
}

// LatestKey returns the key holding the latest coordinates of a cab.
func LatestKey(cabID string) string {
	return "cab:location:" + cabID
}

func (rs *RedisSink) UpdateLocation(ctx context.Context, coordinates string) error {
	if err := rs.client.Set(ctx, LatestKey(rs.cabID), coordinates, rs.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store latest location in redis: %w", err)
	}

	if rs.channel == "" {
		return nil
	}

	payload, err := json.Marshal(models.LocationUpdate{CabID: rs.cabID, Coordinates: coordinates, RecordedAt: rs.now()})
	if err != nil {
		return fmt.Errorf("failed to encode location update: %w", err)
	}

	if err = rs.client.Publish(ctx, rs.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish location update to redis: %w", err)
	}

	return nil
}

func (rs *RedisSink) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

func (rs *RedisSink) Close() error {
	return rs.client.Close()
}

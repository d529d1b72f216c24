package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisTrendCache implements domain.TrendCache on Redis with JSON values
type RedisTrendCache struct {
	client *redis.Client
}

// NewRedisClient connects to Redis. A bare host:port is accepted as well as a redis:// URL.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisTrendCache creates a cache on an existing client
func NewRedisTrendCache(client *redis.Client) *RedisTrendCache {
	return &RedisTrendCache{client: client}
}

// Get returns the cached series; any Redis or decode error counts as a miss
func (c *RedisTrendCache) Get(ctx context.Context, key string) (*domain.TrendSeries, bool) {
	cached, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("Trend cache read failed")
		}
		return nil, false
	}

	var series domain.TrendSeries
	if err := json.Unmarshal(cached, &series); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable trend cache entry")
		return nil, false
	}
	return &series, true
}

// Set stores the series for ttl; failures are logged and ignored
func (c *RedisTrendCache) Set(ctx context.Context, key string, series *domain.TrendSeries, ttl time.Duration) {
	data, err := json.Marshal(series)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode trend series")
		return
	}
	if err := c.client.SetEx(ctx, key, data, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Trend cache write failed")
	}
}

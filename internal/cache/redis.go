package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/plutus/internal/salary"
)

const (
	// DefaultSeasonTTL keeps scraped seasons for an hour
	DefaultSeasonTTL = time.Hour

	seasonKeyPrefix = "plutus:salaries:"
)

// ErrMiss is returned when a key is absent or expired
var ErrMiss = errors.New("cache miss")

// RedisCache handles caching of scraped salary seasons
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisCacheFromClient(client, ttl), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultSeasonTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Set stores a key-value pair with TTL
func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value by key
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := rc.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

// Delete removes a key
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

// SeasonKey is the cache key for a season's records
func SeasonKey(season salary.Season) string {
	return seasonKeyPrefix + string(season)
}

// SetSeason caches a season's records as JSON
func (rc *RedisCache) SetSeason(ctx context.Context, season salary.Season, records []salary.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode season %s: %w", season, err)
	}
	return rc.Set(ctx, SeasonKey(season), data, rc.ttl)
}

// GetSeason returns cached records for season or ErrMiss
func (rc *RedisCache) GetSeason(ctx context.Context, season salary.Season) ([]salary.Record, error) {
	raw, err := rc.Get(ctx, SeasonKey(season))
	if err != nil {
		return nil, err
	}

	var records []salary.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode season %s: %w", season, err)
	}
	return records, nil
}

// InvalidateSeason drops the cached records for season
func (rc *RedisCache) InvalidateSeason(ctx context.Context, season salary.Season) error {
	return rc.Delete(ctx, SeasonKey(season))
}

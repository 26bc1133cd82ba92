package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hireloop/interview-engine/internal/models"
)

const redisKeyPrefix = "interview:session:"

// RedisRepository implements Repository on Redis. Snapshots carry a TTL
// covering the session budget plus the retention window, so Redis evicts
// stale records on its own.
type RedisRepository struct {
	client    *redis.Client
	retention time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Address   string
	Password  string
	DB        int
	Retention time.Duration
}

// NewRedisRepository creates a Redis-backed snapshot repository.
func NewRedisRepository(ctx context.Context, cfg RedisConfig) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}

	return &RedisRepository{client: client, retention: retention}, nil
}

// Ping checks Redis connectivity.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// SaveSnapshot stores the session as JSON under its id.
func (r *RedisRepository) SaveSnapshot(ctx context.Context, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt) + r.retention
	if ttl < r.retention {
		ttl = r.retention
	}

	if err := r.client.Set(ctx, redisKeyPrefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves a session by id. Returns (nil, nil) when the key
// is absent or already evicted.
func (r *RedisRepository) LoadSnapshot(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session snapshot: %w", err)
	}
	return &sess, nil
}

// DeleteSnapshot removes a session record.
func (r *RedisRepository) DeleteSnapshot(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	return nil
}

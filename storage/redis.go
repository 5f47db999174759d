package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tm9657/jwk-vault/interfaces"
)

// RedisKV implements the record store on Redis. SETNX gives the conditional
// creation semantics the vault requires: a losing concurrent creator
// observes the winner's record instead of overwriting it.
type RedisKV struct {
	client      *redis.Client
	prefix      string
	log         *slog.Logger
	locationURI string
}

// NewRedisKV creates a Redis-backed record store. The prefix namespaces all
// record keys so the database can be shared with other applications.
func NewRedisKV(addr, password string, db int, prefix string, log *slog.Logger) (*RedisKV, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisKV{
		client:      client,
		prefix:      prefix,
		log:         log,
		locationURI: fmt.Sprintf("redis://%s/%d", addr, db),
	}, nil
}

// Get retrieves the raw record for a key.
// Returns ErrRecordNotFound if the key doesn't exist.
func (b *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()

	data, err := b.client.Get(ctx, b.recordKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, interfaces.ErrRecordNotFound
	}
	if err != nil {
		b.log.Error("Failed to get record from Redis",
			slog.String("key", key),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Debug("Fetched record from Redis",
		slog.String("key", key),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// PutIfAbsent stores value only if no record exists for key, using SETNX.
func (b *RedisKV) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	stored, err := b.client.SetNX(ctx, b.recordKey(key), value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Debug("Conditional store in Redis",
		slog.String("key", key),
		slog.Bool("stored", stored))

	return stored, nil
}

// Delete removes the record for a key. A missing key is not an error.
func (b *RedisKV) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.recordKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	return nil
}

// Available checks if the Redis server responds to a ping.
func (b *RedisKV) Available(ctx context.Context) bool {
	if err := b.client.Ping(ctx).Err(); err != nil {
		b.log.Warn("Redis backend unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this storage backend.
func (b *RedisKV) Name() string {
	return fmt.Sprintf("redis-%s", b.client.Options().Addr)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *RedisKV) LocationURI() string { return b.locationURI }

func (b *RedisKV) recordKey(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + ":" + key
}

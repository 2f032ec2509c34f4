package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const maxUpdateRetries = 10

// Redis implements Store on a Redis server. Updates use WATCH/MULTI so that
// concurrent writers to the same key retry instead of overwriting each other.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedis creates a Redis-backed store. Keys are stored under prefix and
// expire ttl after their last write; a zero ttl disables expiry.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration, logger zerolog.Logger) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With().Str("component", "redis-kvstore").Logger(),
	}
}

// Get returns the value at key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

// Update applies fn under an optimistic lock on key.
func (r *Redis) Update(ctx context.Context, key string, fn UpdateFunc) error {
	fullKey := r.prefix + key

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, fullKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis get failed: %w", err)
		}
		if errors.Is(err, redis.Nil) {
			current = nil
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, fullKey)
				return nil
			}
			pipe.Set(ctx, fullKey, next, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, fullKey)
		if errors.Is(err, redis.TxFailedErr) {
			r.logger.Debug().Str("key", fullKey).Int("attempt", i+1).Msg("concurrent update, retrying")
			continue
		}
		return err
	}

	return fmt.Errorf("redis update of %s failed after %d attempts: %w", fullKey, maxUpdateRetries, redis.TxFailedErr)
}

// Take removes and returns the value at key with GETDEL.
func (r *Redis) Take(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.GetDel(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis getdel failed: %w", err)
	}
	return data, nil
}

package cache

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisBookCache instance
func setupTestRedis(t *testing.T) (*RedisBookCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisBookCache(client, 10*time.Minute)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestSetThenGet(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	book := &model.Book{
		ID:     7,
		Title:  "Dune",
		Author: "Frank Herbert",
		Price:  decimal.RequireFromString("12.50"),
	}

	require.NoError(t, cache.Set(ctx, book))

	ttl := mr.TTL(cacheKey(7))
	assert.GreaterOrEqual(t, ttl, 10*time.Minute)
	assert.Less(t, ttl, 11*time.Minute)

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.True(t, book.Price.Equal(got.Price))
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey(1), "not json")

	result, err := cache.Get(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal book failed")
	assert.Nil(t, result)
}

func TestDelete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey(3), "{}")

	require.NoError(t, cache.Delete(context.Background(), 3))
	assert.False(t, mr.Exists(cacheKey(3)))
}

func TestNoop(t *testing.T) {
	var c BookCache = Noop{}

	_, err := c.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Set(context.Background(), &model.Book{ID: 1}))
	assert.NoError(t, c.Delete(context.Background(), 1))
}

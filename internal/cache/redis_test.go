package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-portfolio-api/internal/config"
	"go-portfolio-api/internal/model"
)

func newTestCache(t *testing.T) (ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisProductCache(client, time.Minute, zerolog.Nop()), mr
}

func TestRedisProductCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	products := []model.ProductResponse{{
		ID:      uuid.New(),
		Name:    "Widget",
		Likes:   1,
		LikedBy: []model.UserSummary{{ID: uuid.New(), Name: "Alice"}},
	}}
	require.NoError(t, c.Set(ctx, products))
	assert.Equal(t, time.Minute, mr.TTL(productListKey))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, products[0].ID, got[0].ID)
	assert.Equal(t, "Alice", got[0].LikedBy[0].Name)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisProductCache_EmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, []model.ProductResponse{}))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedisProductCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set(productListKey, "{not json"))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(productListKey))
}

func TestRedisProductCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(ctx)
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(ctx))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

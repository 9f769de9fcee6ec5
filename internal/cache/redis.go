package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/config"
	"go-portfolio-api/internal/model"
)

const productListKey = "products:all"

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisClient connects and pings; callers fall back to NopProductCache on error.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) ProductCache {
	return &redisProductCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "product-cache").Logger(),
	}
}

func (c *redisProductCache) Get(ctx context.Context) ([]model.ProductResponse, bool, error) {
	raw, err := c.client.Get(ctx, productListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read product cache: %w", err)
	}

	var products []model.ProductResponse
	if err := json.Unmarshal(raw, &products); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		c.logger.Warn().Err(err).Msg("discarding unreadable product cache entry")
		_ = c.Invalidate(ctx)
		return nil, false, nil
	}
	return products, true, nil
}

func (c *redisProductCache) Set(ctx context.Context, products []model.ProductResponse) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode product cache: %w", err)
	}
	if err := c.client.Set(ctx, productListKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write product cache: %w", err)
	}
	return nil
}

func (c *redisProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, productListKey).Err(); err != nil {
		return fmt.Errorf("invalidate product cache: %w", err)
	}
	return nil
}

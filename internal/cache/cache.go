package cache

import (
	"context"

	"go-portfolio-api/internal/model"
)

// ProductCache holds the rendered public product list.
// Get reports ok=false on a miss.
type ProductCache interface {
	Get(ctx context.Context) (products []model.ProductResponse, ok bool, err error)
	Set(ctx context.Context, products []model.ProductResponse) error
	Invalidate(ctx context.Context) error
}

// NopProductCache always misses.
type NopProductCache struct{}

func (NopProductCache) Get(context.Context) ([]model.ProductResponse, bool, error) {
	return nil, false, nil
}

func (NopProductCache) Set(context.Context, []model.ProductResponse) error { return nil }

func (NopProductCache) Invalidate(context.Context) error { return nil }

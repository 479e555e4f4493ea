package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/bodega/internal/models"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

const ActiveProductsKey = "catalog:active"

type ActiveProductLister interface {
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
}

// Catalog is a read-through cache in front of the active product list.
// Redis failures are logged and the request falls through to Next.
type Catalog struct {
	Next   ActiveProductLister
	Client *redis.Client
	TTL    time.Duration
}

func NewCatalog(next ActiveProductLister, client *redis.Client, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{Next: next, Client: client, TTL: ttl}
}

func (c *Catalog) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("component", "cache.catalog")

	raw, err := c.Client.Get(ctx, ActiveProductsKey).Bytes()
	switch {
	case err == nil:
		var items []models.Product
		jerr := json.Unmarshal(raw, &items)
		if jerr == nil {
			return items, nil
		}
		l.Warn("cache_decode_error", "key", ActiveProductsKey, "error", jerr)
	case !errors.Is(err, redis.Nil):
		l.Warn("cache_get_error", "key", ActiveProductsKey, "error", err)
	}

	items, err := c.Next.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	if data, jerr := json.Marshal(items); jerr == nil {
		if serr := c.Client.Set(ctx, ActiveProductsKey, data, c.TTL).Err(); serr != nil {
			l.Warn("cache_set_error", "key", ActiveProductsKey, "error", serr)
		}
	}
	return items, nil
}

func (c *Catalog) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, ActiveProductsKey).Err()
}

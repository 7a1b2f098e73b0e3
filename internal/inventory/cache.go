package inventory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/wardrobe/internal/domain"
	"github.com/osse101/wardrobe/internal/metrics"
	"github.com/osse101/wardrobe/internal/repository"
)

// CachedCatalog is a read-through cache in front of a Catalog.
// Catalog rows change only through administration, so entries simply expire.
type CachedCatalog struct {
	inner repository.Catalog
	all   *expirable.LRU[string, []domain.Item]
	byID  *expirable.LRU[int64, domain.Item]
}

// NewCachedCatalog wraps inner with an LRU of the given size and TTL.
// Non-positive values fall back to the package defaults.
func NewCachedCatalog(inner repository.Catalog, size int, ttl time.Duration) *CachedCatalog {
	if size <= 0 {
		size = DefaultCatalogCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCatalogCacheTTL
	}
	return &CachedCatalog{
		inner: inner,
		all:   expirable.NewLRU[string, []domain.Item](1, nil, ttl),
		byID:  expirable.NewLRU[int64, domain.Item](size, nil, ttl),
	}
}

// GetAll returns the full catalog, from cache when fresh.
func (c *CachedCatalog) GetAll(ctx context.Context) ([]domain.Item, error) {
	if items, ok := c.all.Get(catalogAllKey); ok {
		metrics.CatalogCacheHits.WithLabelValues(LookupAll).Inc()
		return cloneItems(items), nil
	}
	metrics.CatalogCacheMisses.WithLabelValues(LookupAll).Inc()

	items, err := c.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	c.all.Add(catalogAllKey, cloneItems(items))
	for _, item := range items {
		c.byID.Add(item.ID, item)
	}
	return items, nil
}

// FindByID returns one item, from cache when fresh. Misses for absent items
// are not cached.
func (c *CachedCatalog) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	if item, ok := c.byID.Get(id); ok {
		metrics.CatalogCacheHits.WithLabelValues(LookupByID).Inc()
		return &item, nil
	}
	metrics.CatalogCacheMisses.WithLabelValues(LookupByID).Inc()

	item, err := c.inner.FindByID(ctx, id)
	if err != nil || item == nil {
		return item, err
	}

	c.byID.Add(id, *item)
	return item, nil
}

// Purge drops every cached entry.
func (c *CachedCatalog) Purge() {
	c.all.Purge()
	c.byID.Purge()
}

// Ping forwards to the wrapped catalog when it supports it.
func (c *CachedCatalog) Ping(ctx context.Context) error {
	if p, ok := c.inner.(repository.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func cloneItems(items []domain.Item) []domain.Item {
	if items == nil {
		return []domain.Item{}
	}
	return append([]domain.Item(nil), items...)
}

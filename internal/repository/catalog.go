package repository

import (
	"context"

	"github.com/osse101/wardrobe/internal/domain"
)

// Catalog defines read access to item definitions.
type Catalog interface {
	GetAll(ctx context.Context) ([]domain.Item, error)
	// FindByID returns (nil, nil) when the item does not exist.
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
}

// CatalogWriter is implemented by catalogs that accept item definitions.
// Upsert assigns item.ID when it is zero.
type CatalogWriter interface {
	Upsert(ctx context.Context, item *domain.Item) error
}

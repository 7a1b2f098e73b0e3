package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/wardrobe/internal/domain"
)

// CatalogRepository implements repository.Catalog for PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetAll retrieves every catalog item
func (r *CatalogRepository) GetAll(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items i ORDER BY i.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// FindByID retrieves one catalog item, or nil when absent
func (r *CatalogRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items i WHERE i.id = $1`

	var item domain.Item
	if err := scanItem(r.db.QueryRow(ctx, query, id), &item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return &item, nil
}

// Upsert inserts an item, or updates it when the ID already exists.
// A zero ID lets the database assign one; item is updated in place.
func (r *CatalogRepository) Upsert(ctx context.Context, item *domain.Item) error {
	var row pgx.Row
	if item.ID == 0 {
		row = r.db.QueryRow(ctx, `
			INSERT INTO inventory_items (name, asset_key, type, price, display_order, can_be_purchased, min_level)
			VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)
			RETURNING id, created_at, updated_at`,
			item.Name, item.AssetKey, item.Type, item.Price, item.DisplayOrder, item.CanBePurchased, item.MinLevel)
	} else {
		row = r.db.QueryRow(ctx, `
			INSERT INTO inventory_items (id, name, asset_key, type, price, display_order, can_be_purchased, min_level)
			VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				asset_key = EXCLUDED.asset_key,
				type = EXCLUDED.type,
				price = EXCLUDED.price,
				display_order = EXCLUDED.display_order,
				can_be_purchased = EXCLUDED.can_be_purchased,
				min_level = EXCLUDED.min_level,
				updated_at = NOW()
			RETURNING id, created_at, updated_at`,
			item.ID, item.Name, item.AssetKey, item.Type, item.Price, item.DisplayOrder, item.CanBePurchased, item.MinLevel)
	}

	if err := row.Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert item %q: %w", item.Name, err)
	}
	return nil
}

// SyncSequence moves the id sequence past the highest explicit ID so later
// inserts without an ID do not collide.
func (r *CatalogRepository) SyncSequence(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		SELECT setval(pg_get_serial_sequence('inventory_items', 'id'),
			GREATEST((SELECT COALESCE(MAX(id), 0) FROM inventory_items), 1))`)
	if err != nil {
		return fmt.Errorf("failed to sync item sequence: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (r *CatalogRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

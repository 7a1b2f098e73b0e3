package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/wardrobe/internal/domain"
)

// OwnershipRepository implements repository.Ownership for PostgreSQL,
// along with the bulk-unequip and exclusive-equip capabilities.
type OwnershipRepository struct {
	db *pgxpool.Pool
}

// NewOwnershipRepository creates a new OwnershipRepository
func NewOwnershipRepository(db *pgxpool.Pool) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

const selectRecords = `SELECT ` + recordColumns + `, ` + itemColumns + `
	FROM user_inventory_items u
	JOIN inventory_items i ON i.id = u.inventory_item_id`

// Add inserts a new ownership record
func (r *OwnershipRepository) Add(ctx context.Context, record *domain.UserItem) (*domain.UserItem, error) {
	query := `
		WITH u AS (
			INSERT INTO user_inventory_items (user_id, inventory_item_id, is_equipped)
			VALUES ($1, $2, $3)
			RETURNING *
		)
		SELECT ` + recordColumns + `, ` + itemColumns + `
		FROM u JOIN inventory_items i ON i.id = u.inventory_item_id`

	rec, err := scanRecord(r.db.QueryRow(ctx, query, record.UserID, record.ItemID, record.IsEquipped))
	if err != nil {
		switch pgErrorCode(err) {
		case PgErrorCodeUniqueViolation:
			return nil, fmt.Errorf("%w: user %d item %d", domain.ErrAlreadyOwned, record.UserID, record.ItemID)
		case PgErrorCodeForeignKeyViolation:
			return nil, fmt.Errorf("%w: %d", domain.ErrItemNotFound, record.ItemID)
		}
		return nil, fmt.Errorf("failed to add ownership record: %w", err)
	}
	return rec, nil
}

// Update persists the equip and soft-delete state of a record
func (r *OwnershipRepository) Update(ctx context.Context, record *domain.UserItem) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_inventory_items
		SET is_equipped = $2, deleted_at = $3, updated_at = NOW()
		WHERE id = $1`,
		record.ID, record.IsEquipped, record.DeletedAt)
	if err != nil {
		return fmt.Errorf("failed to update ownership record %d: %w", record.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: record %d", domain.ErrOwnershipNotFound, record.ID)
	}
	return nil
}

// DeleteByID permanently removes a record
func (r *OwnershipRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_inventory_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete ownership record %d: %w", id, err)
	}
	return nil
}

// FindByID retrieves a live record, or nil
func (r *OwnershipRepository) FindByID(ctx context.Context, id int64) (*domain.UserItem, error) {
	return r.findOne(ctx, selectRecords+` WHERE u.id = $1 AND u.deleted_at IS NULL`, id)
}

// FindOne retrieves the user's live record for an item, or nil
func (r *OwnershipRepository) FindOne(ctx context.Context, userID, itemID int64) (*domain.UserItem, error) {
	return r.findOne(ctx, selectRecords+`
		WHERE u.user_id = $1 AND u.inventory_item_id = $2 AND u.deleted_at IS NULL`,
		userID, itemID)
}

// FindAllForUser retrieves a user's records ordered by ID
func (r *OwnershipRepository) FindAllForUser(ctx context.Context, userID int64, includeDeleted bool) ([]domain.UserItem, error) {
	return r.findMany(ctx, selectRecords+`
		WHERE u.user_id = $1 AND ($2 OR u.deleted_at IS NULL)
		ORDER BY u.id`,
		userID, includeDeleted)
}

// FindEquipped retrieves a user's live equipped records ordered by ID
func (r *OwnershipRepository) FindEquipped(ctx context.Context, userID int64) ([]domain.UserItem, error) {
	return r.findMany(ctx, selectRecords+`
		WHERE u.user_id = $1 AND u.is_equipped AND u.deleted_at IS NULL
		ORDER BY u.id`,
		userID)
}

// UnequipByType clears every live equipped record of one item type in one
// statement. Types match ignoring case and surrounding space.
func (r *OwnershipRepository) UnequipByType(ctx context.Context, userID int64, itemType string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_inventory_items u
		SET is_equipped = FALSE, updated_at = NOW()
		FROM inventory_items i
		WHERE i.id = u.inventory_item_id
		  AND u.user_id = $1
		  AND lower(btrim(i.type)) = lower(btrim($2))
		  AND u.is_equipped
		  AND u.deleted_at IS NULL`,
		userID, itemType)
	if err != nil {
		return 0, fmt.Errorf("failed to unequip type %q: %w", itemType, err)
	}
	return tag.RowsAffected(), nil
}

// EquipExclusive unequips the user's other records of itemType and equips
// recordID in one transaction. A transaction-scoped advisory lock on
// (user, type) serializes concurrent equips of the same slot.
func (r *OwnershipRepository) EquipExclusive(ctx context.Context, userID, recordID int64, itemType string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::bigint::text || ':' || lower(btrim($2::text)), 0))`,
		userID, itemType); err != nil {
		return fmt.Errorf("failed to lock equip slot: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT TRUE FROM user_inventory_items
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		FOR UPDATE`,
		recordID, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: record %d", domain.ErrOwnershipNotFound, recordID)
		}
		return fmt.Errorf("failed to lock ownership record %d: %w", recordID, err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE user_inventory_items u
		SET is_equipped = FALSE, updated_at = NOW()
		FROM inventory_items i
		WHERE i.id = u.inventory_item_id
		  AND u.user_id = $1
		  AND lower(btrim(i.type)) = lower(btrim($2))
		  AND u.id <> $3
		  AND u.is_equipped
		  AND u.deleted_at IS NULL`,
		userID, itemType, recordID); err != nil {
		return fmt.Errorf("failed to unequip type %q: %w", itemType, err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE user_inventory_items
		SET is_equipped = TRUE, updated_at = NOW()
		WHERE id = $1`,
		recordID); err != nil {
		return fmt.Errorf("failed to equip record %d: %w", recordID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit equip: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (r *OwnershipRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *OwnershipRepository) findOne(ctx context.Context, query string, args ...any) (*domain.UserItem, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ownership record: %w", err)
	}
	return rec, nil
}

func (r *OwnershipRepository) findMany(ctx context.Context, query string, args ...any) ([]domain.UserItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ownership records: %w", err)
	}
	defer rows.Close()

	records := []domain.UserItem{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ownership record: %w", err)
		}
		records = append(records, *rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

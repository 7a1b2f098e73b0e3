package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/wardrobe/internal/domain"
	"github.com/osse101/wardrobe/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

// pgErrorCode returns the SQLSTATE of err, or "" when err is not a server error
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// scanItem scans itemColumns
func scanItem(row pgx.Row, item *domain.Item) error {
	return row.Scan(
		&item.ID,
		&item.Name,
		&item.AssetKey,
		&item.Type,
		&item.Price,
		&item.DisplayOrder,
		&item.CanBePurchased,
		&item.MinLevel,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

// scanRecord scans recordColumns followed by itemColumns
func scanRecord(row pgx.Row) (*domain.UserItem, error) {
	var rec domain.UserItem
	var item domain.Item
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.ItemID,
		&rec.IsEquipped,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.DeletedAt,
		&item.ID,
		&item.Name,
		&item.AssetKey,
		&item.Type,
		&item.Price,
		&item.DisplayOrder,
		&item.CanBePurchased,
		&item.MinLevel,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Item = &item
	return &rec, nil
}

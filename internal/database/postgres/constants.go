package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is the PostgreSQL error code for foreign key violations
	PgErrorCodeForeignKeyViolation = "23503"
)

// Column lists shared by the repositories
const (
	itemColumns = `i.id, i.name, i.asset_key, i.type, i.price::text, i.display_order,
		i.can_be_purchased, i.min_level, i.created_at, i.updated_at`

	recordColumns = `u.id, u.user_id, u.inventory_item_id, u.is_equipped,
		u.created_at, u.updated_at, u.deleted_at`
)

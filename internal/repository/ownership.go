package repository

import (
	"context"

	"github.com/osse101/wardrobe/internal/domain"
)

// Ownership defines persistence for per-user ownership records.
// Implementations attach the catalog Item to every record they return and
// exclude soft-deleted records unless includeDeleted is set.
// Finders return (nil, nil) when nothing matches.
type Ownership interface {
	Add(ctx context.Context, record *domain.UserItem) (*domain.UserItem, error)
	Update(ctx context.Context, record *domain.UserItem) error
	DeleteByID(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.UserItem, error)
	FindAllForUser(ctx context.Context, userID int64, includeDeleted bool) ([]domain.UserItem, error)
	FindOne(ctx context.Context, userID, itemID int64) (*domain.UserItem, error)
	FindEquipped(ctx context.Context, userID int64) ([]domain.UserItem, error)
}

// TypeUnequipper is an optional Ownership capability that clears every live
// equipped record of one item type for a user in a single statement.
type TypeUnequipper interface {
	UnequipByType(ctx context.Context, userID int64, itemType string) (int64, error)
}

// ExclusiveEquipper is an optional Ownership capability that unequips every
// live record of itemType for the user and equips recordID as one atomic unit.
type ExclusiveEquipper interface {
	EquipExclusive(ctx context.Context, userID, recordID int64, itemType string) error
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

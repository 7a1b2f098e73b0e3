package domain

import "time"

// UserItem is the ownership record tying one user to one item.
// Stores attach Item eagerly so callers can read type and price off a record.
type UserItem struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	ItemID     int64      `json:"inventory_item_id" db:"inventory_item_id"`
	IsEquipped bool       `json:"is_equipped" db:"is_equipped"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	Item       *Item      `json:"-"`
}

// IsLive reports whether the record has not been soft-deleted.
func (u UserItem) IsLive() bool {
	return u.DeletedAt == nil
}

// ItemType returns the serialized type of the attached item, or "" if the
// store did not attach one.
func (u UserItem) ItemType() string {
	if u.Item == nil {
		return ""
	}
	return u.Item.Type
}

package domain

import (
	"strings"
	"time"
)

// Item is a catalog entry a user may own and/or equip.
// Type and Price are stored serialized; the inventory processor decodes them
// with host-supplied codecs.
type Item struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	AssetKey       string    `json:"asset_key" db:"asset_key"`
	Type           string    `json:"type" db:"type"`
	Price          *string   `json:"price,omitempty" db:"price"` // Nullable: nil means free
	DisplayOrder   int       `json:"display_order" db:"display_order"`
	CanBePurchased bool      `json:"can_be_purchased" db:"can_be_purchased"`
	MinLevel       int       `json:"min_level" db:"min_level"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsFree reports whether the item carries no price.
// A blank payload or a literal JSON null both count as free.
func (i Item) IsFree() bool {
	return IsFreePrice(i.Price)
}

// IsFreePrice reports whether a serialized price payload means "free".
func IsFreePrice(raw *string) bool {
	if raw == nil {
		return true
	}
	v := strings.TrimSpace(*raw)
	return v == "" || v == PriceNull
}

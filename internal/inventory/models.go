package inventory

// AvailableItem is a catalog item projected for one (optional) user.
type AvailableItem[T comparable, P any] struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	AssetKey       string `json:"asset_key"`
	Type           T      `json:"type"`
	Price          P      `json:"price"`
	IsFree         bool   `json:"is_free"`
	DisplayOrder   int    `json:"display_order"`
	CanBePurchased bool   `json:"can_be_purchased"`
	MinLevel       int    `json:"min_level"`
	IsOwned        bool   `json:"is_owned"`
	IsEquipped     bool   `json:"is_equipped"`
}

// EquippedItem is an equipped ownership record with its item projected.
type EquippedItem[T comparable, P any] struct {
	AvailableItem[T, P]
	RecordID int64 `json:"record_id"`
}

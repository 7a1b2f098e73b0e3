package domain

// PriceNull is the serialized form some writers use for an absent price.
const PriceNull = "null"

// Event type names for ownership changes
const (
	EventTypeItemGranted     = "inventory.item.granted"
	EventTypeItemEquipped    = "inventory.item.equipped"
	EventTypeItemsUnequipped = "inventory.items.unequipped"
	EventTypeItemDeleted     = "inventory.item.deleted"
)

// Package cosmetic defines the item types and price format the wardrobe
// service runs the inventory processor with.
package cosmetic

import "github.com/osse101/wardrobe/internal/inventory"

// Type is a cosmetic slot
type Type string

// Cosmetic types
const (
	TypeHat    Type = "hat"
	TypeSkin   Type = "skin"
	TypeFrame  Type = "frame"
	TypeEmote  Type = "emote"
	TypeBanner Type = "banner"
)

// Price is what a cosmetic costs in some currency
type Price struct {
	Currency string `json:"currency"`
	Amount   int    `json:"amount"`
}

// Types is the codec accepting every cosmetic Type
var Types = inventory.NewStringTypes(TypeHat, TypeSkin, TypeFrame, TypeEmote, TypeBanner)

// Prices is the JSON price codec
var Prices = inventory.JSONPrice[Price]{}

// Service is the inventory service specialized to cosmetics
type Service = inventory.Service[Type, Price]

// AvailableItem is a catalog item projected for a user
type AvailableItem = inventory.AvailableItem[Type, Price]

// EquippedItem is an equipped cosmetic
type EquippedItem = inventory.EquippedItem[Type, Price]

package inventory

import "time"

// Operation names used in logs and the inventory_operations_total metric
const (
	OpGetAvailable       = "get_available"
	OpGetAvailableByType = "get_available_by_type"
	OpAdd                = "add"
	OpEquip              = "equip"
	OpEquipBatch         = "equip_batch"
	OpUnequipByType      = "unequip_by_type"
	OpDelete             = "delete"
	OpGetEquipped        = "get_equipped"
)

// TracerName scopes spans started by the processor
const TracerName = "github.com/osse101/wardrobe/internal/inventory"

// AttrOutcome is the span attribute carrying the operation outcome
const AttrOutcome = "inventory.outcome"

// Outcome labels
const (
	OutcomeSuccess           = "success"
	OutcomeItemNotFound      = "item_not_found"
	OutcomeOwnershipNotFound = "ownership_not_found"
	OutcomeAlreadyOwned      = "already_owned"
	OutcomeNotOwned          = "not_owned"
	OutcomeUnknownItemType   = "unknown_item_type"
	OutcomeInvalidInput      = "invalid_input"
	OutcomeBatchStopped      = "batch_stopped"
	OutcomeStoreFault        = "store_fault"
	OutcomeCanceled          = "canceled"
	OutcomePanic             = "panic"
)

// Catalog cache defaults
const (
	DefaultCatalogCacheSize = 1024
	DefaultCatalogCacheTTL  = 5 * time.Minute

	catalogAllKey = "all"
)

// Cache lookup labels
const (
	LookupAll  = "all"
	LookupByID = "by_id"
)

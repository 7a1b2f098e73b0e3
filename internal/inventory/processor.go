package inventory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"

	"github.com/osse101/wardrobe/internal/concurrency"
	"github.com/osse101/wardrobe/internal/domain"
	"github.com/osse101/wardrobe/internal/event"
	"github.com/osse101/wardrobe/internal/logger"
	"github.com/osse101/wardrobe/internal/metrics"
	"github.com/osse101/wardrobe/internal/repository"
	"github.com/osse101/wardrobe/internal/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Service defines the inventory operations exposed to hosts.
// Mutations report success as a bool; business rejections and store faults
// both yield false and are distinguished only in logs and metrics.
type Service[T comparable, P any] interface {
	GetAvailableInventoryItems(ctx context.Context, userID *int64) ([]AvailableItem[T, P], error)
	GetAvailableInventoryItemsByType(ctx context.Context, userID *int64, itemType T) ([]AvailableItem[T, P], error)
	AddInventoryItemToUser(ctx context.Context, userID, itemID int64) bool
	EquipInventoryItem(ctx context.Context, userID, itemID int64) bool
	EquipInventoryItems(ctx context.Context, userID int64, itemIDs []int64) bool
	UnequipInventoryItemsByType(ctx context.Context, userID int64, itemType T) bool
	DeleteInventoryItem(ctx context.Context, userID, itemID int64) bool
	GetEquippedItems(ctx context.Context, userID int64) ([]EquippedItem[T, P], error)
	GetEquippedItemsDictionary(ctx context.Context, userID int64) (map[T]EquippedItem[T, P], error)
}

var errBatchStopped = errors.New("batch equip stopped")

// Processor enforces ownership and equip rules over a catalog and an
// ownership store.
type Processor[T comparable, P any] struct {
	catalog   repository.Catalog
	ownership repository.Ownership
	types     TypeCodec[T]
	prices    PriceCodec[P]
	publisher event.Publisher
	locks     *concurrency.LockManager
}

// NewProcessor creates a new Processor. A nil publisher disables events.
func NewProcessor[T comparable, P any](
	catalog repository.Catalog,
	ownership repository.Ownership,
	types TypeCodec[T],
	prices PriceCodec[P],
	publisher event.Publisher,
) *Processor[T, P] {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &Processor[T, P]{
		catalog:   catalog,
		ownership: ownership,
		types:     types,
		prices:    prices,
		publisher: publisher,
		locks:     concurrency.NewLockManager(),
	}
}

// GetAvailableInventoryItems returns the whole catalog ordered by display
// order. With a user, ownership and equip flags reflect that user's live
// records; without one, an item is owned iff it is free.
// Catalog rows whose type is not in the enumeration are left out and logged.
func (p *Processor[T, P]) GetAvailableInventoryItems(ctx context.Context, userID *int64) (items []AvailableItem[T, P], err error) {
	defer p.recoverRead(ctx, OpGetAvailable, &err)

	items, err = p.available(ctx, userID)
	p.record(OpGetAvailable, err)
	return items, err
}

// GetAvailableInventoryItemsByType filters GetAvailableInventoryItems to one type.
func (p *Processor[T, P]) GetAvailableInventoryItemsByType(ctx context.Context, userID *int64, itemType T) (items []AvailableItem[T, P], err error) {
	defer p.recoverRead(ctx, OpGetAvailableByType, &err)

	all, err := p.available(ctx, userID)
	p.record(OpGetAvailableByType, err)
	if err != nil {
		return nil, err
	}

	items = make([]AvailableItem[T, P], 0, len(all))
	for _, item := range all {
		if item.Type == itemType {
			items = append(items, item)
		}
	}
	return items, nil
}

// AddInventoryItemToUser grants an item the user does not yet hold.
func (p *Processor[T, P]) AddInventoryItemToUser(ctx context.Context, userID, itemID int64) bool {
	return p.run(ctx, OpAdd, []any{"user_id", userID, "item_id", itemID}, func(ctx context.Context) error {
		item, err := p.findItem(ctx, itemID)
		if err != nil {
			return err
		}

		existing, err := p.ownership.FindOne(ctx, userID, itemID)
		if err != nil {
			return storeFault("find ownership", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: user %d item %d", domain.ErrAlreadyOwned, userID, itemID)
		}

		if _, err := p.grant(ctx, userID, item); err != nil {
			return err
		}
		return nil
	})
}

// EquipInventoryItem equips an item, granting it first when free, and
// unequips every other record of the same item type.
func (p *Processor[T, P]) EquipInventoryItem(ctx context.Context, userID, itemID int64) bool {
	return p.run(ctx, OpEquip, []any{"user_id", userID, "item_id", itemID}, func(ctx context.Context) error {
		return p.equip(ctx, userID, itemID)
	})
}

// EquipInventoryItems equips items in order and stops at the first failure.
// Equips applied before the failure stay in effect.
func (p *Processor[T, P]) EquipInventoryItems(ctx context.Context, userID int64, itemIDs []int64) bool {
	return p.run(ctx, OpEquipBatch, []any{"user_id", userID, "count", len(itemIDs)}, func(ctx context.Context) error {
		for i, itemID := range itemIDs {
			if !p.EquipInventoryItem(ctx, userID, itemID) {
				return fmt.Errorf("%w: item %d at position %d, %d applied", errBatchStopped, itemID, i, i)
			}
		}
		return nil
	})
}

// UnequipInventoryItemsByType clears every equipped record of one type.
// It succeeds when nothing was equipped.
func (p *Processor[T, P]) UnequipInventoryItemsByType(ctx context.Context, userID int64, itemType T) bool {
	raw := p.types.FormatType(itemType)
	return p.run(ctx, OpUnequipByType, []any{"user_id", userID, "item_type", raw}, func(ctx context.Context) error {
		var count int64
		if bulk, ok := p.ownership.(repository.TypeUnequipper); ok {
			n, err := bulk.UnequipByType(ctx, userID, raw)
			if err != nil {
				return storeFault("unequip by type", err)
			}
			count = n
		} else {
			unlock := p.locks.Lock(concurrency.UserTypeKey(userID, raw))
			defer unlock()

			n, err := p.unequipOthers(ctx, userID, raw, 0)
			if err != nil {
				return err
			}
			count = n
		}

		if count > 0 {
			p.publish(ctx, event.NewItemsUnequippedEvent(userID, raw, count))
		}
		return nil
	})
}

// DeleteInventoryItem removes the user's record for an item.
func (p *Processor[T, P]) DeleteInventoryItem(ctx context.Context, userID, itemID int64) bool {
	return p.run(ctx, OpDelete, []any{"user_id", userID, "item_id", itemID}, func(ctx context.Context) error {
		record, err := p.ownership.FindOne(ctx, userID, itemID)
		if err != nil {
			return storeFault("find ownership", err)
		}
		if record == nil {
			return fmt.Errorf("%w: user %d item %d", domain.ErrOwnershipNotFound, userID, itemID)
		}

		if err := p.ownership.DeleteByID(ctx, record.ID); err != nil {
			return storeFault("delete ownership", err)
		}

		p.publish(ctx, event.NewItemDeletedEvent(userID, itemID))
		return nil
	})
}

// GetEquippedItems returns at most one equipped item per type, ordered by
// display order. When stored data has several equipped records of one type
// the first one returned by the store wins.
func (p *Processor[T, P]) GetEquippedItems(ctx context.Context, userID int64) (items []EquippedItem[T, P], err error) {
	defer p.recoverRead(ctx, OpGetEquipped, &err)

	items, err = p.equipped(ctx, userID)
	p.record(OpGetEquipped, err)
	return items, err
}

// GetEquippedItemsDictionary returns GetEquippedItems keyed by item type.
func (p *Processor[T, P]) GetEquippedItemsDictionary(ctx context.Context, userID int64) (map[T]EquippedItem[T, P], error) {
	items, err := p.GetEquippedItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	byType := make(map[T]EquippedItem[T, P], len(items))
	for _, item := range items {
		byType[item.Type] = item
	}
	return byType, nil
}

func (p *Processor[T, P]) available(ctx context.Context, userID *int64) ([]AvailableItem[T, P], error) {
	catalog, err := p.catalog.GetAll(ctx)
	if err != nil {
		return nil, storeFault("load catalog", err)
	}

	var owned map[int64]domain.UserItem
	if userID != nil {
		records, err := p.ownership.FindAllForUser(ctx, *userID, false)
		if err != nil {
			return nil, storeFault("load ownership", err)
		}
		owned = make(map[int64]domain.UserItem, len(records))
		for _, r := range records {
			if r.IsLive() {
				owned[r.ItemID] = r
			}
		}
	}

	items := make([]AvailableItem[T, P], 0, len(catalog))
	for i := range catalog {
		view, ok := p.project(ctx, &catalog[i])
		if !ok {
			continue
		}
		if userID == nil {
			view.IsOwned = view.IsFree
		} else {
			record, has := owned[view.ID]
			view.IsOwned = view.IsFree || has
			view.IsEquipped = has && record.IsEquipped
		}
		items = append(items, view)
	}

	slices.SortStableFunc(items, func(a, b AvailableItem[T, P]) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.ID, b.ID))
	})
	return items, nil
}

func (p *Processor[T, P]) equip(ctx context.Context, userID, itemID int64) error {
	item, err := p.findItem(ctx, itemID)
	if err != nil {
		return err
	}

	record, err := p.ownership.FindOne(ctx, userID, itemID)
	if err != nil {
		return storeFault("find ownership", err)
	}
	if record == nil {
		if !item.IsFree() {
			return fmt.Errorf("%w: user %d item %d", domain.ErrNotOwned, userID, itemID)
		}
		record, err = p.grant(ctx, userID, item)
		if err != nil {
			return err
		}
	}

	slot := p.slotOf(item.Type)
	if exclusive, ok := p.ownership.(repository.ExclusiveEquipper); ok {
		if err := exclusive.EquipExclusive(ctx, userID, record.ID, slot); err != nil {
			if errors.Is(err, domain.ErrOwnershipNotFound) {
				return err
			}
			return storeFault("equip exclusive", err)
		}
	} else {
		unlock := p.locks.Lock(concurrency.UserTypeKey(userID, slot))
		defer unlock()

		if _, err := p.unequipOthers(ctx, userID, slot, record.ID); err != nil {
			return err
		}
		record.IsEquipped = true
		if err := p.ownership.Update(ctx, record); err != nil {
			return storeFault("equip", err)
		}
	}

	p.publish(ctx, event.NewItemEquippedEvent(userID, itemID, slot))
	return nil
}

// slotOf maps a stored type to the canonical form exclusivity is keyed on.
// Spellings that decode to the same type share a slot; undecodable types
// keep their raw text.
func (p *Processor[T, P]) slotOf(raw string) string {
	t, err := p.types.ParseType(raw)
	if err != nil {
		return raw
	}
	return p.types.FormatType(t)
}

// unequipOthers clears equipped records in slot except keepID.
// Callers hold the (user, slot) lock.
func (p *Processor[T, P]) unequipOthers(ctx context.Context, userID int64, slot string, keepID int64) (int64, error) {
	equipped, err := p.ownership.FindEquipped(ctx, userID)
	if err != nil {
		return 0, storeFault("find equipped", err)
	}

	var count int64
	for i := range equipped {
		r := &equipped[i]
		if r.ID == keepID || !r.IsLive() || !r.IsEquipped || p.slotOf(r.ItemType()) != slot {
			continue
		}
		r.IsEquipped = false
		if err := p.ownership.Update(ctx, r); err != nil {
			return count, storeFault("unequip", err)
		}
		count++
	}
	return count, nil
}

func (p *Processor[T, P]) equipped(ctx context.Context, userID int64) ([]EquippedItem[T, P], error) {
	log := logger.FromContext(ctx)

	records, err := p.ownership.FindEquipped(ctx, userID)
	if err != nil {
		return nil, storeFault("find equipped", err)
	}

	seen := make(map[T]struct{}, len(records))
	items := make([]EquippedItem[T, P], 0, len(records))
	for i := range records {
		r := &records[i]
		if !r.IsLive() || !r.IsEquipped {
			continue
		}
		if r.Item == nil {
			log.Warn("Equipped record has no item attached", "record_id", r.ID, "item_id", r.ItemID)
			continue
		}

		view, ok := p.project(ctx, r.Item)
		if !ok {
			continue
		}
		if _, dup := seen[view.Type]; dup {
			log.Warn("Ignoring extra equipped record for type",
				"user_id", userID, "record_id", r.ID, "item_type", r.Item.Type)
			continue
		}
		seen[view.Type] = struct{}{}

		view.IsOwned = true
		view.IsEquipped = true
		items = append(items, EquippedItem[T, P]{AvailableItem: view, RecordID: r.ID})
	}

	slices.SortStableFunc(items, func(a, b EquippedItem[T, P]) int {
		return cmp.Compare(a.DisplayOrder, b.DisplayOrder)
	})
	return items, nil
}

// project decodes an item. Items whose type is not in the enumeration are
// skipped; undecodable prices fall back to the zero price.
func (p *Processor[T, P]) project(ctx context.Context, item *domain.Item) (AvailableItem[T, P], bool) {
	log := logger.FromContext(ctx)

	itemType, err := p.types.ParseType(item.Type)
	if err != nil {
		log.Warn("Skipping item with unknown type", "item_id", item.ID, "error", err)
		return AvailableItem[T, P]{}, false
	}

	free := item.IsFree()
	var price P
	if !free {
		decoded, err := p.prices.DecodePrice(*item.Price)
		if err != nil {
			log.Debug("Price decode failed, using zero price", "item_id", item.ID, "error", err)
		} else {
			price = decoded
		}
	}

	return AvailableItem[T, P]{
		ID:             item.ID,
		Name:           item.Name,
		AssetKey:       item.AssetKey,
		Type:           itemType,
		Price:          price,
		IsFree:         free,
		DisplayOrder:   item.DisplayOrder,
		CanBePurchased: item.CanBePurchased,
		MinLevel:       item.MinLevel,
	}, true
}

func (p *Processor[T, P]) findItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	item, err := p.catalog.FindByID(ctx, itemID)
	if err != nil {
		return nil, storeFault("find item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
	}
	return item, nil
}

func (p *Processor[T, P]) grant(ctx context.Context, userID int64, item *domain.Item) (*domain.UserItem, error) {
	record, err := p.ownership.Add(ctx, &domain.UserItem{UserID: userID, ItemID: item.ID})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyOwned) {
			return nil, err
		}
		return nil, storeFault("add ownership", err)
	}
	if record.Item == nil {
		record.Item = item
	}

	p.publish(ctx, event.NewItemGrantedEvent(userID, item.ID, item.Type))
	return record, nil
}

func (p *Processor[T, P]) publish(ctx context.Context, evt event.Event) {
	if err := p.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish event", "event_type", evt.Type, "error", err)
	}
}

// run is the boundary of every mutating operation: it converts errors and
// panics into false, logging and counting the outcome.
func (p *Processor[T, P]) run(ctx context.Context, op string, attrs []any, fn func(context.Context) error) (ok bool) {
	log := logger.FromContext(ctx).With(slog.String("operation", op)).With(attrs...)

	ctx, span := tracing.Tracer(TracerName).Start(ctx, "inventory."+op)
	span.SetAttributes(spanAttributes(attrs)...)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Inventory operation panicked", "panic", r, "stack", string(debug.Stack()))
			metrics.InventoryOperations.WithLabelValues(op, OutcomePanic).Inc()
			span.SetAttributes(attribute.String(AttrOutcome, OutcomePanic))
			span.SetStatus(codes.Error, fmt.Sprint(r))
			ok = false
		}
	}()

	err := fn(ctx)
	outcome := Outcome(err)
	metrics.InventoryOperations.WithLabelValues(op, outcome).Inc()
	span.SetAttributes(attribute.String(AttrOutcome, outcome))
	if err != nil && !isBusinessOutcome(outcome) {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}

	switch {
	case err == nil:
		log.Debug("Inventory operation succeeded")
	case isBusinessOutcome(outcome):
		log.Info("Inventory operation rejected", "reason", outcome, "detail", err.Error())
	default:
		log.Error("Inventory operation failed", "reason", outcome, "error", err)
	}
	return err == nil
}

// spanAttributes converts slog-style key/value pairs into span attributes
func spanAttributes(kv []any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		switch v := kv[i+1].(type) {
		case int64:
			out = append(out, attribute.Int64(key, v))
		case int:
			out = append(out, attribute.Int(key, v))
		case string:
			out = append(out, attribute.String(key, v))
		default:
			out = append(out, attribute.String(key, fmt.Sprint(v)))
		}
	}
	return out
}

func (p *Processor[T, P]) record(op string, err error) {
	metrics.InventoryOperations.WithLabelValues(op, Outcome(err)).Inc()
}

func (p *Processor[T, P]) recoverRead(ctx context.Context, op string, err *error) {
	if r := recover(); r != nil {
		logger.FromContext(ctx).Error("Inventory read panicked",
			"operation", op, "panic", r, "stack", string(debug.Stack()))
		metrics.InventoryOperations.WithLabelValues(op, OutcomePanic).Inc()
		*err = fmt.Errorf("%w: %s panicked: %v", domain.ErrStoreUnavailable, op, r)
	}
}

// Outcome classifies an operation error into a metric/log reason.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrItemNotFound):
		return OutcomeItemNotFound
	case errors.Is(err, domain.ErrOwnershipNotFound):
		return OutcomeOwnershipNotFound
	case errors.Is(err, domain.ErrAlreadyOwned):
		return OutcomeAlreadyOwned
	case errors.Is(err, domain.ErrNotOwned):
		return OutcomeNotOwned
	case errors.Is(err, domain.ErrUnknownItemType):
		return OutcomeUnknownItemType
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, errBatchStopped):
		return OutcomeBatchStopped
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeStoreFault
	}
}

func isBusinessOutcome(outcome string) bool {
	switch outcome {
	case OutcomeItemNotFound, OutcomeOwnershipNotFound, OutcomeAlreadyOwned,
		OutcomeNotOwned, OutcomeUnknownItemType, OutcomeInvalidInput, OutcomeBatchStopped:
		return true
	}
	return false
}

func storeFault(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, action, err)
}

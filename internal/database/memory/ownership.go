package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/osse101/wardrobe/internal/domain"
)

// Ownership is the ownership-record view of a Store.
type Ownership struct {
	*Store
}

// Add stores a new ownership record. A live record for the same user and
// item yields ErrAlreadyOwned.
func (o *Ownership) Add(ctx context.Context, record *domain.UserItem) (*domain.UserItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.items[record.ItemID]; !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrItemNotFound, record.ItemID)
	}
	for _, r := range o.records {
		if r.UserID == record.UserID && r.ItemID == record.ItemID && r.IsLive() {
			return nil, fmt.Errorf("%w: user %d item %d", domain.ErrAlreadyOwned, record.UserID, record.ItemID)
		}
	}

	now := o.now()
	o.nextRecID++
	stored := domain.UserItem{
		ID:         o.nextRecID,
		UserID:     record.UserID,
		ItemID:     record.ItemID,
		IsEquipped: record.IsEquipped,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	o.records[stored.ID] = stored
	return o.attach(stored), nil
}

// Update persists the mutable fields of an existing record
func (o *Ownership) Update(ctx context.Context, record *domain.UserItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	stored, ok := o.records[record.ID]
	if !ok {
		return fmt.Errorf("%w: record %d", domain.ErrOwnershipNotFound, record.ID)
	}
	stored.IsEquipped = record.IsEquipped
	stored.DeletedAt = record.DeletedAt
	stored.UpdatedAt = o.now()
	o.records[record.ID] = stored
	return nil
}

// DeleteByID removes a record; deleting a missing record is a no-op
func (o *Ownership) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.records, id)
	return nil
}

// FindByID returns a live record by ID or nil
func (o *Ownership) FindByID(ctx context.Context, id int64) (*domain.UserItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()

	r, ok := o.records[id]
	if !ok || !r.IsLive() {
		return nil, nil
	}
	return o.attach(r), nil
}

// FindAllForUser returns a user's records ordered by ID
func (o *Ownership) FindAllForUser(ctx context.Context, userID int64, includeDeleted bool) ([]domain.UserItem, error) {
	return o.filter(ctx, func(r domain.UserItem) bool {
		return r.UserID == userID && (includeDeleted || r.IsLive())
	})
}

// FindOne returns the user's live record for an item or nil
func (o *Ownership) FindOne(ctx context.Context, userID, itemID int64) (*domain.UserItem, error) {
	found, err := o.filter(ctx, func(r domain.UserItem) bool {
		return r.UserID == userID && r.ItemID == itemID && r.IsLive()
	})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}

// FindEquipped returns the user's live equipped records ordered by ID
func (o *Ownership) FindEquipped(ctx context.Context, userID int64) ([]domain.UserItem, error) {
	return o.filter(ctx, func(r domain.UserItem) bool {
		return r.UserID == userID && r.IsEquipped && r.IsLive()
	})
}

// UnequipByType clears every live equipped record of itemType for the user
func (o *Ownership) UnequipByType(ctx context.Context, userID int64, itemType string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.unequipTypeLocked(userID, itemType, 0), nil
}

// EquipExclusive unequips the user's other records of itemType and equips
// recordID under one lock.
func (o *Ownership) EquipExclusive(ctx context.Context, userID, recordID int64, itemType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	target, ok := o.records[recordID]
	if !ok || !target.IsLive() || target.UserID != userID {
		return fmt.Errorf("%w: record %d", domain.ErrOwnershipNotFound, recordID)
	}

	o.unequipTypeLocked(userID, itemType, recordID)
	target.IsEquipped = true
	target.UpdatedAt = o.now()
	o.records[recordID] = target
	return nil
}

func (o *Ownership) unequipTypeLocked(userID int64, itemType string, keepID int64) int64 {
	var count int64
	now := o.now()
	for id, r := range o.records {
		if id == keepID || r.UserID != userID || !r.IsEquipped || !r.IsLive() {
			continue
		}
		if item, ok := o.items[r.ItemID]; !ok || !sameType(item.Type, itemType) {
			continue
		}
		r.IsEquipped = false
		r.UpdatedAt = now
		o.records[id] = r
		count++
	}
	return count
}

func (o *Ownership) filter(ctx context.Context, keep func(domain.UserItem) bool) ([]domain.UserItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]domain.UserItem, 0)
	for _, r := range o.records {
		if keep(r) {
			out = append(out, *o.attach(r))
		}
	}
	slices.SortFunc(out, func(a, b domain.UserItem) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// attach returns a copy of r with its catalog item attached. Callers hold mu.
func (o *Ownership) attach(r domain.UserItem) *domain.UserItem {
	if item, ok := o.items[r.ItemID]; ok {
		r.Item = &item
	}
	return &r
}

// sameType compares stored item types ignoring case and surrounding space
func sameType(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

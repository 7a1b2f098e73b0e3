// Package memory provides an in-process implementation of the catalog and
// ownership stores, used for local runs and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/osse101/wardrobe/internal/domain"
)

// Store holds catalog items and ownership records in memory.
type Store struct {
	mu         sync.RWMutex
	items      map[int64]domain.Item
	records    map[int64]domain.UserItem
	nextItemID int64
	nextRecID  int64
	now        func() time.Time
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		items:   make(map[int64]domain.Item),
		records: make(map[int64]domain.UserItem),
		now:     time.Now,
	}
}

// UpsertItem inserts or replaces a catalog item. A zero ID is assigned the
// next free one. The stored item is returned.
func (s *Store) UpsertItem(item domain.Item) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if item.ID == 0 {
		s.nextItemID++
		item.ID = s.nextItemID
	} else if item.ID > s.nextItemID {
		s.nextItemID = item.ID
	}
	if existing, ok := s.items[item.ID]; ok {
		item.CreatedAt = existing.CreatedAt
	} else {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	s.items[item.ID] = item
	return item
}

// Catalog returns the catalog view of the store
func (s *Store) Catalog() *Catalog {
	return &Catalog{Store: s}
}

// Ownership returns the ownership view of the store
func (s *Store) Ownership() *Ownership {
	return &Ownership{Store: s}
}

// Ping fails only when ctx is done
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Catalog is the item-definition view of a Store.
type Catalog struct {
	*Store
}

// GetAll returns every catalog item ordered by ID
func (c *Catalog) GetAll(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]domain.Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b domain.Item) int { return cmp.Compare(a.ID, b.ID) })
	return items, nil
}

// FindByID returns a catalog item or nil
func (c *Catalog) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// Upsert stores item, assigning an ID when it has none
func (c *Catalog) Upsert(ctx context.Context, item *domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	*item = c.UpsertItem(*item)
	return nil
}

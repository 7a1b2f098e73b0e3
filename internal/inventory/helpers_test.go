package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/osse101/wardrobe/internal/database/memory"
	"github.com/osse101/wardrobe/internal/domain"
	"github.com/osse101/wardrobe/internal/event"
	"github.com/osse101/wardrobe/internal/repository"
)

type slot string

const (
	slotHat  slot = "hat"
	slotSkin slot = "skin"
)

var testTypes = NewStringTypes(slotHat, slotSkin)

type testProcessor = Processor[slot, int]

// plainOwnership hides the optional store capabilities so the processor
// takes its lock-based path.
type plainOwnership struct {
	repository.Ownership
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) Types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	proc   *testProcessor
	store  *memory.Store
	events *recordingPublisher
}

// storeModes runs a test against the capable memory store and against the
// same store with its atomic capabilities hidden.
var storeModes = []struct {
	name  string
	plain bool
}{
	{"atomic store", false},
	{"plain store", true},
}

func newFixture(t *testing.T, plain bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	var ownership repository.Ownership = store.Ownership()
	if plain {
		ownership = plainOwnership{ownership}
	}
	events := &recordingPublisher{}
	return &fixture{
		proc:   NewProcessor[slot, int](store.Catalog(), ownership, testTypes, JSONPrice[int]{}, events),
		store:  store,
		events: events,
	}
}

func (f *fixture) item(id int64, t slot, price *string, order int) domain.Item {
	return f.store.UpsertItem(domain.Item{
		ID:           id,
		Name:         string(t),
		Type:         string(t),
		Price:        price,
		DisplayOrder: order,
	})
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func (f *fixture) equippedIDs(t *testing.T, userID int64) []int64 {
	t.Helper()
	records, err := f.store.Ownership().FindEquipped(context.Background(), userID)
	if err != nil {
		t.Fatalf("find equipped: %v", err)
	}
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ItemID)
	}
	return ids
}

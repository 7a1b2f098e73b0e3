package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/wardrobe/internal/domain"
	"github.com/osse101/wardrobe/internal/event"
	"github.com/osse101/wardrobe/internal/metrics"
)

// MockCatalog is a testify mock of repository.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetAll(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockCatalog) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

// MockOwnership is a testify mock of repository.Ownership
type MockOwnership struct {
	mock.Mock
}

func (m *MockOwnership) Add(ctx context.Context, record *domain.UserItem) (*domain.UserItem, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserItem), args.Error(1)
}

func (m *MockOwnership) Update(ctx context.Context, record *domain.UserItem) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockOwnership) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOwnership) FindByID(ctx context.Context, id int64) (*domain.UserItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserItem), args.Error(1)
}

func (m *MockOwnership) FindAllForUser(ctx context.Context, userID int64, includeDeleted bool) ([]domain.UserItem, error) {
	args := m.Called(ctx, userID, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserItem), args.Error(1)
}

func (m *MockOwnership) FindOne(ctx context.Context, userID, itemID int64) (*domain.UserItem, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserItem), args.Error(1)
}

func (m *MockOwnership) FindEquipped(ctx context.Context, userID int64) ([]domain.UserItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserItem), args.Error(1)
}

var errDBDown = errors.New("connection refused")

func newMockProcessor(publisher event.Publisher) (*testProcessor, *MockCatalog, *MockOwnership) {
	catalog := &MockCatalog{}
	ownership := &MockOwnership{}
	return NewProcessor[slot, int](catalog, ownership, testTypes, JSONPrice[int]{}, publisher), catalog, ownership
}

func TestMutations_StoreFaultsReturnFalse(t *testing.T) {
	ctx := context.Background()
	hat := &domain.Item{ID: 1, Type: "hat"}
	owned := &domain.UserItem{ID: 10, UserID: user, ItemID: 1, Item: hat}

	tests := []struct {
		name  string
		op    string
		setup func(c *MockCatalog, o *MockOwnership)
		call  func(p *testProcessor) bool
	}{
		{
			name: "add: catalog down",
			op:   OpAdd,
			setup: func(c *MockCatalog, o *MockOwnership) {
				c.On("FindByID", mock.Anything, int64(1)).Return(nil, errDBDown)
			},
			call: func(p *testProcessor) bool { return p.AddInventoryItemToUser(ctx, user, 1) },
		},
		{
			name: "add: insert fails",
			op:   OpAdd,
			setup: func(c *MockCatalog, o *MockOwnership) {
				c.On("FindByID", mock.Anything, int64(1)).Return(hat, nil)
				o.On("FindOne", mock.Anything, user, int64(1)).Return(nil, nil)
				o.On("Add", mock.Anything, mock.Anything).Return(nil, errDBDown)
			},
			call: func(p *testProcessor) bool { return p.AddInventoryItemToUser(ctx, user, 1) },
		},
		{
			name: "equip: find equipped fails",
			op:   OpEquip,
			setup: func(c *MockCatalog, o *MockOwnership) {
				c.On("FindByID", mock.Anything, int64(1)).Return(hat, nil)
				o.On("FindOne", mock.Anything, user, int64(1)).Return(owned, nil)
				o.On("FindEquipped", mock.Anything, user).Return(nil, errDBDown)
			},
			call: func(p *testProcessor) bool { return p.EquipInventoryItem(ctx, user, 1) },
		},
		{
			name: "equip: final update fails",
			op:   OpEquip,
			setup: func(c *MockCatalog, o *MockOwnership) {
				c.On("FindByID", mock.Anything, int64(1)).Return(hat, nil)
				o.On("FindOne", mock.Anything, user, int64(1)).Return(owned, nil)
				o.On("FindEquipped", mock.Anything, user).Return([]domain.UserItem{}, nil)
				o.On("Update", mock.Anything, mock.Anything).Return(errDBDown)
			},
			call: func(p *testProcessor) bool { return p.EquipInventoryItem(ctx, user, 1) },
		},
		{
			name: "unequip: update fails",
			op:   OpUnequipByType,
			setup: func(c *MockCatalog, o *MockOwnership) {
				o.On("FindEquipped", mock.Anything, user).Return([]domain.UserItem{{ID: 10, UserID: user, ItemID: 1, IsEquipped: true, Item: hat}}, nil)
				o.On("Update", mock.Anything, mock.Anything).Return(errDBDown)
			},
			call: func(p *testProcessor) bool { return p.UnequipInventoryItemsByType(ctx, user, slotHat) },
		},
		{
			name: "delete: delete fails",
			op:   OpDelete,
			setup: func(c *MockCatalog, o *MockOwnership) {
				o.On("FindOne", mock.Anything, user, int64(1)).Return(owned, nil)
				o.On("DeleteByID", mock.Anything, int64(10)).Return(errDBDown)
			},
			call: func(p *testProcessor) bool { return p.DeleteInventoryItem(ctx, user, 1) },
		},
		{
			name: "delete: lookup panics",
			op:   OpDelete,
			setup: func(c *MockCatalog, o *MockOwnership) {
				o.On("FindOne", mock.Anything, user, int64(1)).Run(func(mock.Arguments) { panic("driver bug") })
			},
			call: func(p *testProcessor) bool { return p.DeleteInventoryItem(ctx, user, 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, c, o := newMockProcessor(nil)
			tt.setup(c, o)

			assert.NotPanics(t, func() {
				assert.False(t, tt.call(p))
			})
			c.AssertExpectations(t)
			o.AssertExpectations(t)
		})
	}
}

func TestMutations_FaultOutcomeIsCounted(t *testing.T) {
	ctx := context.Background()
	p, c, _ := newMockProcessor(nil)
	c.On("FindByID", mock.Anything, int64(5)).Return(nil, errDBDown)

	counter := metrics.InventoryOperations.WithLabelValues(OpEquip, OutcomeStoreFault)
	before := testutil.ToFloat64(counter)

	assert.False(t, p.EquipInventoryItem(ctx, user, 5))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestReads_StoreFaultsAreReturned(t *testing.T) {
	ctx := context.Background()

	t.Run("catalog", func(t *testing.T) {
		p, c, _ := newMockProcessor(nil)
		c.On("GetAll", mock.Anything).Return(nil, errDBDown)

		items, err := p.GetAvailableInventoryItems(ctx, nil)
		assert.Nil(t, items)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.ErrorIs(t, err, errDBDown)
	})

	t.Run("ownership", func(t *testing.T) {
		p, c, o := newMockProcessor(nil)
		c.On("GetAll", mock.Anything).Return([]domain.Item{{ID: 1, Type: "hat"}}, nil)
		o.On("FindAllForUser", mock.Anything, user, false).Return(nil, errDBDown)

		_, err := p.GetAvailableInventoryItemsByType(ctx, int64Ptr(user), slotHat)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("equipped panics", func(t *testing.T) {
		p, _, o := newMockProcessor(nil)
		o.On("FindEquipped", mock.Anything, user).Run(func(mock.Arguments) { panic("boom") })

		var err error
		assert.NotPanics(t, func() {
			_, err = p.GetEquippedItemsDictionary(ctx, user)
		})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}

func TestPublishFailureDoesNotChangeResult(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{err: errors.New("bus down")}
	p, c, o := newMockProcessor(publisher)

	hat := &domain.Item{ID: 1, Type: "hat"}
	c.On("FindByID", mock.Anything, int64(1)).Return(hat, nil)
	o.On("FindOne", mock.Anything, user, int64(1)).Return(nil, nil)
	o.On("Add", mock.Anything, mock.MatchedBy(func(r *domain.UserItem) bool {
		return r.UserID == user && r.ItemID == 1 && !r.IsEquipped
	})).Return(&domain.UserItem{ID: 10, UserID: user, ItemID: 1}, nil)

	assert.True(t, p.AddInventoryItemToUser(ctx, user, 1))
	assert.Equal(t, []event.Type{event.ItemGranted}, publisher.Types())
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeSuccess},
		{domain.ErrItemNotFound, OutcomeItemNotFound},
		{storeFault("add", domain.ErrAlreadyOwned), OutcomeAlreadyOwned},
		{domain.ErrNotOwned, OutcomeNotOwned},
		{domain.ErrOwnershipNotFound, OutcomeOwnershipNotFound},
		{errBatchStopped, OutcomeBatchStopped},
		{storeFault("find", context.DeadlineExceeded), OutcomeCanceled},
		{storeFault("find", errDBDown), OutcomeStoreFault},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

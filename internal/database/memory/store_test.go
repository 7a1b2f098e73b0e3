package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/wardrobe/internal/domain"
	"github.com/osse101/wardrobe/internal/repository"
)

var (
	_ repository.Catalog           = (*Catalog)(nil)
	_ repository.Ownership         = (*Ownership)(nil)
	_ repository.TypeUnequipper    = (*Ownership)(nil)
	_ repository.ExclusiveEquipper = (*Ownership)(nil)
	_ repository.Pinger            = (*Ownership)(nil)
)

func seed(t *testing.T) (*Store, domain.Item, domain.Item, domain.Item) {
	t.Helper()
	s := NewStore()
	hat1 := s.UpsertItem(domain.Item{Name: "Cap", Type: "hat"})
	hat2 := s.UpsertItem(domain.Item{Name: "Crown", Type: "hat"})
	skin := s.UpsertItem(domain.Item{Name: "Gold", Type: "skin"})
	return s, hat1, hat2, skin
}

func TestCatalog(t *testing.T) {
	s, hat1, _, skin := seed(t)
	ctx := context.Background()
	c := s.Catalog()

	all, err := c.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, hat1.ID, all[0].ID)

	got, err := c.FindByID(ctx, skin.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Gold", got.Name)

	missing, err := c.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpsertItem_KeepsExplicitIDs(t *testing.T) {
	s := NewStore()
	a := s.UpsertItem(domain.Item{ID: 10, Type: "hat"})
	b := s.UpsertItem(domain.Item{Type: "hat"})
	assert.Equal(t, int64(10), a.ID)
	assert.Equal(t, int64(11), b.ID)
}

func TestOwnership_AddRejectsDuplicateLiveRecord(t *testing.T) {
	s, hat1, _, _ := seed(t)
	ctx := context.Background()
	o := s.Ownership()

	rec, err := o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat1.ID})
	require.NoError(t, err)
	require.NotNil(t, rec.Item)
	assert.Equal(t, "hat", rec.Item.Type)
	assert.False(t, rec.IsEquipped)

	_, err = o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat1.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyOwned)

	_, err = o.Add(ctx, &domain.UserItem{UserID: 2, ItemID: hat1.ID})
	assert.NoError(t, err, "other users may own the same item")
}

func TestOwnership_SoftDeletedRecordsAreHidden(t *testing.T) {
	s, hat1, _, _ := seed(t)
	ctx := context.Background()
	o := s.Ownership()

	rec, err := o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat1.ID})
	require.NoError(t, err)
	deletedAt := rec.CreatedAt
	rec.DeletedAt = &deletedAt
	require.NoError(t, o.Update(ctx, rec))

	found, err := o.FindOne(ctx, 1, hat1.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	byID, err := o.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, byID)

	live, err := o.FindAllForUser(ctx, 1, false)
	require.NoError(t, err)
	assert.Empty(t, live)

	all, err := o.FindAllForUser(ctx, 1, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat1.ID})
	assert.NoError(t, err, "a soft-deleted record does not block a new one")
}

func TestOwnership_EquipExclusive(t *testing.T) {
	s, hat1, hat2, skin := seed(t)
	ctx := context.Background()
	o := s.Ownership()

	r1, _ := o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat1.ID, IsEquipped: true})
	r2, _ := o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat2.ID})
	r3, _ := o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: skin.ID, IsEquipped: true})

	require.NoError(t, o.EquipExclusive(ctx, 1, r2.ID, "hat"))

	equipped, err := o.FindEquipped(ctx, 1)
	require.NoError(t, err)
	ids := []int64{}
	for _, r := range equipped {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []int64{r2.ID, r3.ID}, ids)
	assert.NotContains(t, ids, r1.ID)

	err = o.EquipExclusive(ctx, 2, r2.ID, "hat")
	assert.ErrorIs(t, err, domain.ErrOwnershipNotFound, "record belongs to another user")
}

func TestOwnership_UnequipByType(t *testing.T) {
	s, hat1, hat2, skin := seed(t)
	ctx := context.Background()
	o := s.Ownership()

	_, _ = o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat1.ID, IsEquipped: true})
	_, _ = o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat2.ID, IsEquipped: true})
	_, _ = o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: skin.ID, IsEquipped: true})

	n, err := o.UnequipByType(ctx, 1, "hat")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = o.UnequipByType(ctx, 1, "hat")
	require.NoError(t, err)
	assert.Zero(t, n)

	equipped, err := o.FindEquipped(ctx, 1)
	require.NoError(t, err)
	require.Len(t, equipped, 1)
	assert.Equal(t, skin.ID, equipped[0].ItemID)
}

func TestOwnership_TypeMatchIgnoresCase(t *testing.T) {
	s, hat1, _, skin := seed(t)
	upper := s.UpsertItem(domain.Item{Name: "Beret", Type: "HAT"})
	ctx := context.Background()
	o := s.Ownership()

	r1, _ := o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat1.ID, IsEquipped: true})
	r2, _ := o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: upper.ID})
	_, _ = o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: skin.ID, IsEquipped: true})

	require.NoError(t, o.EquipExclusive(ctx, 1, r2.ID, "hat"))
	found, err := o.FindByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.False(t, found.IsEquipped, "HAT and hat are one slot")

	n, err := o.UnequipByType(ctx, 1, " Hat ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	equipped, err := o.FindEquipped(ctx, 1)
	require.NoError(t, err)
	require.Len(t, equipped, 1)
	assert.Equal(t, skin.ID, equipped[0].ItemID)
}

func TestOwnership_DeleteByID(t *testing.T) {
	s, hat1, _, _ := seed(t)
	ctx := context.Background()
	o := s.Ownership()

	rec, _ := o.Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat1.ID})
	require.NoError(t, o.DeleteByID(ctx, rec.ID))

	all, err := o.FindAllForUser(ctx, 1, true)
	require.NoError(t, err)
	assert.Empty(t, all, "delete is a hard removal")

	assert.NoError(t, o.DeleteByID(ctx, rec.ID))
}

func TestOwnership_CanceledContext(t *testing.T) {
	s, hat1, _, _ := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Ownership().Add(ctx, &domain.UserItem{UserID: 1, ItemID: hat1.ID})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}

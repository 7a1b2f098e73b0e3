package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/wardrobe/internal/domain"
	"github.com/osse101/wardrobe/internal/event"
)

const user int64 = 7

func TestScenario_FreeAndPricedHats(t *testing.T) {
	for _, mode := range storeModes {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, mode.plain)
			f.item(1, slotHat, nil, 1)
			f.item(2, slotHat, strPtr("100"), 2)

			items, err := f.proc.GetAvailableInventoryItems(ctx, int64Ptr(user))
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.True(t, items[0].IsOwned)
			assert.False(t, items[0].IsEquipped)
			assert.False(t, items[1].IsOwned)
			assert.False(t, items[1].IsEquipped)
			assert.Equal(t, 100, items[1].Price)

			assert.True(t, f.proc.EquipInventoryItem(ctx, user, 1))
			items, err = f.proc.GetAvailableInventoryItems(ctx, int64Ptr(user))
			require.NoError(t, err)
			assert.True(t, items[0].IsEquipped)

			assert.False(t, f.proc.EquipInventoryItem(ctx, user, 2), "priced item not owned")

			assert.True(t, f.proc.AddInventoryItemToUser(ctx, user, 2))
			assert.True(t, f.proc.EquipInventoryItem(ctx, user, 2))

			items, err = f.proc.GetAvailableInventoryItems(ctx, int64Ptr(user))
			require.NoError(t, err)
			assert.False(t, items[0].IsEquipped)
			assert.True(t, items[1].IsEquipped)
			assert.Equal(t, []int64{2}, f.equippedIDs(t, user))
		})
	}
}

func TestGetAvailableInventoryItems_NoUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.item(1, slotHat, nil, 3)
	f.item(2, slotSkin, strPtr(`250`), 1)
	f.item(3, slotSkin, strPtr(""), 2)
	f.item(4, slotHat, strPtr("null"), 2)

	// another user's records must not leak into the anonymous view
	require.True(t, f.proc.AddInventoryItemToUser(ctx, 99, 2))

	items, err := f.proc.GetAvailableInventoryItems(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 4)

	for _, item := range items {
		assert.Equal(t, item.IsFree, item.IsOwned, "item %d", item.ID)
		assert.False(t, item.IsEquipped)
	}

	ids := []int64{items[0].ID, items[1].ID, items[2].ID, items[3].ID}
	assert.Equal(t, []int64{2, 3, 4, 1}, ids, "display order, ties by id")
}

func TestGetAvailableInventoryItems_EmptyCatalog(t *testing.T) {
	f := newFixture(t, false)

	items, err := f.proc.GetAvailableInventoryItems(context.Background(), int64Ptr(user))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGetAvailableInventoryItems_UserWithoutRecords(t *testing.T) {
	f := newFixture(t, false)
	f.item(1, slotHat, strPtr("5"), 1)
	f.item(2, slotSkin, strPtr("6"), 2)

	items, err := f.proc.GetAvailableInventoryItems(context.Background(), int64Ptr(user))
	require.NoError(t, err)
	for _, item := range items {
		assert.False(t, item.IsOwned)
	}
}

func TestGetAvailableInventoryItems_MalformedPriceAndUnknownType(t *testing.T) {
	f := newFixture(t, false)
	f.item(1, slotHat, strPtr("{not json"), 1)
	f.store.UpsertItem(domain.Item{ID: 2, Type: "cape", DisplayOrder: 2})
	f.item(3, "SKIN", nil, 3)

	items, err := f.proc.GetAvailableInventoryItems(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 2, "unknown types are skipped")

	assert.Equal(t, int64(1), items[0].ID)
	assert.Zero(t, items[0].Price)
	assert.False(t, items[0].IsFree, "a malformed price still marks the item priced")

	assert.Equal(t, slotSkin, items[1].Type, "type parsing ignores case")
}

func TestGetAvailableInventoryItemsByType_EqualsFilteredList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.item(1, slotHat, nil, 4)
	f.item(2, slotSkin, strPtr("10"), 3)
	f.item(3, slotHat, strPtr("20"), 2)
	f.item(4, slotSkin, nil, 1)
	require.True(t, f.proc.AddInventoryItemToUser(ctx, user, 3))
	require.True(t, f.proc.EquipInventoryItem(ctx, user, 3))

	for _, uid := range []*int64{nil, int64Ptr(user)} {
		all, err := f.proc.GetAvailableInventoryItems(ctx, uid)
		require.NoError(t, err)

		for _, typ := range []slot{slotHat, slotSkin} {
			var want []AvailableItem[slot, int]
			for _, item := range all {
				if item.Type == typ {
					want = append(want, item)
				}
			}

			got, err := f.proc.GetAvailableInventoryItemsByType(ctx, uid, typ)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestAddInventoryItemToUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.item(1, slotHat, strPtr("10"), 1)

	assert.True(t, f.proc.AddInventoryItemToUser(ctx, user, 1))
	assert.False(t, f.proc.AddInventoryItemToUser(ctx, user, 1), "second grant fails")
	assert.False(t, f.proc.AddInventoryItemToUser(ctx, user, 404), "unknown item")

	rec, err := f.store.Ownership().FindOne(ctx, user, 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.IsEquipped)

	assert.Equal(t, []event.Type{event.ItemGranted}, f.events.Types())
}

func TestEquipInventoryItem_PricedNeverOwned(t *testing.T) {
	for _, mode := range storeModes {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, mode.plain)
			f.item(1, slotHat, strPtr("10"), 1)

			assert.False(t, f.proc.EquipInventoryItem(ctx, user, 1))

			records, err := f.store.Ownership().FindAllForUser(ctx, user, true)
			require.NoError(t, err)
			assert.Empty(t, records)
			assert.Empty(t, f.events.Types())
		})
	}
}

func TestEquipInventoryItem_FreeAutoGrant(t *testing.T) {
	for _, mode := range storeModes {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, mode.plain)
			f.item(1, slotHat, nil, 1)

			assert.True(t, f.proc.EquipInventoryItem(ctx, user, 1))
			assert.True(t, f.proc.EquipInventoryItem(ctx, user, 1), "re-equip is fine")

			records, err := f.store.Ownership().FindAllForUser(ctx, user, true)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.True(t, records[0].IsEquipped)

			assert.Equal(t, []event.Type{event.ItemGranted, event.ItemEquipped, event.ItemEquipped}, f.events.Types())
		})
	}
}

func TestEquipInventoryItem_UnknownItem(t *testing.T) {
	f := newFixture(t, false)
	assert.False(t, f.proc.EquipInventoryItem(context.Background(), user, 404))
}

func TestEquipInventoryItem_ExclusivityPerType(t *testing.T) {
	for _, mode := range storeModes {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, mode.plain)
			f.item(1, slotHat, nil, 1)
			f.item(2, slotHat, nil, 2)
			f.item(3, slotSkin, nil, 3)

			require.True(t, f.proc.EquipInventoryItem(ctx, user, 1))
			require.True(t, f.proc.EquipInventoryItem(ctx, user, 3))
			require.True(t, f.proc.EquipInventoryItem(ctx, user, 2))

			assert.ElementsMatch(t, []int64{2, 3}, f.equippedIDs(t, user))
		})
	}
}

func TestEquipInventoryItem_TypeSpellingsShareASlot(t *testing.T) {
	for _, mode := range storeModes {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, mode.plain)
			f.item(1, slotHat, nil, 1)
			f.item(2, "HAT", nil, 2)
			f.item(3, " Hat ", nil, 3)

			require.True(t, f.proc.EquipInventoryItem(ctx, user, 1))
			require.True(t, f.proc.EquipInventoryItem(ctx, user, 2))
			assert.Equal(t, []int64{2}, f.equippedIDs(t, user))

			require.True(t, f.proc.EquipInventoryItem(ctx, user, 3))
			assert.Equal(t, []int64{3}, f.equippedIDs(t, user))

			dict, err := f.proc.GetEquippedItemsDictionary(ctx, user)
			require.NoError(t, err)
			require.Len(t, dict, 1)
			assert.Equal(t, int64(3), dict[slotHat].ID)

			require.True(t, f.proc.UnequipInventoryItemsByType(ctx, user, slotHat))
			assert.Empty(t, f.equippedIDs(t, user))
		})
	}
}

func TestUnequipInventoryItemsByType_MatchesAnySpelling(t *testing.T) {
	for _, mode := range storeModes {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, mode.plain)
			f.item(1, slotHat, nil, 1)
			f.item(2, "HAT", nil, 2)
			f.item(3, slotSkin, nil, 3)

			o := f.store.Ownership()
			for _, id := range []int64{1, 2, 3} {
				_, err := o.Add(ctx, &domain.UserItem{UserID: user, ItemID: id, IsEquipped: true})
				require.NoError(t, err)
			}

			require.True(t, f.proc.UnequipInventoryItemsByType(ctx, user, slotHat))
			assert.Equal(t, []int64{3}, f.equippedIDs(t, user))
		})
	}
}

func TestEquipInventoryItem_ClearsCorruptedDuplicates(t *testing.T) {
	for _, mode := range storeModes {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, mode.plain)
			f.item(1, slotHat, nil, 1)
			f.item(2, slotHat, nil, 2)
			f.item(3, slotHat, nil, 3)

			o := f.store.Ownership()
			_, err := o.Add(ctx, &domain.UserItem{UserID: user, ItemID: 1, IsEquipped: true})
			require.NoError(t, err)
			_, err = o.Add(ctx, &domain.UserItem{UserID: user, ItemID: 2, IsEquipped: true})
			require.NoError(t, err)

			require.True(t, f.proc.EquipInventoryItem(ctx, user, 3))
			assert.Equal(t, []int64{3}, f.equippedIDs(t, user))
		})
	}
}

func TestEquipInventoryItem_ConcurrentSameType(t *testing.T) {
	for _, mode := range storeModes {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, mode.plain)
			const n = 8
			for i := int64(1); i <= n; i++ {
				f.item(i, slotHat, nil, int(i))
				require.True(t, f.proc.AddInventoryItemToUser(ctx, user, i))
			}

			done := make(chan bool, n)
			for i := int64(1); i <= n; i++ {
				go func(id int64) { done <- f.proc.EquipInventoryItem(ctx, user, id) }(i)
			}
			for i := 0; i < n; i++ {
				assert.True(t, <-done)
			}

			assert.Len(t, f.equippedIDs(t, user), 1)
		})
	}
}

func TestUnequipInventoryItemsByType(t *testing.T) {
	for _, mode := range storeModes {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, mode.plain)
			f.item(1, slotHat, nil, 1)
			f.item(2, slotSkin, nil, 2)
			require.True(t, f.proc.EquipInventoryItem(ctx, user, 1))
			require.True(t, f.proc.EquipInventoryItem(ctx, user, 2))

			assert.True(t, f.proc.UnequipInventoryItemsByType(ctx, user, slotHat))
			assert.Equal(t, []int64{2}, f.equippedIDs(t, user))

			assert.True(t, f.proc.UnequipInventoryItemsByType(ctx, user, slotHat), "idempotent")
			assert.Equal(t, []int64{2}, f.equippedIDs(t, user))

			unequips := 0
			for _, typ := range f.events.Types() {
				if typ == event.ItemsUnequipped {
					unequips++
				}
			}
			assert.Equal(t, 1, unequips, "no event when nothing changed")
		})
	}
}

func TestEquipInventoryItems(t *testing.T) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		f := newFixture(t, false)
		assert.True(t, f.proc.EquipInventoryItems(ctx, user, nil))
	})

	t.Run("fold keeps last of a type", func(t *testing.T) {
		f := newFixture(t, false)
		f.item(1, slotHat, nil, 1)
		f.item(2, slotHat, nil, 2)
		f.item(3, slotSkin, nil, 3)

		assert.True(t, f.proc.EquipInventoryItems(ctx, user, []int64{1, 3, 2}))
		assert.ElementsMatch(t, []int64{2, 3}, f.equippedIDs(t, user))
	})

	t.Run("stops at first failure and keeps earlier equips", func(t *testing.T) {
		f := newFixture(t, false)
		f.item(1, slotHat, nil, 1)
		f.item(2, slotHat, strPtr("100"), 2)
		f.item(3, slotSkin, nil, 3)
		require.True(t, f.proc.AddInventoryItemToUser(ctx, user, 2))

		assert.False(t, f.proc.EquipInventoryItems(ctx, user, []int64{2, 99, 3}))
		assert.Equal(t, []int64{2}, f.equippedIDs(t, user), "item 3 never attempted")
	})
}

func TestDeleteInventoryItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.item(1, slotHat, strPtr("10"), 1)

	assert.False(t, f.proc.DeleteInventoryItem(ctx, user, 1), "nothing to delete")

	require.True(t, f.proc.AddInventoryItemToUser(ctx, user, 1))
	require.True(t, f.proc.EquipInventoryItem(ctx, user, 1))
	assert.True(t, f.proc.DeleteInventoryItem(ctx, user, 1))

	equipped, err := f.proc.GetEquippedItems(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, equipped)

	records, err := f.store.Ownership().FindAllForUser(ctx, user, true)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.True(t, f.proc.AddInventoryItemToUser(ctx, user, 1), "can be granted again")
}

func TestGetEquippedItems_DedupFirstWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.item(1, slotHat, strPtr("5"), 9)
	f.item(2, slotHat, nil, 1)
	f.item(3, slotSkin, nil, 5)

	o := f.store.Ownership()
	for _, id := range []int64{1, 2, 3} {
		_, err := o.Add(ctx, &domain.UserItem{UserID: user, ItemID: id, IsEquipped: true})
		require.NoError(t, err)
	}

	items, err := f.proc.GetEquippedItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(3), items[0].ID, "ordered by display order")
	assert.Equal(t, int64(1), items[1].ID, "first record of a type wins")
	assert.Equal(t, 5, items[1].Price)
	for _, item := range items {
		assert.True(t, item.IsOwned)
		assert.True(t, item.IsEquipped)
		assert.NotZero(t, item.RecordID)
	}

	dict, err := f.proc.GetEquippedItemsDictionary(ctx, user)
	require.NoError(t, err)
	assert.Len(t, dict, 2)
	assert.Equal(t, int64(1), dict[slotHat].ID)
	assert.Equal(t, int64(3), dict[slotSkin].ID)
}

func TestGetEquippedItemsDictionary_Empty(t *testing.T) {
	f := newFixture(t, false)
	dict, err := f.proc.GetEquippedItemsDictionary(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, dict)
}

func TestEquipPostcondition_ExactlyOnePerType(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.item(1, slotHat, nil, 1)
	f.item(2, slotHat, strPtr("1"), 2)
	f.item(3, slotHat, nil, 3)
	require.True(t, f.proc.AddInventoryItemToUser(ctx, user, 2))

	for _, id := range []int64{1, 2, 3, 2, 1} {
		require.True(t, f.proc.EquipInventoryItem(ctx, user, id))

		dict, err := f.proc.GetEquippedItemsDictionary(ctx, user)
		require.NoError(t, err)
		require.Contains(t, dict, slotHat)
		assert.Equal(t, id, dict[slotHat].ID)
		assert.Equal(t, []int64{id}, f.equippedIDs(t, user))
	}
}

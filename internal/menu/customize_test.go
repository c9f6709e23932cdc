package menu

import (
	"testing"

	"acai-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureCatalog() Catalog {
	items := []domain.ToppingItem{
		{ID: 1, Name: "Banana", Price: 2, Free: true, Available: true},
		{ID: 2, Name: "Morango", Price: 3, Free: true, Available: true},
		{ID: 3, Name: "Kiwi", Price: 3.5, Free: true, Available: true},
		{ID: 4, Name: "Nutella", Price: 6, Free: false, Available: true},
		{ID: 5, Name: "Granola", Price: 1.5, Free: true, Available: true},
		{ID: 6, Name: "Paçoca", Price: 2, Free: true, Available: false},
	}
	lists := []domain.ToppingList{
		{ID: 10, Name: "Frutas", ItemIDs: []int64{1, 2, 3}, MaxFree: 2},
		{ID: 20, Name: "Cremes", ItemIDs: []int64{4}, MaxFree: 0},
		{ID: 30, Name: "Crocantes", ItemIDs: []int64{5, 6}, MaxFree: 1},
	}
	return NewCatalog(lists, items)
}

func acai() domain.Product {
	return domain.Product{ID: 100, Name: "Açaí 500ml", Price: 20, ListIDs: []int64{10, 20, 30}, Available: true}
}

func TestCustomizeFreeQuota(t *testing.T) {
	line, err := fixtureCatalog().Customize(acai(), []Selection{
		{ListID: 10, ItemID: 3},
		{ListID: 10, ItemID: 1},
		{ListID: 10, ItemID: 2},
	})
	require.NoError(t, err)
	require.Len(t, line.Toppings, 3)

	assert.Zero(t, line.Toppings[0].Price)
	assert.Zero(t, line.Toppings[1].Price)
	assert.Equal(t, 3.0, line.Toppings[2].Price)
	assert.Equal(t, "Morango (+R$3.00)", line.Toppings[2].Label)
	assert.InDelta(t, 23.0, line.Price, 1e-9)
	assert.Equal(t, "Kiwi, Banana, Morango (+R$3.00)", line.Details)
}

func TestCustomizeRepeatedSelectionCountsOnce(t *testing.T) {
	line, err := fixtureCatalog().Customize(acai(), []Selection{
		{ListID: 10, ItemID: 3},
		{ListID: 10, ItemID: 1},
		{ListID: 10, ItemID: 2},
		{ListID: 10, ItemID: 2},
	})
	require.NoError(t, err)
	require.Len(t, line.Toppings, 3)
	assert.InDelta(t, 23.0, line.Price, 1e-9)
	assert.Equal(t, "Kiwi, Banana, Morango (+R$3.00)", line.Details)
}

func TestCustomizeListsInProductOrder(t *testing.T) {
	p := acai()
	p.ListIDs = []int64{30, 20, 10}
	line, err := fixtureCatalog().Customize(p, []Selection{
		{ListID: 10, ItemID: 1},
		{ListID: 20, ItemID: 4},
		{ListID: 30, ItemID: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, "Granola, Nutella (+R$6.00), Banana", line.Details)
	assert.InDelta(t, 26.0, line.Price, 1e-9)
}

func TestCustomizeNonFreeAlwaysCharged(t *testing.T) {
	line, err := fixtureCatalog().Customize(acai(), []Selection{{ListID: 20, ItemID: 4}})
	require.NoError(t, err)
	assert.InDelta(t, 26.0, line.Price, 1e-9)
	assert.False(t, line.Toppings[0].Free)
}

func TestCustomizeIgnoresUnlinkedLists(t *testing.T) {
	p := acai()
	p.ListIDs = []int64{10, 999}
	line, err := fixtureCatalog().Customize(p, []Selection{{ListID: 20, ItemID: 4}})
	require.NoError(t, err)
	assert.Empty(t, line.Toppings)
	assert.Equal(t, 20.0, line.Price)
	assert.Empty(t, line.Details)
}

func TestCustomizeRejectsUnavailable(t *testing.T) {
	c := fixtureCatalog()
	_, err := c.Customize(acai(), []Selection{{ListID: 30, ItemID: 6}})
	assert.ErrorIs(t, err, ErrUnavailable)

	p := acai()
	p.Available = false
	_, err = c.Customize(p, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCustomizeRejectsItemOutsideList(t *testing.T) {
	_, err := fixtureCatalog().Customize(acai(), []Selection{{ListID: 10, ItemID: 4}})
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestDirectAndExtraLines(t *testing.T) {
	line, err := DirectLine(acai())
	require.NoError(t, err)
	assert.Equal(t, 20.0, line.Price)

	extra, err := ExtraLine(domain.ToppingItem{ID: 4, Name: "Nutella", Price: 6, Available: true})
	require.NoError(t, err)
	assert.Equal(t, ExtraDetails, extra.Details)

	_, err = ExtraLine(domain.ToppingItem{Name: "Paçoca"})
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.InDelta(t, 26.0, Cart{line, extra}.Subtotal(), 1e-9)
}

func TestSectionsFollowSortOrder(t *testing.T) {
	cats := []domain.Category{
		{ID: 1, Name: "Bebidas", SortOrder: 3},
		{ID: 2, Name: "Nossos Favoritos", SortOrder: 1},
		{ID: 3, Name: "Vazia", SortOrder: 2},
		{ID: 4, Name: "Açaí", SortOrder: 2},
	}
	prods := []domain.Product{
		{ID: 1, Name: "Suco", Category: "Bebidas"},
		{ID: 2, Name: "Açaí 300", Category: "Açaí"},
		{ID: 3, Name: "Combo", Category: "Nossos Favoritos"},
		{ID: 4, Name: "Órfão", Category: "Removida"},
	}
	secs := Sections(cats, prods)
	require.Len(t, secs, 3)
	assert.Equal(t, "Nossos Favoritos", secs[0].Category.Name)
	assert.True(t, secs[0].Featured)
	assert.Equal(t, "Açaí", secs[1].Category.Name)
	assert.False(t, secs[1].Featured)
	assert.Equal(t, "Bebidas", secs[2].Category.Name)
}

func TestListsForResolvesItems(t *testing.T) {
	p := acai()
	p.ListIDs = []int64{20, 404, 10}
	views := fixtureCatalog().ListsFor(p)
	require.Len(t, views, 2)
	assert.Equal(t, "Cremes", views[0].List.Name)
	assert.Len(t, views[1].Items, 3)
}

package menu

import (
	"sort"

	"acai-backend/internal/domain"
)

const featuredKeyword = "favoritos"

// Section is a category with the products filed under its name.
type Section struct {
	Category domain.Category
	Featured bool
	Products []domain.Product
}

// ListView is a topping list with its items resolved, in list order.
type ListView struct {
	List  domain.ToppingList
	Items []domain.ToppingItem
}

// Sections groups products by category name, in category sort order.
// Empty categories are dropped. Unavailable products stay visible so the
// menu can show them as sold out.
func Sections(categories []domain.Category, products []domain.Product) []Section {
	cats := append([]domain.Category(nil), categories...)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].SortOrder < cats[j].SortOrder })

	byName := make(map[string][]domain.Product)
	for _, p := range products {
		byName[p.Category] = append(byName[p.Category], p)
	}

	out := make([]Section, 0, len(cats))
	for _, c := range cats {
		prods := byName[c.Name]
		if len(prods) == 0 {
			continue
		}
		out = append(out, Section{
			Category: c,
			Featured: domain.ContainsFold(c.Name, featuredKeyword),
			Products: prods,
		})
	}
	return out
}

// ListsFor resolves the product's topping lists in the product's order.
// Missing lists and items are skipped.
func (c Catalog) ListsFor(p domain.Product) []ListView {
	out := make([]ListView, 0, len(p.ListIDs))
	for _, id := range p.ListIDs {
		l, ok := c.Lists[id]
		if !ok {
			continue
		}
		lv := ListView{List: l}
		for _, itemID := range l.ItemIDs {
			if it, ok := c.Items[itemID]; ok {
				lv.Items = append(lv.Items, it)
			}
		}
		out = append(out, lv)
	}
	return out
}

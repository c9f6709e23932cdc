// Package menu prices products with their topping selections and builds
// the public catalog view.
package menu

import (
	"errors"
	"fmt"
	"strings"

	"acai-backend/internal/domain"
	"acai-backend/internal/money"
)

var (
	ErrUnavailable = errors.New("item unavailable")
	ErrUnknownItem = errors.New("unknown item")
)

// ExtraDetails marks an add-on bought on its own.
const ExtraDetails = "Adicional Avulso"

// Selection is one topping picked from one of the product's lists.
type Selection struct {
	ListID int64
	ItemID int64
}

// PricedTopping is a selection after quota has been applied.
type PricedTopping struct {
	ListID int64
	ItemID int64
	Name   string
	Price  float64
	Free   bool
	Label  string
}

// CartLine is one entry of the order.
type CartLine struct {
	ProductID int64
	ItemID    int64
	Name      string
	BasePrice float64
	Price     float64
	Details   string
	Toppings  []PricedTopping
}

// Catalog indexes lists and items by id.
type Catalog struct {
	Lists map[int64]domain.ToppingList
	Items map[int64]domain.ToppingItem
}

func NewCatalog(lists []domain.ToppingList, items []domain.ToppingItem) Catalog {
	c := Catalog{
		Lists: make(map[int64]domain.ToppingList, len(lists)),
		Items: make(map[int64]domain.ToppingItem, len(items)),
	}
	for _, l := range lists {
		c.Lists[l.ID] = l
	}
	for _, it := range items {
		c.Items[it.ID] = it
	}
	return c
}

// Customize prices a product with the chosen toppings. Lists are walked in
// the product's order; inside a list, selections are taken in the order
// they were made and the first MaxFree free-eligible ones cost nothing.
// Selections for lists the product does not link, or that no longer
// exist, are ignored, and a repeated selection counts once.
func (c Catalog) Customize(p domain.Product, selections []Selection) (CartLine, error) {
	if !p.Available {
		return CartLine{}, fmt.Errorf("%w: %s", ErrUnavailable, p.Name)
	}
	line := CartLine{ProductID: p.ID, Name: p.Name, BasePrice: p.Price, Price: p.Price}
	selections = uniqueSelections(selections)

	var labels []string
	for _, listID := range p.ListIDs {
		list, ok := c.Lists[listID]
		if !ok {
			continue
		}
		freeUsed := 0
		for _, sel := range selections {
			if sel.ListID != listID {
				continue
			}
			item, ok := c.Items[sel.ItemID]
			if !ok || !containsID(list.ItemIDs, sel.ItemID) {
				return CartLine{}, fmt.Errorf("%w: topping %d", ErrUnknownItem, sel.ItemID)
			}
			if !item.Available {
				return CartLine{}, fmt.Errorf("%w: %s", ErrUnavailable, item.Name)
			}
			pt := PricedTopping{ListID: listID, ItemID: item.ID, Name: item.Name, Price: item.Price, Label: item.Name}
			if item.Free && freeUsed < list.MaxFree {
				pt.Price = 0
				pt.Free = true
				freeUsed++
			} else {
				pt.Label = surchargeLabel(item)
			}
			line.Price += pt.Price
			line.Toppings = append(line.Toppings, pt)
			labels = append(labels, pt.Label)
		}
	}
	line.Details = strings.Join(labels, ", ")
	return line, nil
}

// uniqueSelections drops repeated picks of the same item in the same list,
// keeping the first one. A topping is either chosen or not.
func uniqueSelections(in []Selection) []Selection {
	seen := make(map[Selection]bool, len(in))
	out := make([]Selection, 0, len(in))
	for _, sel := range in {
		if seen[sel] {
			continue
		}
		seen[sel] = true
		out = append(out, sel)
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func surchargeLabel(item domain.ToppingItem) string {
	return fmt.Sprintf("%s (+R$%s)", item.Name, money.Fixed(item.Price))
}

// DirectLine adds a product without opening the customizer.
func DirectLine(p domain.Product) (CartLine, error) {
	if !p.Available {
		return CartLine{}, fmt.Errorf("%w: %s", ErrUnavailable, p.Name)
	}
	return CartLine{ProductID: p.ID, Name: p.Name, BasePrice: p.Price, Price: p.Price}, nil
}

// ExtraLine sells a topping item on its own.
func ExtraLine(item domain.ToppingItem) (CartLine, error) {
	if !item.Available {
		return CartLine{}, fmt.Errorf("%w: %s", ErrUnavailable, item.Name)
	}
	return CartLine{ItemID: item.ID, Name: item.Name, BasePrice: item.Price, Price: item.Price, Details: ExtraDetails}, nil
}

// Cart is an ordered list of lines.
type Cart []CartLine

func (c Cart) Subtotal() float64 {
	var total float64
	for _, l := range c {
		total += l.Price
	}
	return total
}

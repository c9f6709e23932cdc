package handler

import (
	"context"
	"net/http"

	"acai-backend/internal/checkout"
	"acai-backend/internal/domain"
	"acai-backend/internal/menu"
	"github.com/go-chi/chi/v5"
)

type CategoryLister interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// MenuHandler serves the public storefront catalog.
type MenuHandler struct {
	Categories CategoryLister
	Products   checkout.ProductStore
	Lists      checkout.ToppingListStore
	Items      checkout.ToppingItemStore
}

func (h MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.menu)
	r.Get("/menu/products/{id}", h.product)
}

func (h MenuHandler) menu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categories, err := h.Categories.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	products, err := h.Products.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	items, err := h.Items.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sections := make([]map[string]any, 0, len(categories))
	for _, s := range menu.Sections(categories, products) {
		prods := make([]map[string]any, 0, len(s.Products))
		for _, p := range s.Products {
			prods = append(prods, toProductResponse(p))
		}
		sections = append(sections, map[string]any{
			"category": toCategoryResponse(s.Category),
			"featured": s.Featured,
			"products": prods,
		})
	}
	extras := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if it.Available {
			extras = append(extras, toItemResponse(it))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": sections,
		"extras":   extras,
	})
}

// product returns one product with its topping lists resolved for the
// customization screen.
func (h MenuHandler) product(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	ctx := r.Context()
	products, err := h.Products.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var found *domain.Product
	for i := range products {
		if products[i].ID == id {
			found = &products[i]
			break
		}
	}
	if found == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	lists, err := h.Lists.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	items, err := h.Items.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := menu.NewCatalog(lists, items).ListsFor(*found)
	resp := make([]map[string]any, 0, len(views))
	for _, v := range views {
		its := make([]map[string]any, 0, len(v.Items))
		for _, it := range v.Items {
			its = append(its, toItemResponse(it))
		}
		resp = append(resp, map[string]any{
			"id":      v.List.ID,
			"name":    v.List.Name,
			"maxFree": v.List.MaxFree,
			"items":   its,
		})
	}
	out := toProductResponse(*found)
	out["lists"] = resp
	writeJSON(w, http.StatusOK, out)
}

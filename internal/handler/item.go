package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"acai-backend/internal/domain"
	"acai-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// ItemHandler manages topping items.
type ItemHandler struct {
	Repo repository.ItemRepository
}

func (h ItemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/items", h.list)
	r.Post("/items", h.upsert)
	r.Delete("/items/{id}", h.delete)
}

func (h ItemHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, toItemResponse(it))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ItemHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        *int64  `json:"id"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		Image     string  `json:"image"`
		Free      bool    `json:"free"`
		Available *bool   `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	it := domain.ToppingItem{
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Image:     req.Image,
		Free:      req.Free,
		Available: req.Available == nil || *req.Available,
	}
	if req.ID != nil {
		it.ID = *req.ID
	}
	saved, err := h.Repo.Save(r.Context(), it)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*saved))
}

func (h ItemHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func toItemResponse(it domain.ToppingItem) map[string]any {
	return map[string]any{
		"id":        it.ID,
		"name":      it.Name,
		"price":     it.Price,
		"image":     it.Image,
		"free":      it.Free,
		"available": it.Available,
	}
}

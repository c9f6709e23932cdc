package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"acai-backend/internal/domain"
	"acai-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// ListHandler manages topping lists.
type ListHandler struct {
	Repo repository.ListRepository
}

func (h ListHandler) RegisterRoutes(r chi.Router) {
	r.Get("/lists", h.list)
	r.Post("/lists", h.upsert)
	r.Delete("/lists/{id}", h.delete)
}

func (h ListHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, l := range items {
		resp = append(resp, toListResponse(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ListHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      *int64  `json:"id"`
		Name    string  `json:"name"`
		ItemIDs []int64 `json:"itemIds"`
		MaxFree int     `json:"maxFree"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	l := domain.ToppingList{Name: strings.TrimSpace(req.Name), ItemIDs: req.ItemIDs, MaxFree: req.MaxFree}
	if req.ID != nil {
		l.ID = *req.ID
	}
	saved, err := h.Repo.Save(r.Context(), l)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(*saved))
}

func (h ListHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toListResponse(l domain.ToppingList) map[string]any {
	itemIDs := l.ItemIDs
	if itemIDs == nil {
		itemIDs = []int64{}
	}
	return map[string]any{
		"id":      l.ID,
		"name":    l.Name,
		"itemIds": itemIDs,
		"maxFree": l.MaxFree,
	}
}

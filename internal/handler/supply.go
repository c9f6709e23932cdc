package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"acai-backend/internal/domain"
	"acai-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// SupplyHandler manages raw materials.
type SupplyHandler struct {
	Repo repository.SupplyRepository
}

func (h SupplyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/supplies", h.list)
	r.Post("/supplies", h.upsert)
	r.Delete("/supplies/{id}", h.delete)
}

func (h SupplyHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, toSupplyResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SupplyHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       *int64  `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Unit     string  `json:"unit"`
		Price    float64 `json:"price"`
		Amount   float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	unit := domain.SupplyUnit(req.Unit)
	switch unit {
	case "", domain.UnitGram, domain.UnitMilliliter, domain.UnitPiece:
	default:
		writeError(w, http.StatusBadRequest, "unit must be g, ml or un")
		return
	}
	s := domain.Supply{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Unit:     unit,
		Price:    req.Price,
		Amount:   req.Amount,
	}
	if req.ID != nil {
		s.ID = *req.ID
	}
	saved, err := h.Repo.Save(r.Context(), s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSupplyResponse(*saved))
}

func (h SupplyHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toSupplyResponse(s domain.Supply) map[string]any {
	return map[string]any{
		"id":       s.ID,
		"name":     s.Name,
		"category": s.Category,
		"unit":     string(s.Unit),
		"price":    s.Price,
		"amount":   s.Amount,
		"unitCost": s.UnitCost(),
		"recipeId": s.RecipeID,
	}
}

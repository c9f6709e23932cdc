package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"acai-backend/internal/domain"
	"acai-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	Repo repository.CustomerRepository
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.list)
	r.Post("/customers", h.upsert)
	r.Delete("/customers/{id}", h.delete)
}

func (h CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, toCustomerResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CustomerHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID            *int64 `json:"id"`
		Name          string `json:"name"`
		Phone         string `json:"phone"`
		AddressCEP    string `json:"addressCep"`
		AddressNumber string `json:"addressNumber"`
		AddressFull   string `json:"addressFull"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || domain.NormalizePhone(req.Phone) == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}
	c := domain.Customer{
		Name:          strings.TrimSpace(req.Name),
		Phone:         req.Phone,
		AddressCEP:    req.AddressCEP,
		AddressNumber: req.AddressNumber,
		AddressFull:   req.AddressFull,
	}
	if req.ID != nil {
		c.ID = *req.ID
	}
	saved, err := h.Repo.Save(r.Context(), c)
	if err != nil {
		if repository.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "phone already registered")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(*saved))
}

func (h CustomerHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toCustomerResponse(c domain.Customer) map[string]any {
	var lastOrder *string
	if c.LastOrderAt != nil {
		s := c.LastOrderAt.UTC().Format(time.RFC3339)
		lastOrder = &s
	}
	return map[string]any{
		"id":            c.ID,
		"name":          c.Name,
		"phone":         c.Phone,
		"phoneDisplay":  domain.FormatPhone(c.Phone),
		"addressCep":    domain.FormatCEP(c.AddressCEP),
		"addressNumber": c.AddressNumber,
		"addressFull":   c.AddressFull,
		"lastOrderDate": lastOrder,
	}
}

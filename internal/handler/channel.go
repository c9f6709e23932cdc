package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"acai-backend/internal/domain"
	"acai-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// ChannelHandler manages sales channels.
type ChannelHandler struct {
	Repo repository.ChannelRepository
}

func (h ChannelHandler) RegisterRoutes(r chi.Router) {
	r.Get("/channels", h.list)
	r.Post("/channels", h.upsert)
	r.Delete("/channels/{id}", h.delete)
}

func (h ChannelHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, toChannelResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ChannelHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	saved, err := h.Repo.Save(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toChannelResponse(*saved))
}

func (h ChannelHandler) delete(w http.ResponseWriter, r *http.Request) {
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

type channelRequest struct {
	ID                *int64  `json:"id"`
	Name              string  `json:"name"`
	CommissionPercent float64 `json:"commissionPercent"`
	PaymentFeePercent float64 `json:"paymentFeePercent"`
	FixedFee          float64 `json:"fixedFee"`
	Color             string  `json:"color"`
	IsBase            bool    `json:"isBase"`
}

func (c channelRequest) toDomain() domain.SalesChannel {
	ch := domain.SalesChannel{
		Name:              strings.TrimSpace(c.Name),
		CommissionPercent: c.CommissionPercent,
		PaymentFeePercent: c.PaymentFeePercent,
		FixedFee:          c.FixedFee,
		Color:             c.Color,
		IsBase:            c.IsBase,
	}
	if c.ID != nil {
		ch.ID = *c.ID
	}
	return ch
}

func toChannelResponse(c domain.SalesChannel) map[string]any {
	return map[string]any{
		"id":                c.ID,
		"name":              c.Name,
		"commissionPercent": c.CommissionPercent,
		"paymentFeePercent": c.PaymentFeePercent,
		"fixedFee":          c.FixedFee,
		"color":             c.Color,
		"isBase":            c.IsBase,
	}
}

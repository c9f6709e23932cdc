package handler

import (
	"errors"
	"net/http"

	"acai-backend/internal/checkout"
	"acai-backend/internal/delivery"
	"acai-backend/internal/domain"
	"github.com/go-chi/chi/v5"
)

// DeliveryHandler answers delivery fee quotes for a postal code.
type DeliveryHandler struct {
	Quoter checkout.Quoter
}

func (h DeliveryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/delivery/quote", h.quote)
}

// quote never fails on lookup errors: the storefront shows the address as
// unresolved and lets the customer retry.
func (h DeliveryHandler) quote(w http.ResponseWriter, r *http.Request) {
	cep := domain.NormalizeCEP(r.URL.Query().Get("cep"))
	if len(cep) != 8 {
		writeError(w, http.StatusBadRequest, delivery.ErrInvalidCEP.Error())
		return
	}
	q, err := h.Quoter.Quote(r.Context(), cep)
	if err != nil {
		if errors.Is(err, delivery.ErrInvalidCEP) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"resolved": false,
			"cep":      domain.FormatCEP(cep),
		})
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

func toQuoteResponse(q delivery.Quote) map[string]any {
	return map[string]any{
		"resolved": true,
		"cep":      domain.FormatCEP(q.Address.CEP),
		"address": map[string]string{
			"street":   q.Address.Street,
			"district": q.Address.District,
			"city":     q.Address.City,
			"state":    q.Address.State,
		},
		"distanceKm": q.DistanceKm,
		"fee":        q.Fee,
		"outOfRange": q.OutOfRange,
		"reason":     q.Reason,
	}
}

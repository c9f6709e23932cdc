package handler

import (
	"net/http"

	"acai-backend/internal/delivery"
	"github.com/go-chi/chi/v5"
)

// SettingsHandler publishes the store details the storefront displays.
type SettingsHandler struct {
	StoreName    string
	StoreAddress string
	WhatsApp     string
	Currency     string
	Policy       delivery.Policy
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	tiers := make([]map[string]float64, 0, len(h.Policy.Tiers)+1)
	for _, t := range h.Policy.Tiers {
		tiers = append(tiers, map[string]float64{"upToKm": t.UpToKm, "fee": t.Fee})
	}
	tiers = append(tiers, map[string]float64{"upToKm": h.Policy.MaxRadiusKm, "fee": h.Policy.FarFee})

	writeJSON(w, http.StatusOK, map[string]any{
		"storeName":    h.StoreName,
		"storeAddress": h.StoreAddress,
		"whatsapp":     h.WhatsApp,
		"currency":     h.Currency,
		"delivery": map[string]any{
			"maxRadiusKm":    h.Policy.MaxRadiusKm,
			"excludedCities": h.Policy.ExcludedCities,
			"feeTiers":       tiers,
		},
	})
}

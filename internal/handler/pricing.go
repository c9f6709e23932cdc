package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"acai-backend/internal/domain"
	"acai-backend/internal/pricing"
	"github.com/go-chi/chi/v5"
)

type ChannelLister interface {
	List(ctx context.Context) ([]domain.SalesChannel, error)
}

// PricingHandler runs the price calculator without saving anything.
type PricingHandler struct {
	Channels ChannelLister
}

func (h PricingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/pricing/calculate", h.calculate)
}

type pricingRequest struct {
	Ingredients        []domain.RecipeIngredient `json:"ingredients"`
	OperationalPercent float64                   `json:"operationalPercent"`
	ProfitPercent      float64                   `json:"profitPercent"`
	Mode               string                    `json:"mode"`
	ManualPrices       map[int64]float64         `json:"manualPrices"`
	// Channels overrides the stored channels when present.
	Channels []channelRequest `json:"channels"`
}

func (h PricingHandler) calculate(w http.ResponseWriter, r *http.Request) {
	var req pricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	mode := domain.PricingMode(req.Mode)
	if mode != "" && mode != domain.PricingFull && mode != domain.PricingFixedProfit {
		writeError(w, http.StatusBadRequest, "mode must be full or fixed_profit")
		return
	}

	var channels []domain.SalesChannel
	if len(req.Channels) > 0 {
		var err error
		channels, err = requestChannels(req.Channels)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		stored, err := h.Channels.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		channels = stored
	}

	res := pricing.Calculate(pricing.Input{
		Ingredients:        req.Ingredients,
		Channels:           channels,
		OperationalPercent: req.OperationalPercent,
		ProfitPercent:      req.ProfitPercent,
		Mode:               mode,
		ManualPrices:       req.ManualPrices,
	})
	writeJSON(w, http.StatusOK, toPricingResponse(res))
}

// requestChannels converts ad-hoc channels from a calculator request.
// Channels sent without an id get one above every explicit id so manual
// prices keyed by id never reach two channels.
func requestChannels(in []channelRequest) ([]domain.SalesChannel, error) {
	var maxID int64
	seen := make(map[int64]bool, len(in))
	for _, c := range in {
		if c.ID == nil || *c.ID <= 0 {
			continue
		}
		if seen[*c.ID] {
			return nil, fmt.Errorf("duplicate channel id %d", *c.ID)
		}
		seen[*c.ID] = true
		if *c.ID > maxID {
			maxID = *c.ID
		}
	}
	out := make([]domain.SalesChannel, 0, len(in))
	for _, c := range in {
		ch := c.toDomain()
		if ch.ID <= 0 {
			maxID++
			ch.ID = maxID
		}
		out = append(out, ch)
	}
	return out, nil
}

func toPricingResponse(res pricing.Result) map[string]any {
	channels := make([]map[string]any, 0, len(res.Channels))
	for _, c := range res.Channels {
		channels = append(channels, map[string]any{
			"channelId":      c.ChannelID,
			"name":           c.Name,
			"color":          c.Color,
			"isBase":         c.IsBase,
			"suggestedPrice": c.SuggestedPrice,
			"manual":         c.Manual,
			"profit":         c.Profit,
			"marginPercent":  c.MarginPercent,
			"breakdown": map[string]float64{
				"platformFee": c.Breakdown.PlatformFee,
				"operational": c.Breakdown.Operational,
				"cmv":         c.Breakdown.CMV,
				"profit":      c.Breakdown.Profit,
			},
		})
	}
	return map[string]any{
		"cmv":           res.CMV,
		"mode":          string(res.Mode),
		"baseChannelId": res.BaseChannel,
		"targetProfit":  res.TargetProfit,
		"channels":      channels,
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"acai-backend/internal/domain"
	"acai-backend/internal/pricing"
	"acai-backend/internal/report"
	"acai-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type RecipeStore interface {
	List(ctx context.Context) ([]domain.Recipe, error)
	Get(ctx context.Context, id int64) (*domain.Recipe, error)
	Save(ctx context.Context, r domain.Recipe) (*domain.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

type SupplyLister interface {
	List(ctx context.Context) ([]domain.Supply, error)
}

type RecipeHandler struct {
	Recipes   RecipeStore
	Supplies  SupplyLister
	Channels  ChannelLister
	StoreName string
	Now       func() time.Time
}

func (h RecipeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/recipes", h.list)
	r.Get("/recipes/{id}", h.get)
	r.Post("/recipes", h.upsert)
	r.Delete("/recipes/{id}", h.delete)
	r.Get("/recipes/{id}/print", h.print)
	r.Get("/recipes/{id}/export", h.export)
}

func (h RecipeHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Recipes.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	channels, err := h.Channels.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, rc := range items {
		snap := pricing.SummarizeRecipe(rc, channels)
		out := toRecipeResponse(rc)
		out["cmv"] = snap.CMV
		out["basePrice"] = snap.BasePrice
		out["baseChannel"] = snap.BaseName
		resp = append(resp, out)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h RecipeHandler) get(w http.ResponseWriter, r *http.Request) {
	rc, channels, ok := h.load(w, r)
	if !ok {
		return
	}
	out := toRecipeResponse(*rc)
	out["pricing"] = toPricingResponse(pricing.Calculate(pricing.FromRecipe(*rc, channels)))
	writeJSON(w, http.StatusOK, out)
}

func (h RecipeHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID                 *int64                    `json:"id"`
		Name               string                    `json:"name"`
		Ingredients        []domain.RecipeIngredient `json:"ingredients"`
		ProfitPercent      *float64                  `json:"profitPercent"`
		OperationalPercent *float64                  `json:"operationalPercent"`
		PricingMode        string                    `json:"pricingMode"`
		ManualPrices       map[int64]float64         `json:"manualPrices"`
		IsReusable         bool                      `json:"isReusable"`
		YieldAmount        float64                   `json:"yieldAmount"`
		YieldUnit          string                    `json:"yieldUnit"`
		Instructions       string                    `json:"instructions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	mode := domain.PricingMode(req.PricingMode)
	if mode == "" {
		mode = domain.PricingFull
	}
	if mode != domain.PricingFull && mode != domain.PricingFixedProfit {
		writeError(w, http.StatusBadRequest, "pricingMode must be full or fixed_profit")
		return
	}
	ingredients, err := h.resolveIngredients(r.Context(), req.Ingredients)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rc := domain.Recipe{
		Name:               strings.TrimSpace(req.Name),
		Ingredients:        ingredients,
		ProfitPercent:      valueOr(req.ProfitPercent, 20),
		OperationalPercent: valueOr(req.OperationalPercent, 30),
		PricingMode:        mode,
		ManualPrices:       req.ManualPrices,
		IsReusable:         req.IsReusable,
		YieldAmount:        req.YieldAmount,
		YieldUnit:          strings.TrimSpace(req.YieldUnit),
		Instructions:       req.Instructions,
	}
	if req.ID != nil {
		rc.ID = *req.ID
	}
	saved, err := h.Recipes.Save(r.Context(), rc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRecipeResponse(*saved))
}

// resolveIngredients fills the cost snapshot of ingredients sent with only
// a supply id and the used amount. Ingredients carrying a snapshot are
// kept as sent so saved recipes keep their historical cost.
func (h RecipeHandler) resolveIngredients(ctx context.Context, in []domain.RecipeIngredient) ([]domain.RecipeIngredient, error) {
	var supplies map[int64]domain.Supply
	out := make([]domain.RecipeIngredient, 0, len(in))
	for _, ing := range in {
		if ing.UsedAmount < 0 {
			return nil, fmt.Errorf("used amount of %q must not be negative", ing.Name)
		}
		if ing.Amount > 0 || ing.SupplyID == 0 {
			out = append(out, ing)
			continue
		}
		if supplies == nil {
			list, err := h.Supplies.List(ctx)
			if err != nil {
				return nil, err
			}
			supplies = make(map[int64]domain.Supply, len(list))
			for _, s := range list {
				supplies[s.ID] = s
			}
		}
		s, ok := supplies[ing.SupplyID]
		if !ok {
			return nil, fmt.Errorf("supply %d not found", ing.SupplyID)
		}
		out = append(out, domain.SnapshotOf(s, ing.UsedAmount))
	}
	return out, nil
}

func (h RecipeHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Recipes.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h RecipeHandler) print(w http.ResponseWriter, r *http.Request) {
	rc, channels, ok := h.load(w, r)
	if !ok {
		return
	}
	sheet := report.NewCostSheet(h.StoreName, *rc, channels, h.now())
	html, err := sheet.HTML()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (h RecipeHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	rc, channels, ok := h.load(w, r)
	if !ok {
		return
	}
	sheet := report.NewCostSheet(h.StoreName, *rc, channels, h.now())
	filename := "ficha_" + slug(rc.Name)

	switch format {
	case "csv":
		data, err := sheet.CSV()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := sheet.XLSX()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

// load fetches the recipe named in the path plus the current channels,
// writing the error response itself when it fails.
func (h RecipeHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Recipe, []domain.SalesChannel, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, nil, false
	}
	rc, err := h.Recipes.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "recipe not found")
			return nil, nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	channels, err := h.Channels.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	return rc, channels, true
}

func (h RecipeHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func toRecipeResponse(rc domain.Recipe) map[string]any {
	ingredients := rc.Ingredients
	if ingredients == nil {
		ingredients = []domain.RecipeIngredient{}
	}
	manual := rc.ManualPrices
	if manual == nil {
		manual = map[int64]float64{}
	}
	return map[string]any{
		"id":                 rc.ID,
		"name":               rc.Name,
		"ingredients":        ingredients,
		"profitPercent":      rc.ProfitPercent,
		"operationalPercent": rc.OperationalPercent,
		"pricingMode":        string(rc.PricingMode),
		"manualPrices":       manual,
		"isReusable":         rc.IsReusable,
		"yieldAmount":        rc.YieldAmount,
		"yieldUnit":          rc.YieldUnit,
		"instructions":       rc.Instructions,
		"yieldUnitCost":      pricing.YieldUnitCost(rc),
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	out := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "_"), "_")
	if out == "" {
		return "receita"
	}
	return out
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"acai-backend/internal/checkout"
	"acai-backend/internal/menu"
	"acai-backend/internal/money"
	"acai-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// CheckoutHandler prices carts and hands orders off to WhatsApp.
type CheckoutHandler struct {
	Service *checkout.Service
}

func (h CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/cart/price", h.priceCart)
	r.Post("/checkout", h.checkout)
	r.Get("/customers/lookup", h.lookupCustomer)
}

type lineRequest struct {
	ProductID  int64 `json:"productId"`
	ItemID     int64 `json:"itemId"`
	Customize  bool  `json:"customize"`
	Selections []struct {
		ListID int64 `json:"listId"`
		ItemID int64 `json:"itemId"`
	} `json:"selections"`
}

func toLineRequests(in []lineRequest) []checkout.LineRequest {
	out := make([]checkout.LineRequest, 0, len(in))
	for _, l := range in {
		lr := checkout.LineRequest{ProductID: l.ProductID, ItemID: l.ItemID, Customize: l.Customize}
		for _, s := range l.Selections {
			lr.Selections = append(lr.Selections, menu.Selection{ListID: s.ListID, ItemID: s.ItemID})
		}
		out = append(out, lr)
	}
	return out
}

func (h CheckoutHandler) priceCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lines []lineRequest `json:"lines"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	cart, err := h.Service.PriceCart(r.Context(), toLineRequests(req.Lines))
	if err != nil {
		writeError(w, checkoutStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lines":    toCartResponse(cart),
		"subtotal": cart.Subtotal(),
	})
}

func (h CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName  string        `json:"customerName"`
		Phone         string        `json:"phone"`
		CEP           string        `json:"cep"`
		AddressNumber string        `json:"addressNumber"`
		PaymentMethod string        `json:"paymentMethod"`
		CashChange    cashAmount    `json:"cashChange"`
		SaveConsent   bool          `json:"saveConsent"`
		Lines         []lineRequest `json:"lines"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Checkout(r.Context(), checkout.Request{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		CEP:           req.CEP,
		AddressNumber: req.AddressNumber,
		PaymentMethod: req.PaymentMethod,
		CashChange:    float64(req.CashChange),
		SaveConsent:   req.SaveConsent,
		Lines:         toLineRequests(req.Lines),
	})
	if err != nil {
		writeError(w, checkoutStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lines":       toCartResponse(res.Order.Lines),
		"subtotal":    res.Order.Subtotal(),
		"deliveryFee": res.Order.DeliveryFee,
		"total":       res.Order.Total(),
		"delivery":    toQuoteResponse(res.Quote),
		"message":     res.Message,
		"whatsappUrl": res.Link,
	})
}

// cashAmount accepts the cash-change field either as a JSON number or as
// the string typed into the masked input, read as cents ("5000" is 50.00).
type cashAmount float64

func (c *cashAmount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = cashAmount(money.ParseCents(s))
		return nil
	}
	var f *float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f != nil {
		*c = cashAmount(*f)
	}
	return nil
}

func (h CheckoutHandler) lookupCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.FindCustomer(r.Context(), r.URL.Query().Get("phone"))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if c == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":          c.Name,
		"addressCep":    c.AddressCEP,
		"addressNumber": c.AddressNumber,
	})
}

func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrIncomplete),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrUnknownProduct),
		errors.Is(err, menu.ErrUnknownItem):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrOutOfRange),
		errors.Is(err, menu.ErrUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrAddressUnresolved):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toCartResponse(cart menu.Cart) []map[string]any {
	out := make([]map[string]any, 0, len(cart))
	for _, l := range cart {
		toppings := make([]map[string]any, 0, len(l.Toppings))
		for _, t := range l.Toppings {
			toppings = append(toppings, map[string]any{
				"listId": t.ListID,
				"itemId": t.ItemID,
				"name":   t.Name,
				"price":  t.Price,
				"free":   t.Free,
				"label":  t.Label,
			})
		}
		out = append(out, map[string]any{
			"productId": l.ProductID,
			"itemId":    l.ItemID,
			"name":      l.Name,
			"basePrice": l.BasePrice,
			"price":     l.Price,
			"details":   l.Details,
			"toppings":  toppings,
		})
	}
	return out
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"acai-backend/internal/checkout"
	"acai-backend/internal/delivery"
	"acai-backend/internal/domain"
	"acai-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

type staticChannels []domain.SalesChannel

func (s staticChannels) List(context.Context) ([]domain.SalesChannel, error) { return s, nil }

type staticProducts []domain.Product

func (s staticProducts) List(context.Context) ([]domain.Product, error) { return s, nil }

type staticLists []domain.ToppingList

func (s staticLists) List(context.Context) ([]domain.ToppingList, error) { return s, nil }

type staticItems []domain.ToppingItem

func (s staticItems) List(context.Context) ([]domain.ToppingItem, error) { return s, nil }

type staticCategories []domain.Category

func (s staticCategories) List(context.Context) ([]domain.Category, error) { return s, nil }

type fakeQuoter struct {
	quote delivery.Quote
	err   error
}

func (f fakeQuoter) Quote(context.Context, string) (delivery.Quote, error) { return f.quote, f.err }

type memCustomers map[string]domain.Customer

func (m memCustomers) UpsertByPhone(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	m[c.Phone] = c
	return &c, nil
}

func (m memCustomers) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	c, ok := m[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func TestPricingCalculateWorkedExample(t *testing.T) {
	r := chi.NewRouter()
	PricingHandler{Channels: staticChannels{{ID: 1, Name: "Delivery", CommissionPercent: 20, PaymentFeePercent: 5, FixedFee: 1}}}.RegisterRoutes(r)

	rec, env := do(t, r, http.MethodPost, "/pricing/calculate", `{
		"ingredients": [{"name":"Açaí","price":10,"amount":1,"usedAmount":1}],
		"operationalPercent": 30,
		"profitPercent": 20
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		CMV      float64 `json:"cmv"`
		Mode     string  `json:"mode"`
		Channels []struct {
			SuggestedPrice float64 `json:"suggestedPrice"`
			Profit         float64 `json:"profit"`
			IsBase         bool    `json:"isBase"`
		} `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "full", data.Mode)
	assert.InDelta(t, 10.0, data.CMV, 1e-9)
	require.Len(t, data.Channels, 1)
	assert.InDelta(t, 44.0, data.Channels[0].SuggestedPrice, 1e-9)
	assert.InDelta(t, 8.8, data.Channels[0].Profit, 1e-9)
	assert.True(t, data.Channels[0].IsBase)
}

func TestPricingCalculateRejectsUnknownMode(t *testing.T) {
	r := chi.NewRouter()
	PricingHandler{Channels: staticChannels{}}.RegisterRoutes(r)
	rec, env := do(t, r, http.MethodPost, "/pricing/calculate", `{"mode":"cheap"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", env.Status)
}

func TestPricingCalculateAdHocChannelIDs(t *testing.T) {
	r := chi.NewRouter()
	PricingHandler{Channels: staticChannels{}}.RegisterRoutes(r)

	rec, env := do(t, r, http.MethodPost, "/pricing/calculate", `{
		"ingredients": [{"name":"Açaí","price":10,"amount":1,"usedAmount":1}],
		"channels": [{"name":"Balcão"}, {"id":1,"name":"iFood","commissionPercent":20}],
		"manualPrices": {"1": 99}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		Channels []struct {
			ChannelID      int64   `json:"channelId"`
			Name           string  `json:"name"`
			Manual         bool    `json:"manual"`
			SuggestedPrice float64 `json:"suggestedPrice"`
		} `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Channels, 2)
	assert.Equal(t, int64(2), data.Channels[0].ChannelID)
	assert.False(t, data.Channels[0].Manual)
	assert.InDelta(t, 10.0, data.Channels[0].SuggestedPrice, 1e-9)
	assert.Equal(t, int64(1), data.Channels[1].ChannelID)
	assert.True(t, data.Channels[1].Manual)
	assert.InDelta(t, 99.0, data.Channels[1].SuggestedPrice, 1e-9)

	rec, _ = do(t, r, http.MethodPost, "/pricing/calculate", `{"channels":[{"id":3,"name":"A"},{"id":3,"name":"B"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeliveryQuote(t *testing.T) {
	quote := delivery.Quote{
		Address:    delivery.Address{CEP: "03820000", Street: "Rua Tiquatira", District: "Vila Cisper", City: "São Paulo", State: "SP"},
		DistanceKm: 1.4,
		Fee:        4.99,
	}

	t.Run("resolved", func(t *testing.T) {
		r := chi.NewRouter()
		DeliveryHandler{Quoter: fakeQuoter{quote: quote}}.RegisterRoutes(r)
		rec, env := do(t, r, http.MethodGet, "/delivery/quote?cep=03820-000", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var data map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, true, data["resolved"])
		assert.Equal(t, "03820-000", data["cep"])
		assert.InDelta(t, 4.99, data["fee"], 1e-9)
		assert.Equal(t, false, data["outOfRange"])
	})

	t.Run("lookup failure is not an error", func(t *testing.T) {
		r := chi.NewRouter()
		DeliveryHandler{Quoter: fakeQuoter{err: delivery.ErrLookupFailed}}.RegisterRoutes(r)
		rec, env := do(t, r, http.MethodGet, "/delivery/quote?cep=03820000", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var data map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, false, data["resolved"])
	})

	t.Run("short cep", func(t *testing.T) {
		r := chi.NewRouter()
		DeliveryHandler{Quoter: fakeQuoter{quote: quote}}.RegisterRoutes(r)
		rec, _ := do(t, r, http.MethodGet, "/delivery/quote?cep=0382", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func checkoutRouter(q fakeQuoter, customers memCustomers) http.Handler {
	svc := &checkout.Service{
		Products: staticProducts{
			{ID: 1, Name: "Açaí 500ml", Price: 20, Category: "Copos", ListIDs: []int64{10}, Available: true},
			{ID: 2, Name: "Açaí 1L", Price: 35, Category: "Copos", Available: false},
		},
		Lists: staticLists{{ID: 10, Name: "Frutas", ItemIDs: []int64{100, 101}, MaxFree: 1}},
		Items: staticItems{
			{ID: 100, Name: "Banana", Price: 2, Free: true, Available: true},
			{ID: 101, Name: "Morango", Price: 3, Free: true, Available: true},
		},
		Customers: customers,
		Delivery:  q,
		StoreName: "AÇAÍ DO LUCCA",
		WhatsApp:  "5511988170539",
		Now:       func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) },
	}
	r := chi.NewRouter()
	CheckoutHandler{Service: svc}.RegisterRoutes(r)
	return r
}

const checkoutBody = `{
	"customerName": "Maria",
	"phone": "(11) 98765-4321",
	"cep": "03820-000",
	"addressNumber": "12",
	"paymentMethod": "Pix",
	"saveConsent": true,
	"lines": [{"productId": 1, "customize": true, "selections": [{"listId": 10, "itemId": 100}, {"listId": 10, "itemId": 101}]}]
}`

func TestCheckoutHandsOff(t *testing.T) {
	customers := memCustomers{}
	q := fakeQuoter{quote: delivery.Quote{Address: delivery.Address{CEP: "03820000", Street: "Rua Tiquatira", District: "Vila Cisper"}, Fee: 3.99}}
	rec, env := do(t, checkoutRouter(q, customers), http.MethodPost, "/checkout", checkoutBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		Subtotal    float64 `json:"subtotal"`
		Total       float64 `json:"total"`
		Message     string  `json:"message"`
		WhatsappURL string  `json:"whatsappUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.InDelta(t, 23.0, data.Subtotal, 1e-9)
	assert.InDelta(t, 26.99, data.Total, 1e-9)
	assert.Contains(t, data.Message, "Morango (+R$3.00)")
	assert.True(t, strings.HasPrefix(data.WhatsappURL, "https://wa.me/5511988170539?text="))
	assert.Contains(t, customers, "11987654321")

	rec, env = do(t, checkoutRouter(q, customers), http.MethodGet, "/customers/lookup?phone=11987654321", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"name":"Maria"`)
}

func TestCheckoutCashChange(t *testing.T) {
	q := fakeQuoter{quote: delivery.Quote{Address: delivery.Address{CEP: "03820000", Street: "Rua Tiquatira", District: "Vila Cisper"}, Fee: 3.99}}
	cases := map[string]string{
		"typed string": `"R$ 50,00"`,
		"digits only":  `"5000"`,
		"number":       `50`,
	}
	for name, cash := range cases {
		t.Run(name, func(t *testing.T) {
			body := strings.Replace(checkoutBody, `"paymentMethod": "Pix",`, `"paymentMethod": "Dinheiro", "cashChange": `+cash+`,`, 1)
			rec, env := do(t, checkoutRouter(q, memCustomers{}), http.MethodPost, "/checkout", body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var data struct {
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Contains(t, data.Message, "Troco para: R$ 50,00")
		})
	}

	rec, _ := do(t, checkoutRouter(q, memCustomers{}), http.MethodPost, "/checkout", strings.Replace(checkoutBody, `"saveConsent"`, `"cashChange": true, "saveConsent"`, 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutErrors(t *testing.T) {
	inRange := fakeQuoter{quote: delivery.Quote{Fee: 3.99}}

	rec, _ := do(t, checkoutRouter(fakeQuoter{quote: delivery.Quote{OutOfRange: true, Reason: delivery.ReasonTooFar}}, memCustomers{}), http.MethodPost, "/checkout", checkoutBody)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = do(t, checkoutRouter(fakeQuoter{err: errors.New("timeout")}, memCustomers{}), http.MethodPost, "/checkout", checkoutBody)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec, _ = do(t, checkoutRouter(inRange, memCustomers{}), http.MethodPost, "/checkout", `{"customerName":"Maria","lines":[{"productId":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, checkoutRouter(inRange, memCustomers{}), http.MethodPost, "/cart/price", `{"lines":[{"productId":2}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCustomerLookupShortPhone(t *testing.T) {
	rec, env := do(t, checkoutRouter(fakeQuoter{}, memCustomers{}), http.MethodGet, "/customers/lookup?phone=1198", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(env.Data))
}

func TestMenuSectionsAndCustomizer(t *testing.T) {
	r := chi.NewRouter()
	MenuHandler{
		Categories: staticCategories{{ID: 2, Name: "Copos", SortOrder: 2}, {ID: 1, Name: "⭐ Favoritos", SortOrder: 1}, {ID: 3, Name: "Vazia", SortOrder: 3}},
		Products: staticProducts{
			{ID: 1, Name: "Açaí 500ml", Category: "Copos", ListIDs: []int64{10, 99}, Available: true},
			{ID: 2, Name: "Combo", Category: "⭐ Favoritos", Available: true},
		},
		Lists: staticLists{{ID: 10, Name: "Frutas", ItemIDs: []int64{100}, MaxFree: 2}},
		Items: staticItems{{ID: 100, Name: "Banana", Free: true, Available: true}},
	}.RegisterRoutes(r)

	rec, env := do(t, r, http.MethodGet, "/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Sections []struct {
			Category struct{ Name string } `json:"category"`
			Featured bool                  `json:"featured"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Sections, 2)
	assert.Equal(t, "⭐ Favoritos", data.Sections[0].Category.Name)
	assert.True(t, data.Sections[0].Featured)
	assert.False(t, data.Sections[1].Featured)

	rec, env = do(t, r, http.MethodGet, "/menu/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var prod struct {
		Lists []struct {
			Name  string `json:"name"`
			Items []any  `json:"items"`
		} `json:"lists"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &prod))
	require.Len(t, prod.Lists, 1)
	assert.Equal(t, "Frutas", prod.Lists[0].Name)
	assert.Len(t, prod.Lists[0].Items, 1)

	rec, _ = do(t, r, http.MethodGet, "/menu/products/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

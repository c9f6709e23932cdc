// Package checkout turns a cart into a WhatsApp order hand-off.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"acai-backend/internal/delivery"
	"acai-backend/internal/domain"
	"acai-backend/internal/menu"
	"acai-backend/internal/metrics"
)

var (
	ErrIncomplete        = errors.New("fill in every field")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOutOfRange        = errors.New("address outside delivery area")
	ErrAddressUnresolved = errors.New("address could not be resolved")
	ErrUnknownProduct    = errors.New("unknown product")
)

const minPhoneDigitsLookup = 10

type ProductStore interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type ToppingListStore interface {
	List(ctx context.Context) ([]domain.ToppingList, error)
}

type ToppingItemStore interface {
	List(ctx context.Context) ([]domain.ToppingItem, error)
}

type CustomerStore interface {
	UpsertByPhone(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
}

type Quoter interface {
	Quote(ctx context.Context, cep string) (delivery.Quote, error)
}

// LineRequest is either a product with toppings or a standalone item.
type LineRequest struct {
	ProductID  int64
	ItemID     int64
	Selections []menu.Selection
	// Customize is false for products added straight from the menu.
	Customize bool
}

type Request struct {
	CustomerName  string
	Phone         string
	CEP           string
	AddressNumber string
	PaymentMethod string
	CashChange    float64
	SaveConsent   bool
	Lines         []LineRequest
}

type Result struct {
	Order   Order
	Quote   delivery.Quote
	Message string
	Link    string
}

type Service struct {
	Products  ProductStore
	Lists     ToppingListStore
	Items     ToppingItemStore
	Customers CustomerStore
	Delivery  Quoter
	StoreName string
	WhatsApp  string
	Logger    *slog.Logger
	Now       func() time.Time
}

// PriceCart reprices every requested line from the current catalog.
func (s Service) PriceCart(ctx context.Context, lines []LineRequest) (menu.Cart, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	products, err := s.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	lists, err := s.Lists.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lists: %w", err)
	}
	items, err := s.Items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	catalog := menu.NewCatalog(lists, items)
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cart := make(menu.Cart, 0, len(lines))
	for _, lr := range lines {
		var (
			line menu.CartLine
			err  error
		)
		switch {
		case lr.ProductID != 0:
			p, ok := byID[lr.ProductID]
			if !ok {
				return nil, fmt.Errorf("%w: %d", ErrUnknownProduct, lr.ProductID)
			}
			if lr.Customize || len(lr.Selections) > 0 {
				line, err = catalog.Customize(p, lr.Selections)
			} else {
				line, err = menu.DirectLine(p)
			}
		case lr.ItemID != 0:
			item, ok := catalog.Items[lr.ItemID]
			if !ok {
				return nil, fmt.Errorf("%w: item %d", menu.ErrUnknownItem, lr.ItemID)
			}
			line, err = menu.ExtraLine(item)
		default:
			return nil, fmt.Errorf("%w: line without product or item", ErrUnknownProduct)
		}
		if err != nil {
			return nil, err
		}
		cart = append(cart, line)
	}
	return cart, nil
}

// Checkout validates the order, quotes delivery, optionally remembers the
// customer and returns the hand-off message and link.
func (s Service) Checkout(ctx context.Context, req Request) (*Result, error) {
	if domain.IsBlank(req.CustomerName) || domain.NormalizePhone(req.Phone) == "" ||
		domain.IsBlank(req.AddressNumber) || domain.IsBlank(req.PaymentMethod) ||
		len(domain.NormalizeCEP(req.CEP)) != 8 {
		return nil, ErrIncomplete
	}

	cart, err := s.PriceCart(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	quote, err := s.Delivery.Quote(ctx, req.CEP)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAddressUnresolved, err)
	}
	if quote.OutOfRange {
		return nil, ErrOutOfRange
	}

	if req.SaveConsent {
		s.rememberCustomer(ctx, req, quote.Address)
	}

	order := Order{
		StoreName:     s.StoreName,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Phone:         req.Phone,
		Street:        quote.Address.Street,
		Number:        strings.TrimSpace(req.AddressNumber),
		District:      quote.Address.District,
		Lines:         cart,
		DeliveryFee:   quote.Fee,
		PaymentMethod: req.PaymentMethod,
		CashChange:    req.CashChange,
	}
	msg := order.Message()

	metrics.OrdersHandedOff.Inc()
	metrics.OrderValue.Observe(order.Total())

	return &Result{
		Order:   order,
		Quote:   quote,
		Message: msg,
		Link:    WhatsAppLink(s.WhatsApp, msg),
	}, nil
}

// rememberCustomer upserts by phone. Failures are logged and do not block
// the order.
func (s Service) rememberCustomer(ctx context.Context, req Request, addr delivery.Address) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	_, err := s.Customers.UpsertByPhone(ctx, domain.Customer{
		Name:          strings.TrimSpace(req.CustomerName),
		Phone:         domain.NormalizePhone(req.Phone),
		AddressCEP:    domain.NormalizeCEP(req.CEP),
		AddressNumber: strings.TrimSpace(req.AddressNumber),
		AddressFull:   addr.Street + ", " + addr.District,
		LastOrderAt:   &now,
	})
	if err != nil && s.Logger != nil {
		s.Logger.Error("save customer failed", "err", err)
	}
}

// FindCustomer returns the stored customer for a phone, or nil when the
// phone is too short to identify anyone.
func (s Service) FindCustomer(ctx context.Context, phone string) (*domain.Customer, error) {
	clean := domain.NormalizePhone(phone)
	if len(clean) < minPhoneDigitsLookup {
		return nil, nil
	}
	return s.Customers.GetByPhone(ctx, clean)
}

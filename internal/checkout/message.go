package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"acai-backend/internal/domain"
	"acai-backend/internal/menu"
	"acai-backend/internal/money"
)

// Order is everything the hand-off message shows.
type Order struct {
	StoreName     string
	CustomerName  string
	Phone         string
	Street        string
	Number        string
	District      string
	Lines         menu.Cart
	DeliveryFee   float64
	PaymentMethod string
	CashChange    float64
}

func (o Order) Subtotal() float64 {
	return o.Lines.Subtotal()
}

func (o Order) Total() float64 {
	return o.Subtotal() + o.DeliveryFee
}

// Message renders the order as WhatsApp-formatted text.
func (o Order) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "*NOVO PEDIDO - %s*\n", o.StoreName)
	fmt.Fprintf(&b, "Cliente: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Tel: %s\n", domain.FormatPhone(o.Phone))
	fmt.Fprintf(&b, "End: %s, %s - %s\n\n", o.Street, o.Number, o.District)

	for i, l := range o.Lines {
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, l.Name)
		if l.Details != "" {
			fmt.Fprintf(&b, "Obs: %s\n", l.Details)
		}
		fmt.Fprintf(&b, "%s\n\n", money.BRL(l.Price))
	}

	b.WriteString("----------------\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", money.BRL(o.Subtotal()))
	fmt.Fprintf(&b, "Entrega: %s\n", money.BRL(o.DeliveryFee))
	fmt.Fprintf(&b, "*TOTAL: %s*\n", money.BRL(o.Total()))
	fmt.Fprintf(&b, "Pagamento: %s\n", o.PaymentMethod)
	if o.CashChange > 0 {
		fmt.Fprintf(&b, "Troco para: %s", money.BRLComma(o.CashChange))
	}
	return b.String()
}

// WhatsAppLink builds the wa.me deep link carrying text.
func WhatsAppLink(number, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + domain.DigitsOnly(number) + "?text=" + escaped
}

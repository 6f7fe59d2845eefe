package receipt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
)

const width = 40

type Options struct {
	ShopName string
	Cashier  string
	Currency string
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.Currency == "" {
		o.Currency = "GHS"
	}

	if o.Location == nil {
		o.Location = time.UTC
	}

	return o
}

// Render writes a fixed-width plain-text receipt for s.
func Render(w io.Writer, s *sale.Sale, opts Options) error {
	opts = opts.withDefaults()

	var sb strings.Builder

	if opts.ShopName != "" {
		sb.WriteString(center(strings.ToUpper(opts.ShopName)) + "\n")
	}

	sb.WriteString(center("Invoice: "+s.InvoiceNumber) + "\n")
	sb.WriteString(center("Date: "+s.CreatedAt.In(opts.Location).Format("2006-01-02 15:04")) + "\n")

	if opts.Cashier != "" {
		sb.WriteString(center("Cashier: "+opts.Cashier) + "\n")
	}

	sb.WriteString(strings.Repeat("-", width) + "\n")

	for _, it := range s.Items {
		sb.WriteString(it.ProductName + "\n")
		sb.WriteString(row(fmt.Sprintf("  %d x %s", it.Quantity, money(it.UnitPrice)), money(it.LineTotal)) + "\n")
	}

	sb.WriteString(strings.Repeat("-", width) + "\n")
	sb.WriteString(row("Subtotal", opts.Currency+" "+money(s.Subtotal)) + "\n")

	if !s.TaxRate.IsZero() {
		sb.WriteString(row(fmt.Sprintf("Tax (%s%%)", s.TaxRate.String()), opts.Currency+" "+money(s.Tax)) + "\n")
	}

	sb.WriteString(row("TOTAL", opts.Currency+" "+money(s.Total)) + "\n")
	sb.WriteString(row("Paid ("+paymentLabel(s.PaymentMethod)+")", opts.Currency+" "+money(s.AmountPaid)) + "\n")

	if !s.Change.IsZero() {
		sb.WriteString(row("Change", opts.Currency+" "+money(s.Change)) + "\n")
	}

	sb.WriteString("\n" + center("Thank you for shopping with us!") + "\n")

	_, err := io.WriteString(w, sb.String())

	return err
}

func String(s *sale.Sale, opts Options) string {
	var sb strings.Builder
	_ = Render(&sb, s, opts)

	return sb.String()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func paymentLabel(m sale.PaymentMethod) string {
	switch m {
	case sale.PaymentCard:
		return "card"
	case sale.PaymentMobileMoney:
		return "mobile money"
	default:
		return "cash"
	}
}

func row(left, right string) string {
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}

	return left + strings.Repeat(" ", gap) + right
}

func center(s string) string {
	pad := (width - len(s)) / 2
	if pad < 1 {
		return s
	}

	return strings.Repeat(" ", pad) + s
}

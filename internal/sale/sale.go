package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentMobileMoney PaymentMethod = "mobile_money"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileMoney:
		return true
	}

	return false
}

// Sale is an immutable record of one checkout.
type Sale struct {
	ID            uuid.UUID
	InvoiceNumber string
	CashierID     uuid.UUID
	Items         []LineItem
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal // Percentage, 0-100
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	AmountPaid    decimal.Decimal
	Change        decimal.Decimal
	CreatedAt     time.Time
}

// LineItem snapshots the product name and price at checkout time.
type LineItem struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// ItemCount is the number of units sold.
func (s *Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}

	return n
}

type ItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

package events

import (
	"context"
	"time"
)

const TopicSaleCreated = "sale.created"

//go:generate mockgen -source=events.go -destination=publisher_mock.go -package=events

// Publisher delivers domain events to interested consumers. Delivery is
// best-effort: callers log failures and carry on.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// SaleCreated is emitted after a checkout commits.
type SaleCreated struct {
	SaleID        string    `json:"saleId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	CashierID     string    `json:"cashierId"`
	Total         string    `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	Items         []Item    `json:"items"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Item struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }

package sale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/events"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	BeginCheckout(ctx context.Context) (CheckoutTx, error)
	GetSale(ctx context.Context, cashierID, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context, cashierID uuid.UUID, filter ListFilter) ([]*Sale, int, error)
}

// CheckoutTx spans every write of a single checkout. Nothing is visible to
// other checkouts until Commit.
type CheckoutTx interface {
	// DecrementStock takes qty units off the product when at least qty are on
	// hand and returns the product as it was before the decrement.
	DecrementStock(ctx context.Context, ownerID, productID uuid.UUID, qty int) (*product.Product, error)
	NextInvoiceSequence(ctx context.Context) (int64, error)
	CreateSale(ctx context.Context, s *Sale) error
	Commit() error
	Rollback() error
}

// CacheInvalidator drops cached rollups that a new sale makes stale.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	cache     CacheInvalidator
	now       func() time.Time
	loc       *time.Location
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone used for invoice dates and day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithCacheInvalidator(c CacheInvalidator) Option {
	return func(s *Service) { s.cache = c }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: events.Nop{},
		now:       time.Now,
		loc:       time.UTC,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CheckoutParams struct {
	Items         []ItemRequest
	PaymentMethod PaymentMethod
	AmountPaid    *decimal.Decimal
	TaxRate       decimal.Decimal
}

type ListParams struct {
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int // 0 means no limit
	Offset    int
}

type Page struct {
	Sales       []*Sale
	Total       int
	TotalPages  int
	CurrentPage int
}

type TodaySummary struct {
	Sales []*Sale
	Total decimal.Decimal
	Count int
}

var hundred = decimal.NewFromInt(100)

// Checkout sells the requested items in one unit of work: either every line's
// stock is decremented and the sale is stored, or nothing changes.
func (s *Service) Checkout(ctx context.Context, ownerID uuid.UUID, params CheckoutParams) (*Sale, error) {
	if err := validateCheckout(&params); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginCheckout(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	sale := &Sale{
		CashierID:     ownerID,
		TaxRate:       params.TaxRate,
		PaymentMethod: params.PaymentMethod,
		Items:         make([]LineItem, 0, len(params.Items)),
		CreatedAt:     s.now(),
	}

	subtotal := decimal.Zero

	for _, item := range params.Items {
		p, err := tx.DecrementStock(ctx, ownerID, item.ProductID, item.Quantity)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) || errors.Is(err, product.ErrInsufficientStock) {
				return nil, err
			}

			return nil, fmt.Errorf("decrementing stock: %w", err)
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		sale.Items = append(sale.Items, LineItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			UnitPrice:   p.Price,
			LineTotal:   lineTotal,
		})
	}

	sale.Subtotal = subtotal
	sale.Tax = subtotal.Mul(params.TaxRate).Shift(-2)
	sale.Total = sale.Subtotal.Add(sale.Tax)
	sale.AmountPaid = sale.Total
	sale.Change = decimal.Zero

	if params.AmountPaid != nil && !params.AmountPaid.IsZero() {
		sale.AmountPaid = *params.AmountPaid
		sale.Change = sale.AmountPaid.Sub(sale.Total)
	}

	seq, err := tx.NextInvoiceSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("next invoice number: %w", err)
	}

	sale.InvoiceNumber = FormatInvoiceNumber(sale.CreatedAt, s.loc, seq)

	if err := tx.CreateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	s.afterCheckout(ctx, sale)

	return sale, nil
}

func (s *Service) afterCheckout(ctx context.Context, sale *Sale) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, sale.CashierID); err != nil {
			slog.Warn("failed to invalidate dashboard cache", "cashier", sale.CashierID, "error", err)
		}
	}

	items := make([]events.Item, len(sale.Items))
	for i, it := range sale.Items {
		items[i] = events.Item{ProductID: it.ProductID.String(), Quantity: it.Quantity}
	}

	event := events.SaleCreated{
		SaleID:        sale.ID.String(),
		InvoiceNumber: sale.InvoiceNumber,
		CashierID:     sale.CashierID.String(),
		Total:         sale.Total.String(),
		PaymentMethod: string(sale.PaymentMethod),
		Items:         items,
		CreatedAt:     sale.CreatedAt,
	}

	// Keyed by cashier: one shop's sales share a partition.
	if err := s.publisher.PublishEvent(ctx, events.TopicSaleCreated, sale.CashierID.String(), event); err != nil {
		slog.Error("failed to publish sale event", "invoice", sale.InvoiceNumber, "error", err)
	}
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Sale, error) {
	return s.repo.GetSale(ctx, ownerID, id)
}

// List returns one page of sales, newest first.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, params ListParams) (*Page, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}

	limit := params.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		return nil, invalid("end date is before start date")
	}

	sales, total, err := s.repo.ListSales(ctx, ownerID, ListFilter{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}

	return &Page{
		Sales:       sales,
		Total:       total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
	}, nil
}

// Today returns every sale since local midnight with the day's revenue.
func (s *Service) Today(ctx context.Context, ownerID uuid.UUID) (*TodaySummary, error) {
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)

	sales, _, err := s.repo.ListSales(ctx, ownerID, ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("listing today's sales: %w", err)
	}

	summary := &TodaySummary{Sales: sales, Total: decimal.Zero, Count: len(sales)}
	for _, sale := range sales {
		summary.Total = summary.Total.Add(sale.Total)
	}

	return summary, nil
}

func validateCheckout(params *CheckoutParams) error {
	if len(params.Items) == 0 {
		return ErrEmptyCart
	}

	for _, item := range params.Items {
		if item.Quantity < 1 {
			return invalid("quantity must be at least 1")
		}
	}

	if params.PaymentMethod == "" {
		params.PaymentMethod = PaymentCash
	}

	if !params.PaymentMethod.Valid() {
		return invalid("unknown payment method %q", params.PaymentMethod)
	}

	if params.TaxRate.IsNegative() || params.TaxRate.GreaterThan(hundred) {
		return invalid("tax rate must be between 0 and 100")
	}

	if params.AmountPaid != nil && params.AmountPaid.IsNegative() {
		return invalid("amount paid must not be negative")
	}

	return nil
}

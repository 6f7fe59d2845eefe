package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	productstore "github.com/evans-droid/voice-recognition-shop-management-system/internal/product/store"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
)

const invoiceCounter = "sale_invoice"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectSaleColumns = `
	id, invoice_number, cashier_id, subtotal, tax_rate, tax, total,
	payment_method, amount_paid, change, created_at
`

func scanSale(s scanner) (*sale.Sale, error) {
	var sl sale.Sale

	if err := s.Scan(
		&sl.ID, &sl.InvoiceNumber, &sl.CashierID, &sl.Subtotal, &sl.TaxRate, &sl.Tax, &sl.Total,
		&sl.PaymentMethod, &sl.AmountPaid, &sl.Change, &sl.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &sl, nil
}

func (s *Store) BeginCheckout(ctx context.Context) (sale.CheckoutTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning checkout tx: %w", err)
	}

	return &checkoutTx{tx: dbTx}, nil
}

type checkoutTx struct {
	tx *sql.Tx
}

func (c *checkoutTx) Commit() error   { return c.tx.Commit() }
func (c *checkoutTx) Rollback() error { return c.tx.Rollback() }

// DecrementStock relies on the row lock taken by the conditional UPDATE: a
// concurrent checkout of the same product waits for this transaction and then
// re-evaluates the stock condition.
func (c *checkoutTx) DecrementStock(ctx context.Context, ownerID, productID uuid.UUID, qty int) (*product.Product, error) {
	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3 AND stock >= $1
		RETURNING ` + productstore.Columns()

	p, err := productstore.ScanProduct(c.tx.QueryRowContext(ctx, query, qty, productID, ownerID))
	if err == nil {
		// Report the stock the line was sold from.
		p.Stock += qty
		return p, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("decrementing stock: %w", err)
	}

	var (
		name  string
		stock int
	)

	err = c.tx.QueryRowContext(ctx,
		`SELECT name, stock FROM products WHERE id = $1 AND owner_id = $2`,
		productID, ownerID,
	).Scan(&name, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &sale.ProductNotFoundError{ProductID: productID}
		}

		return nil, fmt.Errorf("checking stock: %w", err)
	}

	return nil, &product.InsufficientStockError{ProductName: name, Available: stock, Requested: qty}
}

func (c *checkoutTx) NextInvoiceSequence(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`

	var seq int64
	if err := c.tx.QueryRowContext(ctx, query, invoiceCounter).Scan(&seq); err != nil {
		return 0, fmt.Errorf("incrementing invoice counter: %w", err)
	}

	return seq, nil
}

func (c *checkoutTx) CreateSale(ctx context.Context, sl *sale.Sale) error {
	query := `
		INSERT INTO sales (invoice_number, cashier_id, subtotal, tax_rate, tax, total, payment_method, amount_paid, change, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := c.tx.QueryRowContext(ctx, query,
		sl.InvoiceNumber,
		sl.CashierID,
		sl.Subtotal,
		sl.TaxRate,
		sl.Tax,
		sl.Total,
		sl.PaymentMethod,
		sl.AmountPaid,
		sl.Change,
		sl.CreatedAt,
	).Scan(&sl.ID)
	if err != nil {
		return fmt.Errorf("creating sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (sale_id, position, product_id, product_name, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i, it := range sl.Items {
		if _, err := c.tx.ExecContext(ctx, itemQuery,
			sl.ID, i, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.LineTotal,
		); err != nil {
			return fmt.Errorf("creating sale item: %w", err)
		}
	}

	return nil
}

func (s *Store) GetSale(ctx context.Context, cashierID, id uuid.UUID) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + `
		FROM sales
		WHERE id = $1 AND cashier_id = $2`

	sl, err := scanSale(s.db.QueryRowContext(ctx, query, id, cashierID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	if err := s.loadItems(ctx, []*sale.Sale{sl}); err != nil {
		return nil, err
	}

	return sl, nil
}

func (s *Store) ListSales(ctx context.Context, cashierID uuid.UUID, filter sale.ListFilter) ([]*sale.Sale, int, error) {
	where := []string{"cashier_id = $1"}
	args := []any{cashierID}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting sales: %w", err)
	}

	query := `SELECT ` + selectSaleColumns + `
		FROM sales
		WHERE ` + cond + `
		ORDER BY created_at DESC, invoice_number DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale

	for rows.Next() {
		sl, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating sale rows: %w", err)
	}

	if err := s.loadItems(ctx, sales); err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

// loadItems fills Items for every sale with a single query.
func (s *Store) loadItems(ctx context.Context, sales []*sale.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	ids := make([]string, len(sales))
	byID := make(map[uuid.UUID]*sale.Sale, len(sales))

	for i, sl := range sales {
		ids[i] = sl.ID.String()
		byID[sl.ID] = sl
	}

	query := `
		SELECT sale_id, product_id, product_name, quantity, unit_price, line_total
		FROM sale_items
		WHERE sale_id = ANY($1::uuid[])
		ORDER BY sale_id, position
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("loading sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			saleID uuid.UUID
			it     sale.LineItem
		)

		if err := rows.Scan(&saleID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return fmt.Errorf("scanning sale item: %w", err)
		}

		if sl, ok := byID[saleID]; ok {
			sl.Items = append(sl.Items, it)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating sale item rows: %w", err)
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/database"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
)

const (
	nameIndex    = "products_owner_name_key"
	barcodeIndex = "products_owner_barcode_key"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectProductColumns = `
	id, owner_id, name, price, stock, category, barcode, low_stock_threshold, created_at, updated_at
`

// ScanProduct reads a row selected with the product column list.
func ScanProduct(s scanner) (*product.Product, error) {
	var p product.Product

	var barcode sql.NullString

	if err := s.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Price, &p.Stock, &p.Category, &barcode,
		&p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if barcode.Valid {
		p.Barcode = &barcode.String
	}

	return &p, nil
}

// Columns is the select list ScanProduct expects.
func Columns() string {
	return selectProductColumns
}

func (s *Store) CreateProduct(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (owner_id, name, price, stock, category, barcode, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.OwnerID,
		p.Name,
		p.Price,
		p.Stock,
		p.Category,
		p.Barcode,
		p.LowStockThreshold,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError("creating product", err)
	}

	return nil
}

func (s *Store) GetProduct(ctx context.Context, ownerID, id uuid.UUID) (*product.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE id = $1 AND owner_id = $2`

	p, err := ScanProduct(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}

func (s *Store) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*product.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE owner_id = $1 AND lower(name) = lower($2)`

	p, err := ScanProduct(s.db.QueryRowContext(ctx, query, ownerID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("finding product by name: %w", err)
	}

	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET name = $1, price = $2, stock = $3, category = $4, barcode = $5, low_stock_threshold = $6, updated_at = NOW()
		WHERE id = $7 AND owner_id = $8
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.Name,
		p.Price,
		p.Stock,
		p.Category,
		p.Barcode,
		p.LowStockThreshold,
		p.ID,
		p.OwnerID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.ErrNotFound
		}

		return mapWriteError("updating product", err)
	}

	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if n == 0 {
		return product.ErrNotFound
	}

	return nil
}

func (s *Store) ListProducts(ctx context.Context, ownerID uuid.UUID) ([]*product.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE owner_id = $1
		ORDER BY name ASC`

	return s.list(ctx, "listing products", query, ownerID)
}

func (s *Store) SearchProducts(ctx context.Context, ownerID uuid.UUID, q string, limit int) ([]*product.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE owner_id = $1 AND name ILIKE '%' || $2 || '%' ESCAPE '\'
		ORDER BY name ASC, id ASC
		LIMIT $3`

	return s.list(ctx, "searching products", query, ownerID, escapeLike(q), limit)
}

func (s *Store) ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]*product.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products
		WHERE owner_id = $1 AND stock <= low_stock_threshold
		ORDER BY stock ASC, name ASC`

	return s.list(ctx, "listing low stock products", query, ownerID)
}

func (s *Store) list(ctx context.Context, op, query string, args ...any) ([]*product.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []*product.Product

	for rows.Next() {
		p, err := ScanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, nil
}

func mapWriteError(op string, err error) error {
	switch {
	case database.IsUniqueViolation(err, nameIndex):
		return product.ErrDuplicateName
	case database.IsUniqueViolation(err, barcodeIndex):
		return product.ErrDuplicateBarcode
	}

	return fmt.Errorf("%s: %w", op, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=product
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, ownerID, id uuid.UUID) (*Product, error)
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error

	ListProducts(ctx context.Context, ownerID uuid.UUID) ([]*Product, error)
	SearchProducts(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]*Product, error)
	ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]*Product, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name              string
	Price             decimal.Decimal
	Stock             int
	Category          string
	Barcode           *string
	LowStockThreshold *int
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Name              *string
	Price             *decimal.Decimal
	Stock             *int
	Category          *string
	Barcode           *string
	LowStockThreshold *int
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*Product, error) {
	p := &Product{
		OwnerID:           ownerID,
		Name:              normalizeName(params.Name),
		Price:             params.Price,
		Stock:             params.Stock,
		Category:          strings.TrimSpace(params.Category),
		Barcode:           normalizeBarcode(params.Barcode),
		LowStockThreshold: DefaultLowStockThreshold,
	}

	if params.LowStockThreshold != nil {
		p.LowStockThreshold = *params.LowStockThreshold
	}

	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, ownerID, p.Name, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, params UpdateParams) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := normalizeName(*params.Name)
		if name != p.Name {
			if err := s.ensureNameFree(ctx, ownerID, name, p.ID); err != nil {
				return nil, err
			}
		}

		p.Name = name
	}

	if params.Price != nil {
		p.Price = *params.Price
	}

	if params.Stock != nil {
		p.Stock = *params.Stock
	}

	if params.Category != nil {
		p.Category = strings.TrimSpace(*params.Category)
	}

	if params.Barcode != nil {
		p.Barcode = normalizeBarcode(params.Barcode)
	}

	if params.LowStockThreshold != nil {
		p.LowStockThreshold = *params.LowStockThreshold
	}

	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, ownerID, id)
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, ownerID, id)
}

// List returns every product of the owner ordered by name.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Product, error) {
	return s.repo.ListProducts(ctx, ownerID)
}

// Search matches query as a case-insensitive substring of product names.
func (s *Service) Search(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]*Product, error) {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	return s.repo.SearchProducts(ctx, ownerID, strings.ToLower(strings.TrimSpace(query)), limit)
}

// ListLowStock returns products at or below their threshold, lowest stock first.
func (s *Service) ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]*Product, error) {
	return s.repo.ListLowStock(ctx, ownerID)
}

func (s *Service) ensureNameFree(ctx context.Context, ownerID uuid.UUID, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, ownerID, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}

		return fmt.Errorf("checking product name: %w", err)
	}

	if existing.ID == self {
		return nil
	}

	return ErrDuplicateName
}

func validate(p *Product) error {
	if p.Name == "" {
		return invalid("name is required")
	}

	if p.Price.IsNegative() {
		return invalid("price must not be negative")
	}

	if p.Stock < 0 {
		return invalid("stock must not be negative")
	}

	if p.LowStockThreshold < 0 {
		return invalid("low stock threshold must not be negative")
	}

	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func normalizeBarcode(barcode *string) *string {
	if barcode == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*barcode)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

package voice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
)

var (
	ErrEmptyCommand    = errors.New("no product named in command")
	ErrProductNotFound = errors.New("product not found")
)

const searchLimit = 10

//go:generate mockgen -source=resolver.go -destination=catalog_mock.go -package=voice
type Catalog interface {
	Search(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]*product.Product, error)
}

type Resolver struct {
	catalog Catalog
}

func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

type Match struct {
	Command Command
	Product *product.Product
}

// Resolve parses utterance and picks the best catalog match. It only reads
// stock; adding the product to a cart is up to the caller.
func (r *Resolver) Resolve(ctx context.Context, ownerID uuid.UUID, utterance string) (*Match, error) {
	cmd := Parse(utterance)
	if cmd.ProductQuery == "" {
		return nil, ErrEmptyCommand
	}

	candidates, err := r.catalog.Search(ctx, ownerID, cmd.ProductQuery, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, cmd.ProductQuery)
	}

	p := best(cmd.ProductQuery, candidates)

	if p.Stock < cmd.Quantity {
		return nil, &product.InsufficientStockError{ProductName: p.Name, Available: p.Stock, Requested: cmd.Quantity}
	}

	return &Match{Command: cmd, Product: p}, nil
}

type names []*product.Product

func (n names) String(i int) string { return n[i].Name }
func (n names) Len() int            { return len(n) }

// best ranks the substring hits so that "milk" prefers "milk" over
// "chocolate milk powder". Ties keep catalog order.
func best(query string, candidates []*product.Product) *product.Product {
	matches := fuzzy.FindFrom(query, names(candidates))
	if len(matches) == 0 {
		return candidates[0]
	}

	return candidates[matches[0].Index]
}

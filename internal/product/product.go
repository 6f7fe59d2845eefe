package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when a product is created without a threshold.
const DefaultLowStockThreshold = 5

// MaxSearchResults caps name searches.
const MaxSearchResults = 10

// Product is a catalog entry owned by a single operator.
type Product struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Name              string // Always lower case
	Price             decimal.Decimal
	Stock             int
	Category          string
	Barcode           *string
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock reports whether stock has reached the product's threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

func (p *Product) IsOutOfStock() bool {
	return p.Stock == 0
}

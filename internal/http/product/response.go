package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
)

// Response is the JSON form of a catalog entry. The voice handler reuses it.
type Response struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	Stock             int       `json:"stock"`
	Category          string    `json:"category"`
	Barcode           *string   `json:"barcode,omitempty"`
	LowStockThreshold int       `json:"lowStockThreshold"`
	IsLowStock        bool      `json:"isLowStock"`
	IsOutOfStock      bool      `json:"isOutOfStock"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func ToResponse(p *product.Product) Response {
	return Response{
		ID:                p.ID,
		Name:              p.Name,
		Price:             p.Price.InexactFloat64(),
		Stock:             p.Stock,
		Category:          p.Category,
		Barcode:           p.Barcode,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        p.IsLowStock(),
		IsOutOfStock:      p.IsOutOfStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toResponseList(products []*product.Product) []Response {
	resp := make([]Response, len(products))
	for i, p := range products {
		resp[i] = ToResponse(p)
	}

	return resp
}

type importResponse struct {
	Imported int                `json:"imported"`
	Created  []Response         `json:"created"`
	Skipped  []product.RowError `json:"skipped"`
}

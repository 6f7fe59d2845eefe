package sale

import (
	"time"

	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
)

type lineItemResponse struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	LineTotal   float64   `json:"lineTotal"`
}

type saleResponse struct {
	ID            uuid.UUID          `json:"id"`
	InvoiceNumber string             `json:"invoiceNumber"`
	CashierID     uuid.UUID          `json:"cashierId"`
	Items         []lineItemResponse `json:"items"`
	Subtotal      float64            `json:"subtotal"`
	TaxRate       float64            `json:"taxRate"`
	Tax           float64            `json:"tax"`
	Total         float64            `json:"total"`
	PaymentMethod sale.PaymentMethod `json:"paymentMethod"`
	AmountPaid    float64            `json:"amountPaid"`
	Change        float64            `json:"change"`
	CreatedAt     time.Time          `json:"createdAt"`
}

type paginationResponse struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

type listResponse struct {
	Sales      []saleResponse     `json:"sales"`
	Pagination paginationResponse `json:"pagination"`
}

type todayResponse struct {
	Sales []saleResponse `json:"sales"`
	Total float64        `json:"total"`
	Count int            `json:"count"`
}

func toResponse(s *sale.Sale) saleResponse {
	items := make([]lineItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = lineItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			LineTotal:   it.LineTotal.InexactFloat64(),
		}
	}

	return saleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CashierID:     s.CashierID,
		Items:         items,
		Subtotal:      s.Subtotal.InexactFloat64(),
		TaxRate:       s.TaxRate.InexactFloat64(),
		Tax:           s.Tax.InexactFloat64(),
		Total:         s.Total.InexactFloat64(),
		PaymentMethod: s.PaymentMethod,
		AmountPaid:    s.AmountPaid.InexactFloat64(),
		Change:        s.Change.InexactFloat64(),
		CreatedAt:     s.CreatedAt,
	}
}

func toResponseList(sales []*sale.Sale) []saleResponse {
	resp := make([]saleResponse, len(sales))
	for i, s := range sales {
		resp[i] = toResponse(s)
	}

	return resp
}

// Package cart holds the in-memory basket a cashier builds before checkout.
package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNotInCart       = errors.New("product is not in the cart")
)

type Line struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
	available int
}

// Cart is not safe for concurrent use.
type Cart struct {
	lines []*Line
	index map[uuid.UUID]*Line
}

func New() *Cart {
	return &Cart{index: make(map[uuid.UUID]*Line)}
}

// Add puts qty units of p in the cart, merging with an existing line. The
// stock check is advisory; checkout re-validates against live stock.
func (c *Cart) Add(p *product.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	line, ok := c.index[p.ID]

	want := qty
	if ok {
		want += line.Quantity
	}

	if want > p.Stock {
		return &product.InsufficientStockError{ProductName: p.Name, Available: p.Stock, Requested: want}
	}

	if !ok {
		line = &Line{ProductID: p.ID}
		c.lines = append(c.lines, line)
		c.index[p.ID] = line
	}

	line.Name = p.Name
	line.UnitPrice = p.Price
	line.available = p.Stock
	line.Quantity = want
	line.recompute()

	return nil
}

// SetQuantity replaces a line's quantity. A quantity below 1 removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	line, ok := c.index[productID]
	if !ok {
		return ErrNotInCart
	}

	if qty < 1 {
		c.Remove(productID)
		return nil
	}

	if qty > line.available {
		return &product.InsufficientStockError{ProductName: line.Name, Available: line.available, Requested: qty}
	}

	line.Quantity = qty
	line.recompute()

	return nil
}

func (c *Cart) Remove(productID uuid.UUID) {
	if _, ok := c.index[productID]; !ok {
		return
	}

	delete(c.index, productID)

	for i, line := range c.lines {
		if line.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[uuid.UUID]*Line)
}

// Lines returns copies of the lines in the order they were first added.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, line := range c.lines {
		out[i] = *line
	}

	return out
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.lines {
		sum = sum.Add(line.LineTotal)
	}

	return sum
}

// Tax applies a percentage rate to the subtotal without rounding.
func (c *Cart) Tax(rate decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Mul(rate).Shift(-2)
}

func (c *Cart) Total(rate decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Add(c.Tax(rate))
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}

	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) CheckoutItems() []sale.ItemRequest {
	items := make([]sale.ItemRequest, len(c.lines))
	for i, line := range c.lines {
		items[i] = sale.ItemRequest{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	return items
}

func (l *Line) recompute() {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

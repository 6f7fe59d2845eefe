package cart_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/cart"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
)

func newProduct(name, price string, stock int) *product.Product {
	return &product.Product{ID: uuid.New(), Name: name, Price: decimal.RequireFromString(price), Stock: stock}
}

func TestCart_AddMergesAndTotals(t *testing.T) {
	milk := newProduct("milk", "10.00", 5)
	bread := newProduct("bread", "4.50", 10)

	c := cart.New()
	require.NoError(t, c.Add(milk, 2))
	require.NoError(t, c.Add(bread, 1))
	require.NoError(t, c.Add(milk, 1))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "milk", lines[0].Name)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("30").Equal(lines[0].LineTotal))
	assert.Equal(t, "bread", lines[1].Name)

	assert.Equal(t, 4, c.ItemCount())
	assert.True(t, decimal.RequireFromString("34.50").Equal(c.Subtotal()))
	assert.True(t, decimal.RequireFromString("3.45").Equal(c.Tax(decimal.NewFromInt(10))))
	assert.True(t, decimal.RequireFromString("37.95").Equal(c.Total(decimal.NewFromInt(10))))
	assert.True(t, c.Subtotal().Equal(c.Total(decimal.Zero)))
}

func TestCart_AddBeyondStock(t *testing.T) {
	milk := newProduct("milk", "10.00", 5)

	c := cart.New()
	require.NoError(t, c.Add(milk, 4))

	err := c.Add(milk, 2)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)

	var stockErr *product.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)

	assert.Equal(t, 4, c.ItemCount())
}

func TestCart_AddInvalidQuantity(t *testing.T) {
	c := cart.New()
	assert.ErrorIs(t, c.Add(newProduct("milk", "1", 5), 0), cart.ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestCart_SetQuantity(t *testing.T) {
	milk := newProduct("milk", "10.00", 5)
	bread := newProduct("bread", "4.50", 10)

	c := cart.New()
	require.NoError(t, c.Add(milk, 1))
	require.NoError(t, c.Add(bread, 1))

	require.NoError(t, c.SetQuantity(milk.ID, 3))
	assert.Equal(t, 3, c.Lines()[0].Quantity)

	assert.ErrorIs(t, c.SetQuantity(milk.ID, 6), product.ErrInsufficientStock)

	require.NoError(t, c.SetQuantity(milk.ID, 0))
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "bread", c.Lines()[0].Name)

	assert.ErrorIs(t, c.SetQuantity(uuid.New(), 1), cart.ErrNotInCart)
}

func TestCart_RemoveAndClear(t *testing.T) {
	milk := newProduct("milk", "10.00", 5)
	bread := newProduct("bread", "4.50", 10)

	c := cart.New()
	require.NoError(t, c.Add(milk, 1))
	require.NoError(t, c.Add(bread, 2))

	c.Remove(milk.ID)
	c.Remove(uuid.New())
	assert.Equal(t, 2, c.ItemCount())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())

	require.NoError(t, c.Add(milk, 1))
	assert.Len(t, c.Lines(), 1)
}

func TestCart_CheckoutItems(t *testing.T) {
	milk := newProduct("milk", "10.00", 5)
	bread := newProduct("bread", "4.50", 10)

	c := cart.New()
	require.NoError(t, c.Add(bread, 2))
	require.NoError(t, c.Add(milk, 3))

	assert.Equal(t, []sale.ItemRequest{
		{ProductID: bread.ID, Quantity: 2},
		{ProductID: milk.ID, Quantity: 3},
	}, c.CheckoutItems())
}

func TestCart_TaxIsExact(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(newProduct("milk", "10.00", 5), 1))

	rate := decimal.RequireFromString("12.3456789012345678901")

	assert.True(t, decimal.RequireFromString("1.23456789012345678901").Equal(c.Tax(rate)))
	assert.True(t, c.Subtotal().Mul(rate).Equal(c.Tax(rate).Mul(decimal.NewFromInt(100))))
}

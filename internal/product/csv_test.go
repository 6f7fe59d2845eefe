package product_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
)

func TestParseCSV(t *testing.T) {
	sheet := strings.Join([]string{
		"Catalog export",
		"",
		"Name,Price,Stock,Category,Barcode,Low Stock Threshold",
		"Milk,10.00,5,dairy,4006381333931,3",
		"Bread,4.5,,bakery,,",
		",1.00,1,,,",
	}, "\n")

	rows, rowErrs, err := product.ParseCSV(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	milk := rows[0].Params
	assert.Equal(t, "Milk", milk.Name)
	assert.True(t, decimal.RequireFromString("10").Equal(milk.Price))
	assert.Equal(t, 5, milk.Stock)
	assert.Equal(t, "dairy", milk.Category)
	require.NotNil(t, milk.Barcode)
	assert.Equal(t, "4006381333931", *milk.Barcode)
	require.NotNil(t, milk.LowStockThreshold)
	assert.Equal(t, 3, *milk.LowStockThreshold)

	bread := rows[1].Params
	assert.Equal(t, 0, bread.Stock)
	assert.Nil(t, bread.Barcode)
	assert.Nil(t, bread.LowStockThreshold)

	require.Len(t, rowErrs, 1)
	assert.Contains(t, rowErrs[0].Reason, "name")
}

func TestParseCSV_SemicolonDecimalComma(t *testing.T) {
	sheet := "name;price;stock\nRice 5kg;1.234,56;2\nSugar;12,5;7\n"

	rows, rowErrs, err := product.ParseCSV(strings.NewReader(sheet))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	assert.True(t, decimal.RequireFromString("1234.56").Equal(rows[0].Params.Price))
	assert.True(t, decimal.RequireFromString("12.5").Equal(rows[1].Params.Price))
	assert.Equal(t, 7, rows[1].Params.Stock)
}

func TestParseCSV_RowErrors(t *testing.T) {
	sheet := "name,price,stock\nmilk,ten,1\nbread,2,many\n"

	rows, rowErrs, err := product.ParseCSV(strings.NewReader(sheet))
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.Len(t, rowErrs, 2)

	assert.Equal(t, 2, rowErrs[0].Line)
	assert.Equal(t, "milk", rowErrs[0].Name)
	assert.Contains(t, rowErrs[0].Reason, "price")
	assert.Equal(t, 3, rowErrs[1].Line)
	assert.Contains(t, rowErrs[1].Reason, "stock")
}

func TestParseCSV_MissingHeader(t *testing.T) {
	_, _, err := product.ParseCSV(strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err)
}

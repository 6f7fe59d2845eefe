package sale_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	saleHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/sale"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/receipt"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

var (
	issuer  = auth.NewIssuer("test-secret", time.Hour)
	cashier = &user.User{ID: uuid.New(), Username: "kofi", ShopName: "Corner Shop", Role: user.RoleCashier}
	milkID  = uuid.New()
	now     = time.Date(2025, 3, 9, 10, 30, 0, 0, time.UTC)
)

type fixture struct {
	sales *sale.MockRepository
	users *user.MockRepository
	tx    *sale.MockCheckoutTx
	srv   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		sales: sale.NewMockRepository(ctrl),
		users: user.NewMockRepository(ctrl),
		tx:    sale.NewMockCheckoutTx(ctrl),
	}

	svc := sale.NewService(f.sales, sale.WithClock(func() time.Time { return now }))
	h := saleHandler.NewHandler(svc, user.NewService(f.users), receipt.Options{Currency: "GHS"}, decimal.Zero)

	r := chi.NewRouter()
	r.Use(auth.Middleware(issuer))
	r.Route("/sales", h.Routes)
	f.srv = r

	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	token, _, err := issuer.Issue(cashier)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	return rec
}

func milk() *product.Product {
	return &product.Product{ID: milkID, Name: "milk", Price: decimal.NewFromInt(10), Stock: 5, LowStockThreshold: 5}
}

func TestHandler_Checkout(t *testing.T) {
	f := newFixture(t)

	f.sales.EXPECT().BeginCheckout(gomock.Any()).Return(f.tx, nil)
	f.tx.EXPECT().DecrementStock(gomock.Any(), cashier.ID, milkID, 3).Return(milk(), nil)
	f.tx.EXPECT().NextInvoiceSequence(gomock.Any()).Return(int64(1), nil)
	f.tx.EXPECT().CreateSale(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *sale.Sale) error {
		s.ID = uuid.New()
		return nil
	})
	f.tx.EXPECT().Commit().Return(nil)
	f.tx.EXPECT().Rollback().Return(nil)

	body := `{"items":[{"productId":"` + milkID.String() + `","quantity":3}],"paymentMethod":"cash","amountPaid":50}`
	rec := f.do(t, http.MethodPost, "/sales", body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got struct {
		InvoiceNumber string  `json:"invoiceNumber"`
		Subtotal      float64 `json:"subtotal"`
		Total         float64 `json:"total"`
		Change        float64 `json:"change"`
		Items         []struct {
			ProductName string `json:"productName"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, "INV-250309-0001", got.InvoiceNumber)
	assert.InDelta(t, 30.0, got.Subtotal, 0.0001)
	assert.InDelta(t, 30.0, got.Total, 0.0001)
	assert.InDelta(t, 20.0, got.Change, 0.0001)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "milk", got.Items[0].ProductName)
}

func TestHandler_Checkout_Errors(t *testing.T) {
	t.Run("InsufficientStock", func(t *testing.T) {
		f := newFixture(t)

		f.sales.EXPECT().BeginCheckout(gomock.Any()).Return(f.tx, nil)
		f.tx.EXPECT().DecrementStock(gomock.Any(), cashier.ID, milkID, 3).
			Return(nil, &product.InsufficientStockError{ProductName: "milk", Available: 2, Requested: 3})
		f.tx.EXPECT().Rollback().Return(nil)

		rec := f.do(t, http.MethodPost, "/sales", `{"items":[{"productId":"`+milkID.String()+`","quantity":3}]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient stock for milk")
	})

	t.Run("EmptyCart", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/sales", `{"items":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"cart is empty"}`, rec.Body.String())
	})

	t.Run("UnknownPaymentMethod", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/sales", `{"items":[{"productId":"`+milkID.String()+`","quantity":1}],"paymentMethod":"cheque"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_List(t *testing.T) {
	f := newFixture(t)

	wantStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 3, 9, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	f.sales.EXPECT().ListSales(gomock.Any(), cashier.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, filter sale.ListFilter) ([]*sale.Sale, int, error) {
			require.NotNil(t, filter.StartDate)
			require.NotNil(t, filter.EndDate)
			assert.True(t, wantStart.Equal(*filter.StartDate))
			assert.True(t, wantEnd.Equal(*filter.EndDate))
			assert.Equal(t, 10, filter.Limit)
			assert.Equal(t, 10, filter.Offset)

			return []*sale.Sale{{ID: uuid.New(), InvoiceNumber: "INV-250309-0001", Total: decimal.NewFromInt(30)}}, 11, nil
		})

	rec := f.do(t, http.MethodGet, "/sales?startDate=2025-03-01&endDate=2025-03-09&page=2&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Sales      []json.RawMessage `json:"sales"`
		Pagination struct {
			Total       int `json:"total"`
			TotalPages  int `json:"totalPages"`
			CurrentPage int `json:"currentPage"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Len(t, got.Sales, 1)
	assert.Equal(t, 11, got.Pagination.Total)
	assert.Equal(t, 2, got.Pagination.TotalPages)
	assert.Equal(t, 2, got.Pagination.CurrentPage)
}

func TestHandler_List_BadDate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/sales?startDate=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Receipt(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	stored := &sale.Sale{
		ID:            id,
		InvoiceNumber: "INV-250309-0001",
		CashierID:     cashier.ID,
		Items: []sale.LineItem{
			{ProductID: milkID, ProductName: "milk", Quantity: 3, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(30)},
		},
		Subtotal:      decimal.NewFromInt(30),
		Total:         decimal.NewFromInt(30),
		AmountPaid:    decimal.NewFromInt(30),
		PaymentMethod: sale.PaymentCash,
		CreatedAt:     now,
	}

	f.sales.EXPECT().GetSale(gomock.Any(), cashier.ID, id).Return(stored, nil)
	f.users.EXPECT().GetUser(gomock.Any(), cashier.ID).Return(cashier, nil)

	rec := f.do(t, http.MethodGet, "/sales/"+id.String()+"/receipt", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "CORNER SHOP")
	assert.Contains(t, rec.Body.String(), "INV-250309-0001")
	assert.Contains(t, rec.Body.String(), "Cashier: kofi")
}

func TestHandler_GetNotFound(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	f.sales.EXPECT().GetSale(gomock.Any(), cashier.ID, id).Return(nil, sale.ErrNotFound)

	rec := f.do(t, http.MethodGet, "/sales/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

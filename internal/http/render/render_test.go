package render_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/http/render"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

func TestServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "InsufficientStock", err: &product.InsufficientStockError{ProductName: "milk", Available: 2, Requested: 3}, wantStatus: http.StatusBadRequest},
		{name: "EmptyCart", err: sale.ErrEmptyCart, wantStatus: http.StatusBadRequest},
		{name: "InvalidPeriod", err: fmt.Errorf("%w: %q", dashboard.ErrInvalidPeriod, "decade"), wantStatus: http.StatusBadRequest},
		{name: "ProductNotFound", err: &sale.ProductNotFoundError{ProductID: uuid.New()}, wantStatus: http.StatusNotFound},
		{name: "SaleNotFound", err: sale.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "DuplicateName", err: product.ErrDuplicateName, wantStatus: http.StatusConflict},
		{name: "UsernameTaken", err: user.ErrUsernameTaken, wantStatus: http.StatusConflict},
		{name: "BadCredentials", err: user.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "Unknown", err: errors.New("pq: connection reset"), wantStatus: http.StatusInternalServerError, wantMsg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			render.ServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			want := tt.wantMsg
			if want == "" {
				want = tt.err.Error()
			}

			assert.Equal(t, want, body["error"])
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type request struct {
		Name     string `json:"name" validate:"required"`
		Quantity int    `json:"quantity" validate:"min=1"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "Valid", body: `{"name":"milk","quantity":2}`},
		{name: "Malformed", body: `{"name":`, wantErr: "invalid request body"},
		{name: "MissingName", body: `{"quantity":2}`, wantErr: "Name is required"},
		{name: "ZeroQuantity", body: `{"name":"milk","quantity":0}`, wantErr: "Quantity must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst request
			err := render.DecodeJSON(req, &dst)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "milk", dst.Name)
		})
	}
}

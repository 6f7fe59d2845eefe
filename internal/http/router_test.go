package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	posHttp "github.com/evans-droid/voice-recognition-shop-management-system/internal/http"
	authHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/auth"
	dashboardHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/dashboard"
	productHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/product"
	saleHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/sale"
	voiceHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/voice"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/receipt"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func newRouter(db posHttp.Pinger) http.Handler {
	issuer := auth.NewIssuer("test-secret", time.Hour)

	return posHttp.New(posHttp.Handlers{
		Auth:      authHandler.NewHandler(nil, issuer),
		Products:  productHandler.NewHandler(nil),
		Sales:     saleHandler.NewHandler(nil, nil, receipt.Options{}, decimal.Zero),
		Dashboard: dashboardHandler.NewHandler(nil),
		Voice:     voiceHandler.NewHandler(nil),
	}, posHttp.Options{
		Issuer:         issuer,
		DB:             db,
		Timeout:        time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(pinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newRouter(pinger{err: errors.New("down")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	for _, path := range []string{
		"/api/v1/products",
		"/api/v1/sales/today",
		"/api/v1/dashboard/stats",
	} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(pinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	newRouter(pinger{}).ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

package dashboard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
	dashboardHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/dashboard"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

var (
	issuer = auth.NewIssuer("test-secret", time.Hour)
	owner  = &user.User{ID: uuid.New(), Role: user.RoleAdmin}
)

func serve(t *testing.T, repo dashboard.Repository, target string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Use(auth.Middleware(issuer))
	r.Route("/dashboard", dashboardHandler.NewHandler(dashboard.NewService(repo)).Routes)

	token, _, err := issuer.Issue(owner)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := dashboard.NewMockRepository(ctrl)
	repo.EXPECT().SalesTotals(gomock.Any(), owner.ID, gomock.Any(), gomock.Any()).
		Return(dashboard.Totals{Revenue: decimal.RequireFromString("30.50"), Transactions: 2}, nil).Times(3)
	repo.EXPECT().StockSummary(gomock.Any(), owner.ID).
		Return(dashboard.StockSummary{Total: 10, LowStock: 2, OutOfStock: 1}, nil)

	rec := serve(t, repo, "/dashboard/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Today struct {
			Revenue      float64 `json:"revenue"`
			Transactions int     `json:"transactions"`
		} `json:"today"`
		Products dashboard.StockSummary `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.InDelta(t, 30.5, got.Today.Revenue, 0.0001)
	assert.Equal(t, 2, got.Today.Transactions)
	assert.Equal(t, dashboard.StockSummary{Total: 10, LowStock: 2, OutOfStock: 1}, got.Products)
}

func TestHandler_ChartData(t *testing.T) {
	t.Run("DefaultsToWeek", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := dashboard.NewMockRepository(ctrl)
		repo.EXPECT().SalesBuckets(gomock.Any(), owner.ID, gomock.Any(), dashboard.ByDay, "UTC").Return(nil, nil)

		rec := serve(t, repo, "/dashboard/chart-data")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("Year", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := dashboard.NewMockRepository(ctrl)
		repo.EXPECT().SalesBuckets(gomock.Any(), owner.ID, gomock.Any(), dashboard.ByMonth, "UTC").
			Return([]dashboard.Bucket{{Key: "2025-03", Revenue: decimal.NewFromInt(90), Transactions: 4}}, nil)

		rec := serve(t, repo, "/dashboard/chart-data?period=year")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"key":"2025-03","revenue":90,"transactions":4}]`, rec.Body.String())
	})

	t.Run("UnknownPeriod", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		rec := serve(t, dashboard.NewMockRepository(ctrl), "/dashboard/chart-data?period=decade")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

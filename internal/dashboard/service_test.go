package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
)

var (
	ownerID = uuid.MustParse("c4f1f8a2-8a4b-4e0e-a7f3-2b9a9c0d1e22")
	now     = time.Date(2025, 3, 19, 15, 4, 5, 0, time.UTC)
)

func clock() time.Time { return now }

func TestService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := dashboard.NewMockRepository(ctrl)

	dayStart := time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2025, 3, 19, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	weekStart := time.Date(2025, 3, 12, 15, 4, 5, 0, time.UTC)
	monthStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().SalesTotals(gomock.Any(), ownerID, dayStart, dayEnd).
		Return(dashboard.Totals{Revenue: decimal.NewFromInt(30), Transactions: 1}, nil)
	repo.EXPECT().SalesTotals(gomock.Any(), ownerID, weekStart, now).
		Return(dashboard.Totals{Revenue: decimal.NewFromInt(120), Transactions: 5}, nil)
	repo.EXPECT().SalesTotals(gomock.Any(), ownerID, monthStart, now).
		Return(dashboard.Totals{Revenue: decimal.NewFromInt(300), Transactions: 11}, nil)
	repo.EXPECT().StockSummary(gomock.Any(), ownerID).
		Return(dashboard.StockSummary{Total: 10, LowStock: 2, OutOfStock: 1}, nil)

	svc := dashboard.NewService(repo, dashboard.WithClock(clock))

	got, err := svc.Stats(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Today.Transactions)
	assert.True(t, decimal.NewFromInt(30).Equal(got.Today.Revenue))
	assert.Equal(t, 5, got.Weekly.Transactions)
	assert.Equal(t, 11, got.Monthly.Transactions)
	assert.Equal(t, dashboard.StockSummary{Total: 10, LowStock: 2, OutOfStock: 1}, got.Products)
}

func TestService_Stats_CacheHitKeepsStockLive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := dashboard.NewMockRepository(ctrl)
	cache := dashboard.NewMockCache(ctrl)

	cached, err := json.Marshal(map[string]dashboard.Totals{
		"today":   {Revenue: decimal.NewFromInt(7), Transactions: 1},
		"weekly":  {Revenue: decimal.NewFromInt(8), Transactions: 2},
		"monthly": {Revenue: decimal.NewFromInt(9), Transactions: 3},
	})
	require.NoError(t, err)

	cache.EXPECT().Get(gomock.Any(), ownerID, "revenue:2025-03-19").Return(cached, true, nil)
	repo.EXPECT().StockSummary(gomock.Any(), ownerID).
		Return(dashboard.StockSummary{Total: 4}, nil)

	svc := dashboard.NewService(repo, dashboard.WithClock(clock), dashboard.WithCache(cache))

	got, err := svc.Stats(context.Background(), ownerID)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(8).Equal(got.Weekly.Revenue))
	assert.Equal(t, 3, got.Monthly.Transactions)
	assert.Equal(t, 4, got.Products.Total)
}

func TestService_Stats_CacheErrorFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := dashboard.NewMockRepository(ctrl)
	cache := dashboard.NewMockCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), ownerID, "revenue:2025-03-19").Return(nil, false, errors.New("connection refused"))
	repo.EXPECT().SalesTotals(gomock.Any(), ownerID, gomock.Any(), gomock.Any()).
		Return(dashboard.Totals{}, nil).Times(3)
	cache.EXPECT().Set(gomock.Any(), ownerID, "revenue:2025-03-19", gomock.Any()).Return(errors.New("connection refused"))
	repo.EXPECT().StockSummary(gomock.Any(), ownerID).Return(dashboard.StockSummary{}, nil)

	svc := dashboard.NewService(repo, dashboard.WithClock(clock), dashboard.WithCache(cache))

	_, err := svc.Stats(context.Background(), ownerID)
	assert.NoError(t, err)
}

func TestService_ChartSeries(t *testing.T) {
	type testCase struct {
		name      string
		period    dashboard.Period
		wantFrom  time.Time
		wantGran  dashboard.Granularity
		setupMock bool
		wantErr   error
	}

	tests := []testCase{
		{
			name:      "Week",
			period:    dashboard.PeriodWeek,
			wantFrom:  time.Date(2025, 3, 12, 15, 4, 5, 0, time.UTC),
			wantGran:  dashboard.ByDay,
			setupMock: true,
		},
		{
			name:      "Month",
			period:    dashboard.PeriodMonth,
			wantFrom:  time.Date(2025, 2, 19, 15, 4, 5, 0, time.UTC),
			wantGran:  dashboard.ByDay,
			setupMock: true,
		},
		{
			name:      "Year",
			period:    dashboard.PeriodYear,
			wantFrom:  time.Date(2024, 3, 19, 15, 4, 5, 0, time.UTC),
			wantGran:  dashboard.ByMonth,
			setupMock: true,
		},
		{
			name:    "Unknown",
			period:  "decade",
			wantErr: dashboard.ErrInvalidPeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := dashboard.NewMockRepository(ctrl)
			if tt.setupMock {
				repo.EXPECT().
					SalesBuckets(gomock.Any(), ownerID, tt.wantFrom, tt.wantGran, "UTC").
					Return([]dashboard.Bucket{
						{Key: "2025-03-18", Revenue: decimal.NewFromInt(10), Transactions: 1},
						{Key: "2025-03-19", Revenue: decimal.NewFromInt(25), Transactions: 2},
					}, nil)
			}

			svc := dashboard.NewService(repo, dashboard.WithClock(clock))
			got, err := svc.ChartSeries(context.Background(), ownerID, tt.period)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Less(t, got[0].Key, got[1].Key)
		})
	}
}

func TestService_Stats_CacheFieldRollsOverAtMidnight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := dashboard.NewMockRepository(ctrl)
	cache := dashboard.NewMockCache(ctrl)

	// 23:30 UTC on the 19th is already the 20th in Nairobi.
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	late := time.Date(2025, 3, 19, 23, 30, 0, 0, time.UTC)

	cache.EXPECT().Get(gomock.Any(), ownerID, "revenue:2025-03-20").Return(nil, false, nil)
	repo.EXPECT().SalesTotals(gomock.Any(), ownerID, gomock.Any(), gomock.Any()).
		Return(dashboard.Totals{}, nil).Times(3)
	cache.EXPECT().Set(gomock.Any(), ownerID, "revenue:2025-03-20", gomock.Any()).Return(nil)
	repo.EXPECT().StockSummary(gomock.Any(), ownerID).Return(dashboard.StockSummary{}, nil)

	svc := dashboard.NewService(repo,
		dashboard.WithClock(func() time.Time { return late }),
		dashboard.WithLocation(nairobi),
		dashboard.WithCache(cache),
	)

	_, err = svc.Stats(context.Background(), ownerID)
	assert.NoError(t, err)
}

func TestService_ChartSeries_CachedPerDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := dashboard.NewMockRepository(ctrl)
	cache := dashboard.NewMockCache(ctrl)

	cached, err := json.Marshal([]dashboard.Bucket{{Key: "2025-03-19", Revenue: decimal.NewFromInt(5), Transactions: 1}})
	require.NoError(t, err)

	cache.EXPECT().Get(gomock.Any(), ownerID, "chart:month:2025-03-19").Return(cached, true, nil)

	svc := dashboard.NewService(repo, dashboard.WithClock(clock), dashboard.WithCache(cache))

	got, err := svc.ChartSeries(context.Background(), ownerID, dashboard.PeriodMonth)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-03-19", got[0].Key)
}

func TestService_ChartSeries_EmptyIsNotNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := dashboard.NewMockRepository(ctrl)
	repo.EXPECT().SalesBuckets(gomock.Any(), ownerID, gomock.Any(), dashboard.ByDay, "UTC").Return(nil, nil)

	svc := dashboard.NewService(repo, dashboard.WithClock(clock))
	got, err := svc.ChartSeries(context.Background(), ownerID, dashboard.PeriodWeek)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := dashboard.NewMockCache(ctrl)
	cache.EXPECT().Invalidate(gomock.Any(), ownerID).Return(nil)

	svc := dashboard.NewService(dashboard.NewMockRepository(ctrl), dashboard.WithCache(cache))
	assert.NoError(t, svc.Invalidate(context.Background(), ownerID))
}

func TestParsePeriod(t *testing.T) {
	p, err := dashboard.ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, dashboard.PeriodWeek, p)

	p, err = dashboard.ParsePeriod("year")
	require.NoError(t, err)
	assert.Equal(t, dashboard.PeriodYear, p)

	_, err = dashboard.ParsePeriod("fortnight")
	assert.ErrorIs(t, err, dashboard.ErrInvalidPeriod)
}

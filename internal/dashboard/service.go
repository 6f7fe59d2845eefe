package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidPeriod = errors.New("invalid period")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=dashboard
type Repository interface {
	// SalesTotals sums sales created in [from, to].
	SalesTotals(ctx context.Context, cashierID uuid.UUID, from, to time.Time) (Totals, error)
	StockSummary(ctx context.Context, ownerID uuid.UUID) (StockSummary, error)
	// SalesBuckets groups sales created at or after from by calendar day or
	// month in the named timezone, ascending by key.
	SalesBuckets(ctx context.Context, cashierID uuid.UUID, from time.Time, g Granularity, tz string) ([]Bucket, error)
}

type Service struct {
	repo  Repository
	cache Cache
	now   func() time.Time
	loc   *time.Location
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		cache: NopCache{},
		now:   time.Now,
		loc:   time.UTC,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ParsePeriod maps a query value to a Period. Empty means week.
func ParsePeriod(v string) (Period, error) {
	switch Period(v) {
	case "":
		return PeriodWeek, nil
	case PeriodWeek, PeriodMonth, PeriodYear:
		return Period(v), nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, v)
}

type revenue struct {
	Today   Totals `json:"today"`
	Weekly  Totals `json:"weekly"`
	Monthly Totals `json:"monthly"`
}

const revenueField = "revenue"

// cacheField scopes a cache field to the current local day, so rollups
// cached before midnight are never served after it.
func (s *Service) cacheField(name string) string {
	return name + ":" + s.now().In(s.loc).Format("2006-01-02")
}

// Stats returns revenue rollups for today, the last seven days and the month
// to date, plus a live stock summary.
func (s *Service) Stats(ctx context.Context, ownerID uuid.UUID) (*Stats, error) {
	var rev revenue

	field := s.cacheField(revenueField)

	if !s.cached(ctx, ownerID, field, &rev) {
		now := s.now().In(s.loc)

		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
		dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

		var err error

		if rev.Today, err = s.repo.SalesTotals(ctx, ownerID, dayStart, dayEnd); err != nil {
			return nil, fmt.Errorf("today's totals: %w", err)
		}

		if rev.Weekly, err = s.repo.SalesTotals(ctx, ownerID, now.AddDate(0, 0, -7), now); err != nil {
			return nil, fmt.Errorf("weekly totals: %w", err)
		}

		if rev.Monthly, err = s.repo.SalesTotals(ctx, ownerID, monthStart, now); err != nil {
			return nil, fmt.Errorf("monthly totals: %w", err)
		}

		s.store(ctx, ownerID, field, rev)
	}

	stock, err := s.repo.StockSummary(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}

	return &Stats{
		Today:    rev.Today,
		Weekly:   rev.Weekly,
		Monthly:  rev.Monthly,
		Products: stock,
	}, nil
}

// StockSummary counts all products, those at or below their threshold and
// those with no stock. It is never cached.
func (s *Service) StockSummary(ctx context.Context, ownerID uuid.UUID) (StockSummary, error) {
	return s.repo.StockSummary(ctx, ownerID)
}

// ChartSeries buckets revenue by day over the last week or month, or by
// month over the last year.
func (s *Service) ChartSeries(ctx context.Context, ownerID uuid.UUID, period Period) ([]Bucket, error) {
	now := s.now().In(s.loc)

	var (
		from time.Time
		g    Granularity
	)

	switch period {
	case PeriodWeek:
		from, g = now.AddDate(0, 0, -7), ByDay
	case PeriodMonth:
		from, g = now.AddDate(0, -1, 0), ByDay
	case PeriodYear:
		from, g = now.AddDate(-1, 0, 0), ByMonth
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	field := s.cacheField("chart:" + string(period))

	var buckets []Bucket
	if s.cached(ctx, ownerID, field, &buckets) {
		return buckets, nil
	}

	buckets, err := s.repo.SalesBuckets(ctx, ownerID, from, g, s.loc.String())
	if err != nil {
		return nil, fmt.Errorf("chart series: %w", err)
	}

	if buckets == nil {
		buckets = []Bucket{}
	}

	s.store(ctx, ownerID, field, buckets)

	return buckets, nil
}

// Invalidate drops every cached rollup of the owner.
func (s *Service) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	return s.cache.Invalidate(ctx, ownerID)
}

// cached decodes a cache hit into dst. Cache failures are logged and treated
// as misses.
func (s *Service) cached(ctx context.Context, ownerID uuid.UUID, field string, dst any) bool {
	raw, ok, err := s.cache.Get(ctx, ownerID, field)
	if err != nil {
		slog.Warn("dashboard cache read failed", "field", field, "error", err)
		return false
	}

	if !ok {
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("dashboard cache entry unreadable", "field", field, "error", err)
		return false
	}

	return true
}

func (s *Service) store(ctx context.Context, ownerID uuid.UUID, field string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("encoding dashboard cache entry", "field", field, "error", err)
		return
	}

	if err := s.cache.Set(ctx, ownerID, field, raw); err != nil {
		slog.Warn("dashboard cache write failed", "field", field, "error", err)
	}
}

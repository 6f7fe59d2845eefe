package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var bucketFormats = map[dashboard.Granularity]string{
	dashboard.ByDay:   "YYYY-MM-DD",
	dashboard.ByMonth: "YYYY-MM",
}

func (s *Store) SalesTotals(ctx context.Context, cashierID uuid.UUID, from, to time.Time) (dashboard.Totals, error) {
	query := `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM sales
		WHERE cashier_id = $1 AND created_at >= $2 AND created_at <= $3
	`

	var t dashboard.Totals
	if err := s.db.QueryRowContext(ctx, query, cashierID, from, to).Scan(&t.Revenue, &t.Transactions); err != nil {
		return dashboard.Totals{}, fmt.Errorf("summing sales: %w", err)
	}

	return t, nil
}

func (s *Store) StockSummary(ctx context.Context, ownerID uuid.UUID) (dashboard.StockSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE stock <= low_stock_threshold),
			COUNT(*) FILTER (WHERE stock = 0)
		FROM products
		WHERE owner_id = $1
	`

	var sum dashboard.StockSummary
	if err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&sum.Total, &sum.LowStock, &sum.OutOfStock); err != nil {
		return dashboard.StockSummary{}, fmt.Errorf("summarizing stock: %w", err)
	}

	return sum, nil
}

func (s *Store) SalesBuckets(ctx context.Context, cashierID uuid.UUID, from time.Time, g dashboard.Granularity, tz string) ([]dashboard.Bucket, error) {
	format, ok := bucketFormats[g]
	if !ok {
		return nil, fmt.Errorf("unknown granularity %q", g)
	}

	query := `
		SELECT to_char(created_at AT TIME ZONE $3, $4) AS bucket, SUM(total), COUNT(*)
		FROM sales
		WHERE cashier_id = $1 AND created_at >= $2
		GROUP BY bucket
		ORDER BY bucket ASC
	`

	rows, err := s.db.QueryContext(ctx, query, cashierID, from, tz, format)
	if err != nil {
		return nil, fmt.Errorf("bucketing sales: %w", err)
	}
	defer rows.Close()

	var buckets []dashboard.Bucket

	for rows.Next() {
		var b dashboard.Bucket
		if err := rows.Scan(&b.Key, &b.Revenue, &b.Transactions); err != nil {
			return nil, fmt.Errorf("scanning bucket: %w", err)
		}

		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bucket rows: %w", err)
	}

	return buckets, nil
}

package dashboard

import (
	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Granularity selects the bucket size of a chart series.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByMonth Granularity = "month"
)

type Totals struct {
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

type StockSummary struct {
	Total      int `json:"total"`
	LowStock   int `json:"lowStock"`
	OutOfStock int `json:"outOfStock"`
}

type Stats struct {
	Today    Totals       `json:"today"`
	Weekly   Totals       `json:"weekly"`
	Monthly  Totals       `json:"monthly"`
	Products StockSummary `json:"products"`
}

// Bucket is one point of a chart series. Key is YYYY-MM-DD for daily
// buckets and YYYY-MM for monthly ones.
type Bucket struct {
	Key          string          `json:"key"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

package fundamentals

import (
	"context"
	"time"
)

// KRX financial-statement account codes, quarterly basis.
// 공시 계정코드; statement values arrive in thousand KRW.
const (
	AccountNetProfit     = "122700" // 당기순이익
	AccountAssets        = "111000" // 총자산
	AccountCurrentAssets = "111100" // 유동자산
	AccountLiabilities   = "113000" // 총부채
	AccountEquity        = "115000" // 총자본
	AccountEBITDA        = "123000"
)

// StatementScale converts thousand-KRW statement values to KRW.
const StatementScale = 1000

// AccountValue is one period's value for an account series.
type AccountValue struct {
	YearMonth string  `json:"year_month"` // YYYYMM of the reporting period
	Value     float64 `json:"value"`      // thousand KRW, as reported
}

// Provider supplies the external market and statement data needed to build
// one symbol's FundamentalRecord. Implementations must return values as of
// the most recent available period at or before the given date.
type Provider interface {
	// RecentClose returns the most recent close price at or before asOf.
	RecentClose(ctx context.Context, symbol string, asOf time.Time) (float64, error)
	// RecentMarketCap returns the most recent market capitalization at or
	// before asOf.
	RecentMarketCap(ctx context.Context, symbol string, asOf time.Time) (float64, error)
	// QuarterlySeries returns the quarterly series for an account code,
	// ordered by period ascending.
	QuarterlySeries(ctx context.Context, symbol string, accountCode string) ([]AccountValue, error)
}

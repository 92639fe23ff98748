package fundamentals

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dykim-quant/valo/internal/external/dart"
	"github.com/dykim-quant/valo/internal/external/krx"
	"github.com/dykim-quant/valo/internal/external/naver"
	"github.com/dykim-quant/valo/pkg/logger"
)

// LiveProvider implements Provider against the real data sources:
// KRX daily quotes for close and market cap, DART filings for the
// statement series, Naver as a per-symbol price fallback.
type LiveProvider struct {
	krx    *krx.Client
	naver  *naver.Client
	dart   *dart.Client
	logger *logger.Logger

	mu         sync.Mutex
	quoteDate  string
	quoteIndex map[string]krx.DailyQuote
}

// NewLiveProvider wires the external clients into a Provider.
func NewLiveProvider(krxClient *krx.Client, naverClient *naver.Client, dartClient *dart.Client, log *logger.Logger) *LiveProvider {
	return &LiveProvider{
		krx:    krxClient,
		naver:  naverClient,
		dart:   dartClient,
		logger: log,
	}
}

// RecentClose returns the close from the KRX end-of-day snapshot,
// falling back to the Naver chart API when the symbol is missing there
// (newly listed issues lag the KRX batch by a day).
func (p *LiveProvider) RecentClose(ctx context.Context, symbol string, asOf time.Time) (float64, error) {
	quote, err := p.quote(ctx, symbol, asOf)
	if err == nil && quote.Close > 0 {
		return quote.Close, nil
	}

	price, nerr := p.naver.RecentClose(ctx, symbol, asOf)
	if nerr != nil {
		if err != nil {
			return 0, fmt.Errorf("recent close for %s: %w (naver fallback: %v)", symbol, err, nerr)
		}
		return 0, fmt.Errorf("recent close for %s: %w", symbol, nerr)
	}
	return price, nil
}

// RecentMarketCap returns the market cap from the KRX snapshot.
func (p *LiveProvider) RecentMarketCap(ctx context.Context, symbol string, asOf time.Time) (float64, error) {
	quote, err := p.quote(ctx, symbol, asOf)
	if err != nil {
		return 0, fmt.Errorf("recent market cap for %s: %w", symbol, err)
	}
	if quote.MarketCap <= 0 {
		return 0, fmt.Errorf("no market cap for %s", symbol)
	}
	return quote.MarketCap, nil
}

// QuarterlySeries returns the DART quarterly series for an account,
// converted from KRW to the thousand-KRW statement convention.
func (p *LiveProvider) QuarterlySeries(ctx context.Context, symbol string, accountCode string) ([]AccountValue, error) {
	rows, err := p.dart.AccountSeries(ctx, symbol, accountCode, time.Now())
	if err != nil {
		return nil, fmt.Errorf("quarterly series %s/%s: %w", symbol, accountCode, err)
	}

	values := make([]AccountValue, 0, len(rows))
	for _, row := range rows {
		values = append(values, AccountValue{
			YearMonth: strconv.Itoa(row.YearMonth),
			Value:     row.Value / StatementScale,
		})
	}
	return values, nil
}

// quote returns one symbol's row from the KRX end-of-day snapshot,
// loading the snapshot once per trade date.
func (p *LiveProvider) quote(ctx context.Context, symbol string, asOf time.Time) (krx.DailyQuote, error) {
	day := asOf.Format("20060102")

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quoteDate != day {
		quotes, err := p.krx.FetchAllDailyQuotes(ctx, asOf)
		if err != nil {
			return krx.DailyQuote{}, fmt.Errorf("load quote snapshot: %w", err)
		}
		index := make(map[string]krx.DailyQuote, len(quotes))
		for _, q := range quotes {
			index[q.Symbol] = q
		}
		p.quoteDate = day
		p.quoteIndex = index
		p.logger.WithFields(map[string]interface{}{
			"trade_date": day,
			"symbols":    len(index),
		}).Info("Loaded KRX quote snapshot")
	}

	quote, ok := p.quoteIndex[symbol]
	if !ok {
		return krx.DailyQuote{}, fmt.Errorf("symbol %s not in quote snapshot", symbol)
	}
	return quote, nil
}

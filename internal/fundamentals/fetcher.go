package fundamentals

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/pkg/logger"
	"github.com/dykim-quant/valo/pkg/redis"
)

// FetchResult carries one symbol's fetch outcome. A failed symbol carries
// its error here instead of aborting the batch; aggregation filters failures.
type FetchResult struct {
	Symbol string
	Record contracts.FundamentalRecord
	Err    error
}

// OK reports whether the fetch succeeded.
func (r *FetchResult) OK() bool {
	return r.Err == nil
}

// Fetcher assembles FundamentalRecords for a cohort of symbols, fanning out
// to the provider with bounded concurrency and caching assembled records.
type Fetcher struct {
	provider    Provider
	cache       *redis.Cache
	concurrency int
	logger      *logger.Logger
}

// NewFetcher creates a fetcher. concurrency bounds the number of in-flight
// per-symbol fetches; values below 1 are treated as 1. cache may be nil.
func NewFetcher(provider Provider, cache *redis.Cache, concurrency int, log *logger.Logger) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		provider:    provider,
		cache:       cache,
		concurrency: concurrency,
		logger:      log,
	}
}

// FetchCohort fetches every symbol's record concurrently. The result slice
// is index-aligned with the input symbols; each entry is either a record or
// a per-symbol error. The batch itself only fails on context cancellation.
func (f *Fetcher) FetchCohort(ctx context.Context, symbols []string, asOf time.Time) []FetchResult {
	results := make([]FetchResult, len(symbols))
	sem := make(chan struct{}, f.concurrency)
	var wg sync.WaitGroup

	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			record, err := f.fetchOne(ctx, symbol, asOf)
			results[i] = FetchResult{Symbol: symbol, Record: record, Err: err}
		}(i, symbol)
	}
	wg.Wait()

	return results
}

// Records filters a result batch down to the successful records and logs the
// dropped-symbol count. 실패 종목은 해당 run에서만 제외.
func (f *Fetcher) Records(results []FetchResult) []contracts.FundamentalRecord {
	records := make([]contracts.FundamentalRecord, 0, len(results))
	dropped := 0
	for i := range results {
		if !results[i].OK() {
			dropped++
			f.logger.WithFields(map[string]interface{}{
				"symbol": results[i].Symbol,
			}).WithError(results[i].Err).Debug("Symbol dropped from scoring")
			continue
		}
		records = append(records, results[i].Record)
	}
	if dropped > 0 {
		f.logger.WithFields(map[string]interface{}{
			"fetched": len(results),
			"dropped": dropped,
		}).Warn("Some symbols dropped from this run")
	}
	return records
}

// fetchOne builds one symbol's record, consulting the cache first.
func (f *Fetcher) fetchOne(ctx context.Context, symbol string, asOf time.Time) (contracts.FundamentalRecord, error) {
	dateKey := asOf.Format("2006-01-02")
	cacheKey := redis.FundamentalKey(symbol, dateKey)

	var record contracts.FundamentalRecord
	if f.cache != nil {
		if hit, err := f.cache.Get(ctx, cacheKey, &record); err == nil && hit {
			return record, nil
		}
	}

	closePrice, err := f.provider.RecentClose(ctx, symbol, asOf)
	if err != nil {
		return record, fmt.Errorf("recent close for %s: %w", symbol, err)
	}
	marketCap, err := f.provider.RecentMarketCap(ctx, symbol, asOf)
	if err != nil {
		return record, fmt.Errorf("recent market cap for %s: %w", symbol, err)
	}
	netProfit, err := f.latestAccount(ctx, symbol, AccountNetProfit)
	if err != nil {
		return record, err
	}
	assets, err := f.latestAccount(ctx, symbol, AccountAssets)
	if err != nil {
		return record, err
	}
	liabilities, err := f.latestAccount(ctx, symbol, AccountLiabilities)
	if err != nil {
		return record, err
	}
	equity, err := f.latestAccount(ctx, symbol, AccountEquity)
	if err != nil {
		return record, err
	}
	// EBITDA is optional context; a missing series does not drop the symbol.
	ebitda, err := f.latestAccount(ctx, symbol, AccountEBITDA)
	if err != nil {
		ebitda = 0
	}

	record = contracts.FundamentalRecord{
		Symbol:      symbol,
		Close:       closePrice,
		MarketCap:   marketCap,
		NetProfit:   netProfit,
		Assets:      assets,
		Liabilities: liabilities,
		Equity:      equity,
		EBITDA:      ebitda,
		AsOf:        asOf,
	}
	if !record.Valid() {
		return record, fmt.Errorf("invalid fundamental record for %s: close=%.2f", symbol, closePrice)
	}

	if f.cache != nil {
		_ = f.cache.Set(ctx, cacheKey, record, redis.TTLDaily)
	}
	return record, nil
}

// latestAccount returns the most recent value of a quarterly account series,
// scaled from thousand KRW to KRW.
func (f *Fetcher) latestAccount(ctx context.Context, symbol, accountCode string) (float64, error) {
	series, err := f.provider.QuarterlySeries(ctx, symbol, accountCode)
	if err != nil {
		return 0, fmt.Errorf("account %s for %s: %w", accountCode, symbol, err)
	}
	if len(series) == 0 {
		return 0, fmt.Errorf("account %s for %s: empty series", accountCode, symbol)
	}

	latest := series[0]
	for _, v := range series[1:] {
		if v.YearMonth > latest.YearMonth {
			latest = v
		}
	}
	return latest.Value * StatementScale, nil
}

// Package pipeline coordinates one daily trading run: universe →
// sector sample → fundamental scoring → buy/sell selection → order
// book.
// ⭐ SSOT: 일일 파이프라인 조율은 여기서만
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/internal/fundamentals"
	"github.com/dykim-quant/valo/internal/orders"
	"github.com/dykim-quant/valo/internal/scoring"
	"github.com/dykim-quant/valo/internal/sector"
	"github.com/dykim-quant/valo/internal/strategy"
	"github.com/dykim-quant/valo/internal/universe"
	"github.com/dykim-quant/valo/pkg/logger"
)

// SymbolSource supplies the exchange symbol master.
type SymbolSource interface {
	FetchSymbolMaster(ctx context.Context, date time.Time) ([]contracts.SymbolInfo, error)
}

// Snapshotter supplies the portfolio status for a run.
type Snapshotter interface {
	Snapshot(ctx context.Context, date time.Time) (contracts.PortfolioStatus, error)
}

// OrderSink persists the reconciled order book. Optional.
type OrderSink interface {
	SaveBook(ctx context.Context, date time.Time, book contracts.OrderBook, strategyHash string) error
}

// Pipeline wires the run components together.
type Pipeline struct {
	symbols     SymbolSource
	filter      *universe.Filter
	sampler     *sector.Sampler
	fetcher     *fundamentals.Fetcher
	scorer      *scoring.Scorer
	allocator   *orders.Allocator
	selector    *orders.Selector
	snapshotter Snapshotter
	sink        OrderSink

	cfg         *strategy.Config
	concurrency int
	logger      *logger.Logger
}

// New creates a pipeline from a strategy config and its components.
// sink may be nil when persistence is not wanted (dry runs).
func New(
	symbols SymbolSource,
	filter *universe.Filter,
	sampler *sector.Sampler,
	fetcher *fundamentals.Fetcher,
	snapshotter Snapshotter,
	sink OrderSink,
	cfg *strategy.Config,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		symbols:     symbols,
		filter:      filter,
		sampler:     sampler,
		fetcher:     fetcher,
		scorer:      scoring.NewScorer(cfg.ScoreConfig(), log),
		allocator:   orders.NewAllocator(cfg.BuyConfig(), log),
		selector:    orders.NewSelector(cfg.SellConfig(), log),
		snapshotter: snapshotter,
		sink:        sink,
		cfg:         cfg,
		concurrency: 4,
		logger:      log,
	}
}

// RunResult summarizes one completed run.
type RunResult struct {
	Date          time.Time           `json:"date"`
	UniverseCount int                 `json:"universe_count"`
	SectorCount   int                 `json:"sector_count"`
	SampledCount  int                 `json:"sampled_count"`
	ScoredCount   int                 `json:"scored_count"`
	BuyCount      int                 `json:"buy_count"`
	SellCount     int                 `json:"sell_count"`
	Book          contracts.OrderBook `json:"book"`
	Duration      time.Duration       `json:"duration"`
}

// Run executes one daily run and returns the reconciled order book.
// An empty book is a valid outcome; a missing symbol master is not.
func (p *Pipeline) Run(ctx context.Context, date time.Time) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{Date: date}

	p.logger.WithFields(map[string]interface{}{
		"date":     date.Format("2006-01-02"),
		"strategy": p.cfg.Name,
	}).Info("Starting daily run")

	infos, err := p.symbols.FetchSymbolMaster(ctx, date)
	if err != nil {
		return result, fmt.Errorf("symbol master: %w", err)
	}
	univ, err := p.filter.Build(date, infos)
	if err != nil {
		return result, fmt.Errorf("build universe: %w", err)
	}
	result.UniverseCount = univ.Count()

	status, err := p.snapshotter.Snapshot(ctx, date)
	if err != nil {
		return result, fmt.Errorf("portfolio snapshot: %w", err)
	}
	cash := status.Cash
	if !status.CashKnown {
		cash = contracts.DefaultStartingCash
		p.logger.Info("No cash history, using starting balance")
	}

	cohorts := p.sampler.Sample(univ.Symbols)
	result.SectorCount = len(cohorts)
	for _, members := range cohorts {
		result.SampledCount += len(members)
	}

	table := p.scoreCohorts(ctx, date, cohorts)
	result.ScoredCount = table.Len()

	investMoney := cash * p.cfg.Capital.CashRatio
	buys := p.allocator.Allocate(table, status.HeldSymbols(), investMoney)
	sells := p.selector.Select(status.Positions)
	result.BuyCount = len(buys)
	result.SellCount = len(sells)
	result.Book = orders.Merge(buys, sells)

	if p.sink != nil {
		if err := p.sink.SaveBook(ctx, date, result.Book, p.cfg.Hash()); err != nil {
			return result, fmt.Errorf("save order book: %w", err)
		}
	}

	result.Duration = time.Since(start)
	p.logger.WithFields(map[string]interface{}{
		"universe": result.UniverseCount,
		"sectors":  result.SectorCount,
		"scored":   result.ScoredCount,
		"buys":     result.BuyCount,
		"sells":    result.SellCount,
		"orders":   len(result.Book),
		"duration": result.Duration.Seconds(),
	}).Info("Daily run completed")

	return result, nil
}

// scoreCohorts fetches and scores each sector cohort with bounded
// concurrency. Cohorts are independent; completion order is not.
func (p *Pipeline) scoreCohorts(ctx context.Context, date time.Time, cohorts map[string][]string) contracts.ScoreTable {
	var (
		mu    sync.Mutex
		table contracts.ScoreTable
		wg    sync.WaitGroup
	)
	sem := make(chan struct{}, p.concurrency)

	for name, members := range cohorts {
		wg.Add(1)
		go func(name string, members []string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results := p.fetcher.FetchCohort(ctx, members, date)
			records := p.fetcher.Records(results)
			cohortTable := p.scorer.Score(records)

			p.logger.WithFields(map[string]interface{}{
				"sector":  name,
				"members": len(members),
				"scored":  cohortTable.Len(),
			}).Debug("Scored sector cohort")

			mu.Lock()
			table.Append(cohortTable)
			mu.Unlock()
		}(name, members)
	}
	wg.Wait()
	return table
}

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/internal/external/dart"
	"github.com/dykim-quant/valo/internal/external/krx"
	"github.com/dykim-quant/valo/internal/external/naver"
	"github.com/dykim-quant/valo/internal/fundamentals"
	"github.com/dykim-quant/valo/internal/pipeline"
	"github.com/dykim-quant/valo/internal/portfolio"
	"github.com/dykim-quant/valo/internal/sector"
	"github.com/dykim-quant/valo/internal/store"
	"github.com/dykim-quant/valo/internal/strategy"
	"github.com/dykim-quant/valo/internal/universe"
	"github.com/dykim-quant/valo/pkg/config"
	"github.com/dykim-quant/valo/pkg/database"
	"github.com/dykim-quant/valo/pkg/httputil"
	"github.com/dykim-quant/valo/pkg/logger"
	"github.com/dykim-quant/valo/pkg/redis"
)

// app holds the wired components a command needs.
type app struct {
	cfg *config.Config
	log *logger.Logger

	db  *database.DB
	rds *redis.Client

	krx   *krx.Client
	naver *naver.Client

	strategy  *strategy.Config
	orderRepo *store.OrderRepository
	manager   *portfolio.Manager
	pipeline  *pipeline.Pipeline
}

// newApp loads config and wires the full pipeline. When withDB is
// false the storage-backed parts stay nil (dry runs, sector refresh).
func newApp(withDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	a := &app{cfg: cfg, log: log}

	httpClient := httputil.New(log)
	a.krx = krx.NewClient(log, cfg.KRX.RateLimit)
	a.naver = naver.NewClient(httpClient, log, cfg.Naver.RateLimit)
	dartClient := dart.NewClient(cfg.DART.APIKey, log)

	a.strategy, err = loadStrategy(cfg, log)
	if err != nil {
		return nil, err
	}

	lookup, err := sector.LoadLookup(cfg.SectorFile)
	if err != nil {
		return nil, fmt.Errorf("load sector file %s (run refresh-sectors first): %w", cfg.SectorFile, err)
	}
	sampler := sector.NewSampler(lookup, a.strategy.SamplerConfig(), log)

	a.rds = redis.New(cfg, log)
	var cache *redis.Cache
	if a.rds.Enabled() {
		cache = redis.NewCache(a.rds, "valo")
	}

	provider := fundamentals.NewLiveProvider(a.krx, a.naver, dartClient, log)
	fetcher := fundamentals.NewFetcher(provider, cache, 8, log)

	var sink pipeline.OrderSink
	var snapshotter pipeline.Snapshotter
	if withDB {
		a.db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.orderRepo = store.NewOrderRepository(a.db.Pool)
		a.manager = portfolio.NewManager(
			store.NewPositionRepository(a.db.Pool),
			store.NewResultRepository(a.db.Pool),
			log,
		)
		sink = a.orderRepo
		snapshotter = a.manager
	} else {
		snapshotter = emptySnapshotter{}
	}

	a.pipeline = pipeline.New(
		a.krx,
		universe.NewFilter(log),
		sampler,
		fetcher,
		snapshotter,
		sink,
		a.strategy,
		log,
	)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.rds != nil {
		a.rds.Close()
	}
}

// emptySnapshotter serves a blank portfolio for DB-less dry runs.
type emptySnapshotter struct{}

func (emptySnapshotter) Snapshot(ctx context.Context, date time.Time) (contracts.PortfolioStatus, error) {
	return contracts.PortfolioStatus{Date: date}, nil
}

// loadStrategy reads the strategy file, falling back to the default
// preset when none exists.
func loadStrategy(cfg *config.Config, log *logger.Logger) (*strategy.Config, error) {
	if _, err := os.Stat(cfg.StrategyFile); os.IsNotExist(err) {
		log.WithField("path", cfg.StrategyFile).Warn("No strategy file, using default preset")
		return strategy.Default(), nil
	}
	s, err := strategy.Load(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"name": s.Name,
		"hash": s.Hash(),
	}).Info("Strategy loaded")
	return s, nil
}

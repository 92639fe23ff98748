// Package portfolio builds the read-only snapshot a pipeline run
// consumes and applies the resulting order book back to storage.
package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/pkg/logger"
)

// PositionStore is the position persistence the manager needs.
type PositionStore interface {
	GetOpen(ctx context.Context) ([]contracts.Position, error)
	Upsert(ctx context.Context, p contracts.Position) error
	Close(ctx context.Context, symbol string) error
}

// ResultStore is the price/cash history persistence the manager needs.
type ResultStore interface {
	SavePrice(ctx context.Context, symbol string, date time.Time, price float64) error
	LatestPrice(ctx context.Context, symbol string) (float64, error)
	SaveCash(ctx context.Context, date time.Time, cash float64) error
	LatestCash(ctx context.Context) (float64, bool, error)
}

// Manager composes the stores into portfolio-level operations.
type Manager struct {
	positions PositionStore
	results   ResultStore
	logger    *logger.Logger
}

// NewManager creates a portfolio manager.
func NewManager(positions PositionStore, results ResultStore, log *logger.Logger) *Manager {
	return &Manager{positions: positions, results: results, logger: log}
}

// Snapshot builds the portfolio status for one run. Positions without
// any price history are dropped from the snapshot; they cannot be
// evaluated for exit and rejoin once a price is recorded.
func (m *Manager) Snapshot(ctx context.Context, date time.Time) (contracts.PortfolioStatus, error) {
	status := contracts.PortfolioStatus{Date: date}

	cash, known, err := m.results.LatestCash(ctx)
	if err != nil {
		return status, fmt.Errorf("load cash: %w", err)
	}
	status.Cash = cash
	status.CashKnown = known

	open, err := m.positions.GetOpen(ctx)
	if err != nil {
		return status, fmt.Errorf("load positions: %w", err)
	}

	for _, pos := range open {
		price, err := m.results.LatestPrice(ctx, pos.Symbol)
		if err != nil {
			m.logger.WithField("symbol", pos.Symbol).WithError(err).Warn("Position has no price history, skipping")
			continue
		}
		pos.CurrentPrice = price
		status.Positions = append(status.Positions, pos)
	}

	return status, nil
}

// ApplyBook applies an executed order book to the stored portfolio,
// assuming fills at the given prices. Buys on a held symbol average
// the entry price; sells that empty a position close it.
func (m *Manager) ApplyBook(ctx context.Context, date time.Time, book contracts.OrderBook, prices map[string]float64) error {
	open, err := m.positions.GetOpen(ctx)
	if err != nil {
		return fmt.Errorf("load positions: %w", err)
	}
	held := make(map[string]contracts.Position, len(open))
	for _, pos := range open {
		held[pos.Symbol] = pos
	}

	cash, known, err := m.results.LatestCash(ctx)
	if err != nil {
		return fmt.Errorf("load cash: %w", err)
	}
	if !known {
		cash = contracts.DefaultStartingCash
	}

	for symbol, qty := range book {
		price, ok := prices[symbol]
		if !ok || price <= 0 {
			return fmt.Errorf("no fill price for %s", symbol)
		}

		pos, holding := held[symbol]
		switch {
		case qty > 0:
			if holding {
				total := float64(pos.Qty)*pos.TradePrice + float64(qty)*price
				pos.Qty += qty
				pos.TradePrice = total / float64(pos.Qty)
			} else {
				pos = contracts.Position{Symbol: symbol, Qty: qty, TradePrice: price}
			}
			if err := m.positions.Upsert(ctx, pos); err != nil {
				return err
			}
			cash -= float64(qty) * price

		case qty < 0:
			if !holding {
				return fmt.Errorf("sell order for unheld symbol %s", symbol)
			}
			sellQty := -qty
			if sellQty > pos.Qty {
				sellQty = pos.Qty
			}
			pos.Qty -= sellQty
			if pos.Qty == 0 {
				if err := m.positions.Close(ctx, symbol); err != nil {
					return err
				}
			} else if err := m.positions.Upsert(ctx, pos); err != nil {
				return err
			}
			cash += float64(sellQty) * price
		}

		if err := m.results.SavePrice(ctx, symbol, date, price); err != nil {
			return err
		}
	}

	if err := m.results.SaveCash(ctx, date, cash); err != nil {
		return err
	}

	m.logger.WithFields(map[string]interface{}{
		"orders": len(book),
		"cash":   cash,
	}).Info("Applied order book to portfolio")
	return nil
}

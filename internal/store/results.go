package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultRepository stores per-symbol daily prices and the cash history
// the portfolio snapshot is derived from.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a result repository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SavePrice records one symbol's price for a trade date.
func (r *ResultRepository) SavePrice(ctx context.Context, symbol string, date time.Time, price float64) error {
	query := `
		INSERT INTO trade.daily_results (symbol, trade_date, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol, trade_date) DO UPDATE SET price = EXCLUDED.price
	`
	if _, err := r.pool.Exec(ctx, query, symbol, date, price); err != nil {
		return fmt.Errorf("save price %s: %w", symbol, err)
	}
	return nil
}

// LatestPrice returns the most recent recorded price for a symbol.
func (r *ResultRepository) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	query := `
		SELECT price FROM trade.daily_results
		WHERE symbol = $1
		ORDER BY trade_date DESC
		LIMIT 1
	`
	var price float64
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("no price history for %s", symbol)
	}
	if err != nil {
		return 0, fmt.Errorf("latest price %s: %w", symbol, err)
	}
	return price, nil
}

// SaveCash records the end-of-day cash balance.
func (r *ResultRepository) SaveCash(ctx context.Context, date time.Time, cash float64) error {
	query := `
		INSERT INTO trade.cash_history (trade_date, cash)
		VALUES ($1, $2)
		ON CONFLICT (trade_date) DO UPDATE SET cash = EXCLUDED.cash
	`
	if _, err := r.pool.Exec(ctx, query, date, cash); err != nil {
		return fmt.Errorf("save cash: %w", err)
	}
	return nil
}

// LatestCash returns the most recent cash balance. The second return is
// false when no history exists yet; the caller falls back to the
// starting balance in that case.
func (r *ResultRepository) LatestCash(ctx context.Context) (float64, bool, error) {
	query := `
		SELECT cash FROM trade.cash_history
		ORDER BY trade_date DESC
		LIMIT 1
	`
	var cash float64
	err := r.pool.QueryRow(ctx, query).Scan(&cash)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("latest cash: %w", err)
	}
	return cash, true, nil
}

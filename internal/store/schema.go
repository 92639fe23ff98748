// Package store persists positions, daily results, and order books in
// PostgreSQL.
// ⭐ SSOT: 포트폴리오 영속화는 이 패키지에서만
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE SCHEMA IF NOT EXISTS trade`,
	`CREATE TABLE IF NOT EXISTS trade.positions (
		symbol       TEXT PRIMARY KEY,
		qty          INTEGER NOT NULL,
		trade_price  DOUBLE PRECISION NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS trade.daily_results (
		symbol       TEXT NOT NULL,
		trade_date   DATE NOT NULL,
		price        DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (symbol, trade_date)
	)`,
	`CREATE TABLE IF NOT EXISTS trade.cash_history (
		trade_date   DATE PRIMARY KEY,
		cash         DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trade.order_books (
		trade_date    DATE NOT NULL,
		symbol        TEXT NOT NULL,
		qty           INTEGER NOT NULL,
		strategy_hash TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (trade_date, symbol)
	)`,
}

// Migrate creates the trade schema. Statements are idempotent, so it
// runs safely on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

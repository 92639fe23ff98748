package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dykim-quant/valo/internal/contracts"
)

// OrderRepository stores the reconciled order book each run produces.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// SaveBook replaces the stored book for a trade date. Runs are
// idempotent per date: a re-run overwrites the earlier book.
func (r *OrderRepository) SaveBook(ctx context.Context, date time.Time, book contracts.OrderBook, strategyHash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trade.order_books WHERE trade_date = $1`, date); err != nil {
		return fmt.Errorf("clear order book: %w", err)
	}

	query := `
		INSERT INTO trade.order_books (trade_date, symbol, qty, strategy_hash)
		VALUES ($1, $2, $3, $4)
	`
	for symbol, qty := range book {
		if _, err := tx.Exec(ctx, query, date, symbol, qty, strategyHash); err != nil {
			return fmt.Errorf("insert order %s: %w", symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestBook returns the most recent stored order book and its date.
func (r *OrderRepository) LatestBook(ctx context.Context) (time.Time, contracts.OrderBook, error) {
	// max() yields a NULL row on an empty table, so scan a pointer.
	var datePtr *time.Time
	err := r.pool.QueryRow(ctx, `SELECT max(trade_date) FROM trade.order_books`).Scan(&datePtr)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil, fmt.Errorf("latest book date: %w", err)
	}
	if datePtr == nil {
		return time.Time{}, nil, fmt.Errorf("no stored order books")
	}
	date := *datePtr

	rows, err := r.pool.Query(ctx, `
		SELECT symbol, qty FROM trade.order_books
		WHERE trade_date = $1
		ORDER BY symbol ASC
	`, date)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("query order book: %w", err)
	}
	defer rows.Close()

	book := make(contracts.OrderBook)
	for rows.Next() {
		var symbol string
		var qty int
		if err := rows.Scan(&symbol, &qty); err != nil {
			return time.Time{}, nil, fmt.Errorf("scan order: %w", err)
		}
		book[symbol] = qty
	}
	return date, book, rows.Err()
}

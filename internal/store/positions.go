package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dykim-quant/valo/internal/contracts"
)

// PositionRepository stores open positions.
type PositionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository creates a position repository.
func NewPositionRepository(pool *pgxpool.Pool) *PositionRepository {
	return &PositionRepository{pool: pool}
}

// GetOpen returns all open positions. CurrentPrice is left zero; the
// caller fills it from the latest daily result.
func (r *PositionRepository) GetOpen(ctx context.Context) ([]contracts.Position, error) {
	query := `
		SELECT symbol, qty, trade_price
		FROM trade.positions
		WHERE qty > 0
		ORDER BY symbol ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	var positions []contracts.Position
	for rows.Next() {
		var p contracts.Position
		if err := rows.Scan(&p.Symbol, &p.Qty, &p.TradePrice); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Upsert saves one position, replacing any existing row for the symbol.
func (r *PositionRepository) Upsert(ctx context.Context, p contracts.Position) error {
	query := `
		INSERT INTO trade.positions (symbol, qty, trade_price, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (symbol) DO UPDATE SET
			qty = EXCLUDED.qty,
			trade_price = EXCLUDED.trade_price,
			updated_at = now()
	`
	_, err := r.pool.Exec(ctx, query, p.Symbol, p.Qty, p.TradePrice)
	if err != nil {
		return fmt.Errorf("upsert position %s: %w", p.Symbol, err)
	}
	return nil
}

// Close removes a fully liquidated position.
func (r *PositionRepository) Close(ctx context.Context, symbol string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM trade.positions WHERE symbol = $1`, symbol)
	if err != nil {
		return fmt.Errorf("close position %s: %w", symbol, err)
	}
	return nil
}

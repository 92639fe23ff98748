package contracts

import "time"

// DefaultStartingCash is the balance assumed before any trading
// history exists.
const DefaultStartingCash = 1_000_000_000.0

// Position is one held symbol with its entry and current price.
// A position disappears from the snapshot once its quantity reaches zero.
type Position struct {
	Symbol       string  `json:"symbol"`
	Qty          int     `json:"qty"`
	TradePrice   float64 `json:"trade_price"`   // entry price
	CurrentPrice float64 `json:"current_price"` // most recent price
}

// ProfitLossPct is the position's unrealized profit/loss in percent.
func (p *Position) ProfitLossPct() float64 {
	if p.TradePrice == 0 {
		return 0
	}
	return (p.CurrentPrice - p.TradePrice) / p.TradePrice * 100
}

// PortfolioStatus is the read-only snapshot the pipeline consumes:
// current cash plus all open positions, taken once per run.
type PortfolioStatus struct {
	Date      time.Time  `json:"date"`
	Cash      float64    `json:"cash"`
	CashKnown bool       `json:"cash_known"` // false → caller falls back to the default
	Positions []Position `json:"positions"`
}

// HeldSymbols returns the set of symbols with open positions.
func (s *PortfolioStatus) HeldSymbols() map[string]bool {
	held := make(map[string]bool, len(s.Positions))
	for _, pos := range s.Positions {
		held[pos.Symbol] = true
	}
	return held
}

// Count returns the number of open positions.
func (s *PortfolioStatus) Count() int {
	return len(s.Positions)
}

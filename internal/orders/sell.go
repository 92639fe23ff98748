package orders

import (
	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/pkg/logger"
)

// SellConfig holds take-profit / stop-loss thresholds in percent.
type SellConfig struct {
	UpperLimitPct float64 // liquidate above this gain
	LowerLimitPct float64 // liquidate below this loss (negative)
}

// DefaultSellConfig returns the component default preset (+9 / −3).
// The daily pipeline's strategy config carries its own preset (+8 / −3);
// caller-supplied values always win over this default.
func DefaultSellConfig() SellConfig {
	return SellConfig{
		UpperLimitPct: 9,
		LowerLimitPct: -3,
	}
}

// Selector derives liquidation orders from open positions.
type Selector struct {
	config SellConfig
	logger *logger.Logger
}

// NewSelector creates a sell selector.
func NewSelector(config SellConfig, log *logger.Logger) *Selector {
	return &Selector{config: config, logger: log}
}

// Select emits a full-liquidation order (symbol, −qty) for every position
// whose profit/loss percentage breaches either threshold. Positions inside
// the band are held unchanged; positions are never partially trimmed.
func (s *Selector) Select(positions []contracts.Position) []contracts.Order {
	sells := make([]contracts.Order, 0)
	for i := range positions {
		pos := &positions[i]
		pl := pos.ProfitLossPct()
		if pl > s.config.UpperLimitPct || pl < s.config.LowerLimitPct {
			sells = append(sells, contracts.Order{Symbol: pos.Symbol, Qty: -pos.Qty})
			s.logger.WithFields(map[string]interface{}{
				"symbol":      pos.Symbol,
				"profit_loss": pl,
				"qty":         pos.Qty,
			}).Info("Position marked for liquidation")
		}
	}
	return sells
}

package orders

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/internal/scoring"
	"github.com/dykim-quant/valo/pkg/logger"
)

// BuyConfig holds buy-side selection and sizing parameters.
type BuyConfig struct {
	// LowerPercentile and UpperPercentile bound the composite-score band.
	// Candidates must fall strictly inside (lower, upper): the weakest
	// scores and the extreme outliers are both excluded.
	LowerPercentile float64
	UpperPercentile float64
	// MaxCandidates caps the banded set to the top N by score. Zero means
	// no cap.
	MaxCandidates int
}

// DefaultBuyConfig returns the default 85–95 band with no candidate cap.
func DefaultBuyConfig() BuyConfig {
	return BuyConfig{
		LowerPercentile: 85,
		UpperPercentile: 95,
		MaxCandidates:   0,
	}
}

// Allocator converts a fused score table into sized buy orders.
type Allocator struct {
	config BuyConfig
	logger *logger.Logger
}

// NewAllocator creates a buy allocator.
func NewAllocator(config BuyConfig, log *logger.Logger) *Allocator {
	return &Allocator{config: config, logger: log}
}

// Allocate picks buy candidates from the score table and sizes them against
// investMoney. Symbols already held are excluded first; the percentile band
// is computed over what remains. Capital is split proportionally to score
// and converted to whole shares by floor division, so the sum of allocated
// amounts never exceeds investMoney. Zero-quantity orders are kept; filtering
// them is the caller's concern. An empty candidate set yields an empty list.
func (a *Allocator) Allocate(table contracts.ScoreTable, held map[string]bool, investMoney float64) []contracts.Order {
	candidates := make([]contracts.ScoreRow, 0, table.Len())
	for _, row := range table.Rows {
		if held[row.Symbol] {
			continue
		}
		candidates = append(candidates, row)
	}
	if len(candidates) == 0 {
		return nil
	}

	banded := a.band(candidates)
	if a.config.MaxCandidates > 0 && len(banded) > a.config.MaxCandidates {
		sort.Slice(banded, func(i, j int) bool {
			return banded[i].Score > banded[j].Score
		})
		banded = banded[:a.config.MaxCandidates]
	}
	if len(banded) == 0 {
		a.logger.WithFields(map[string]interface{}{
			"candidates": len(candidates),
		}).Info("No buy candidates inside percentile band")
		return nil
	}

	scores := make([]float64, len(banded))
	for i, row := range banded {
		scores[i] = row.Score
	}
	totalScore := floats.Sum(scores)

	buys := make([]contracts.Order, 0, len(banded))
	for _, row := range banded {
		var investAmount float64
		if totalScore > 0 {
			investAmount = row.Score / totalScore * investMoney
		}
		qty := 0
		if row.Close > 0 {
			qty = int(math.Floor(investAmount / row.Close))
		}
		buys = append(buys, contracts.Order{Symbol: row.Symbol, Qty: qty})
	}

	a.logger.WithFields(map[string]interface{}{
		"candidates":   len(candidates),
		"banded":       len(banded),
		"invest_money": investMoney,
	}).Info("Buy orders allocated")

	return buys
}

// band keeps rows strictly inside the configured percentile interval.
func (a *Allocator) band(rows []contracts.ScoreRow) []contracts.ScoreRow {
	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = row.Score
	}
	lower := scoring.Percentile(scores, a.config.LowerPercentile)
	upper := scoring.Percentile(scores, a.config.UpperPercentile)

	banded := make([]contracts.ScoreRow, 0, len(rows))
	for _, row := range rows {
		if row.Score > lower && row.Score < upper {
			banded = append(banded, row)
		}
	}
	return banded
}

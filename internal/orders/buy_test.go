package orders

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/internal/scoring"
	"github.com/dykim-quant/valo/pkg/logger"
)

// spreadTable builds a 20-row table with scores 1..20 and uniform close price.
func spreadTable(close float64) contracts.ScoreTable {
	table := contracts.ScoreTable{}
	for i := 1; i <= 20; i++ {
		table.Rows = append(table.Rows, contracts.ScoreRow{
			Symbol: fmt.Sprintf("S%02d", i),
			Score:  float64(i),
			Close:  close,
		})
	}
	return table
}

func TestAllocator_BandExclusivity(t *testing.T) {
	table := spreadTable(100)
	alloc := NewAllocator(DefaultBuyConfig(), logger.Nop())

	buys := alloc.Allocate(table, nil, 1_000_000)
	require.NotEmpty(t, buys)

	scores := table.Scores()
	lower := scoring.Percentile(scores, 85)
	upper := scoring.Percentile(scores, 95)

	byScore := map[string]float64{}
	for _, row := range table.Rows {
		byScore[row.Symbol] = row.Score
	}
	for _, o := range buys {
		score := byScore[o.Symbol]
		assert.Greater(t, score, lower, "candidate %s at or below 85th percentile", o.Symbol)
		assert.Less(t, score, upper, "candidate %s at or above 95th percentile", o.Symbol)
	}
}

func TestAllocator_ExcludesHeldSymbols(t *testing.T) {
	table := spreadTable(100)
	held := map[string]bool{"S17": true, "S18": true}

	alloc := NewAllocator(DefaultBuyConfig(), logger.Nop())
	buys := alloc.Allocate(table, held, 1_000_000)

	for _, o := range buys {
		assert.False(t, held[o.Symbol], "held symbol %s was allocated a buy", o.Symbol)
	}
}

func TestAllocator_ConservesCapital(t *testing.T) {
	table := spreadTable(37) // price that does not divide evenly
	alloc := NewAllocator(DefaultBuyConfig(), logger.Nop())

	investMoney := 500_000.0
	buys := alloc.Allocate(table, nil, investMoney)
	require.NotEmpty(t, buys)

	spent := 0.0
	byClose := map[string]float64{}
	for _, row := range table.Rows {
		byClose[row.Symbol] = row.Close
	}
	for _, o := range buys {
		spent += float64(o.Qty) * byClose[o.Symbol]
	}
	assert.LessOrEqual(t, spent, investMoney, "floor rounding must never overspend")
}

func TestAllocator_MaxCandidatesCapsByScore(t *testing.T) {
	table := spreadTable(100)
	cfg := DefaultBuyConfig()
	cfg.MaxCandidates = 1

	alloc := NewAllocator(cfg, logger.Nop())
	buys := alloc.Allocate(table, nil, 1_000_000)

	require.Len(t, buys, 1)

	// the single survivor must be the highest-scoring banded row
	uncapped := NewAllocator(DefaultBuyConfig(), logger.Nop()).Allocate(table, nil, 1_000_000)
	byScore := map[string]float64{}
	for _, row := range table.Rows {
		byScore[row.Symbol] = row.Score
	}
	best := uncapped[0]
	for _, o := range uncapped {
		if byScore[o.Symbol] > byScore[best.Symbol] {
			best = o
		}
	}
	assert.Equal(t, best.Symbol, buys[0].Symbol)
}

func TestAllocator_KeepsZeroQuantityRows(t *testing.T) {
	// close price far above any allocation slice: quantities floor to zero
	// but the rows still appear in the output.
	table := spreadTable(10_000_000)
	alloc := NewAllocator(DefaultBuyConfig(), logger.Nop())

	buys := alloc.Allocate(table, nil, 1000)
	require.NotEmpty(t, buys)
	for _, o := range buys {
		assert.Equal(t, 0, o.Qty)
	}
}

func TestAllocator_EmptyInput(t *testing.T) {
	alloc := NewAllocator(DefaultBuyConfig(), logger.Nop())
	assert.Empty(t, alloc.Allocate(contracts.ScoreTable{}, nil, 1_000_000))
}

func TestAllocator_DegenerateConstantScores(t *testing.T) {
	// constant-valued series: percentile band is empty (no score strictly
	// between bounds), must not crash and must yield no orders.
	table := contracts.ScoreTable{Rows: []contracts.ScoreRow{
		{Symbol: "A", Score: 1, Close: 100},
		{Symbol: "B", Score: 1, Close: 100},
		{Symbol: "C", Score: 1, Close: 100},
	}}

	alloc := NewAllocator(DefaultBuyConfig(), logger.Nop())
	assert.Empty(t, alloc.Allocate(table, nil, 1_000_000))
}

func TestAllocator_SingleRow(t *testing.T) {
	// single-element series: both percentiles equal the value, open interval
	// is empty. Pass through without error.
	table := contracts.ScoreTable{Rows: []contracts.ScoreRow{
		{Symbol: "ONLY", Score: 2, Close: 100},
	}}

	alloc := NewAllocator(DefaultBuyConfig(), logger.Nop())
	assert.Empty(t, alloc.Allocate(table, nil, 1_000_000))
}

func TestAllocator_ProportionalAllocation(t *testing.T) {
	// force a wide band so proportionality is observable
	cfg := BuyConfig{LowerPercentile: 0, UpperPercentile: 100}
	table := contracts.ScoreTable{Rows: []contracts.ScoreRow{
		{Symbol: "LOW", Score: 1, Close: 1},
		{Symbol: "MID", Score: 2, Close: 1},
		{Symbol: "HIGH", Score: 3, Close: 1},
		{Symbol: "FLOOR", Score: 0.5, Close: 1},
		{Symbol: "CEIL", Score: 9, Close: 1},
	}}
	// band (0,100) strictly excludes min (0.5) and max (9)

	alloc := NewAllocator(cfg, logger.Nop())
	buys := alloc.Allocate(table, nil, 6000)
	require.Len(t, buys, 3)

	qty := map[string]int{}
	for _, o := range buys {
		qty[o.Symbol] = o.Qty
	}
	// Σscore = 6; shares: LOW 1000, MID 2000, HIGH 3000
	assert.Equal(t, 1000, qty["LOW"])
	assert.Equal(t, 2000, qty["MID"])
	assert.Equal(t, 3000, qty["HIGH"])
}

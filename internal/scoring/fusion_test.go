package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/pkg/logger"
)

func TestScorer_InnerJoin(t *testing.T) {
	// BOTH survives both filters; PBR_ONLY has negative profit, PER_ONLY has
	// negative equity. Only BOTH may appear in the fused table.
	records := []contracts.FundamentalRecord{
		rec("BOTH", 1000, 500, 100),
		rec("PBR_ONLY", 1000, 500, -100),
		rec("PER_ONLY", 1000, -500, 100),
	}

	scorer := NewScorer(DefaultScoreConfig(), logger.Nop())
	table := scorer.Score(records)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, "BOTH", table.Rows[0].Symbol)
}

func TestScorer_NormalizationBounds(t *testing.T) {
	records := []contracts.FundamentalRecord{
		rec("A", 500, 1000, 50),
		rec("B", 1500, 1000, 150),
		rec("C", 3000, 1000, 300),
	}

	scorer := NewScorer(DefaultScoreConfig(), logger.Nop())
	table := scorer.Score(records)
	require.Equal(t, 3, table.Len())

	var pbrMin, pbrMax, perMin, perMax = 2.0, -1.0, 2.0, -1.0
	for _, row := range table.Rows {
		if row.PBRScore < pbrMin {
			pbrMin = row.PBRScore
		}
		if row.PBRScore > pbrMax {
			pbrMax = row.PBRScore
		}
		if row.PERScore < perMin {
			perMin = row.PERScore
		}
		if row.PERScore > perMax {
			perMax = row.PERScore
		}
	}
	assert.InDelta(t, 0.0, pbrMin, 1e-9)
	assert.InDelta(t, 1.0, pbrMax, 1e-9)
	assert.InDelta(t, 0.0, perMin, 1e-9)
	assert.InDelta(t, 1.0, perMax, 1e-9)
}

func TestScorer_CompositeWeights(t *testing.T) {
	records := []contracts.FundamentalRecord{
		rec("A", 500, 1000, 50),
		rec("B", 3000, 1000, 300),
	}

	scorer := NewScorer(DefaultScoreConfig(), logger.Nop())
	table := scorer.Score(records)
	require.Equal(t, 2, table.Len())

	for _, row := range table.Rows {
		expected := 1.0*row.PBRScore + 0.3*row.PERScore
		assert.InDelta(t, expected, row.Score, 1e-9)
	}
}

func TestScorer_CarriesClose(t *testing.T) {
	r := rec("A", 500, 1000, 50)
	r.Close = 71200
	other := rec("B", 3000, 1000, 300)

	scorer := NewScorer(DefaultScoreConfig(), logger.Nop())
	table := scorer.Score([]contracts.FundamentalRecord{r, other})

	for _, row := range table.Rows {
		if row.Symbol == "A" {
			assert.Equal(t, 71200.0, row.Close)
		}
	}
}

func TestScorer_EmptyAndInvalidInput(t *testing.T) {
	scorer := NewScorer(DefaultScoreConfig(), logger.Nop())

	empty := scorer.Score(nil)
	assert.Equal(t, 0, empty.Len())

	// structurally invalid records (no close) are dropped up front
	invalid := contracts.FundamentalRecord{Symbol: "X", MarketCap: 100, Equity: 50, NetProfit: 10}
	dropped := scorer.Score([]contracts.FundamentalRecord{invalid})
	assert.Equal(t, 0, dropped.Len())
}

func TestScorer_SingleSurvivorNormalizesToZero(t *testing.T) {
	// One-row cohort: min == max, normalized scores collapse to 0.
	scorer := NewScorer(DefaultScoreConfig(), logger.Nop())
	table := scorer.Score([]contracts.FundamentalRecord{rec("ONLY", 1000, 500, 100)})

	require.Equal(t, 1, table.Len())
	assert.Equal(t, 0.0, table.Rows[0].PBRScore)
	assert.Equal(t, 0.0, table.Rows[0].PERScore)
	assert.Equal(t, 0.0, table.Rows[0].Score)
}

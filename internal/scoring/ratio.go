package scoring

import (
	"gonum.org/v1/gonum/floats"

	"github.com/dykim-quant/valo/internal/contracts"
)

// ScoreConfig holds ratio scoring parameters.
type ScoreConfig struct {
	// PBRWeight and PERWeight weight the normalized per-ratio scores in the
	// composite.
	PBRWeight float64
	PERWeight float64
	// RatioFloor, when positive, clamps ratios below it before the inverse
	// transform. The transform score = Σratio/ratio diverges as a ratio
	// approaches zero; the floor is an opt-in bound and is disabled (0) by
	// default to keep the reference behavior.
	RatioFloor float64
}

// DefaultScoreConfig returns the default weights: PBR dominates, PER tempers.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		PBRWeight:  1.0,
		PERWeight:  0.3,
		RatioFloor: 0,
	}
}

// ratioFunc extracts one valuation ratio from a record.
type ratioFunc func(*contracts.FundamentalRecord) float64

// scoreRatio computes inverse-rank scores for one ratio over a cohort.
// Rows with a non-positive ratio are dropped entirely, not zeroed.
// score_i = (Σ ratio_j over surviving j) / ratio_i, so a lower ratio
// scores higher. An empty survivor set returns an empty slice.
func scoreRatio(records []contracts.FundamentalRecord, ratio ratioFunc, floor float64) []contracts.RatioScore {
	survivors := make([]contracts.RatioScore, 0, len(records))
	ratios := make([]float64, 0, len(records))
	for i := range records {
		r := ratio(&records[i])
		if r <= 0 {
			continue
		}
		if floor > 0 && r < floor {
			r = floor
		}
		survivors = append(survivors, contracts.RatioScore{Symbol: records[i].Symbol, Ratio: r})
		ratios = append(ratios, r)
	}
	if len(survivors) == 0 {
		return nil
	}

	sum := floats.Sum(ratios)
	for i := range survivors {
		survivors[i].Score = sum / survivors[i].Ratio
	}
	return survivors
}

// PBRScores scores a cohort on Price-to-Book. Records whose equity is not
// strictly positive never appear in the result.
func PBRScores(records []contracts.FundamentalRecord, cfg ScoreConfig) []contracts.RatioScore {
	return scoreRatio(records, (*contracts.FundamentalRecord).PBR, cfg.RatioFloor)
}

// PERScores scores a cohort on Price-to-Earnings. Records whose net profit
// is not strictly positive never appear in the result.
func PERScores(records []contracts.FundamentalRecord, cfg ScoreConfig) []contracts.RatioScore {
	return scoreRatio(records, (*contracts.FundamentalRecord).PER, cfg.RatioFloor)
}

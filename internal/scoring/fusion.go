package scoring

import (
	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/pkg/logger"
)

// Scorer turns a cohort's fundamental records into a fused score table.
type Scorer struct {
	config ScoreConfig
	logger *logger.Logger
}

// NewScorer creates a scorer.
func NewScorer(config ScoreConfig, log *logger.Logger) *Scorer {
	return &Scorer{config: config, logger: log}
}

// Score runs the full per-cohort scoring: PBR and PER inverse-rank scores,
// inner join on symbol, per-cohort min-max normalization, and the weighted
// composite. Close prices are carried through for order sizing. The returned
// table is empty (not an error) when no symbol survives both ratio filters.
func (s *Scorer) Score(records []contracts.FundamentalRecord) contracts.ScoreTable {
	usable := make([]contracts.FundamentalRecord, 0, len(records))
	for _, rec := range records {
		if rec.Valid() {
			usable = append(usable, rec)
		}
	}

	pbrScores := PBRScores(usable, s.config)
	perScores := PERScores(usable, s.config)

	table := fuse(pbrScores, perScores, s.config)

	closeBySymbol := make(map[string]float64, len(usable))
	for _, rec := range usable {
		closeBySymbol[rec.Symbol] = rec.Close
	}
	for i := range table.Rows {
		table.Rows[i].Close = closeBySymbol[table.Rows[i].Symbol]
	}

	s.logger.WithFields(map[string]interface{}{
		"records":    len(records),
		"usable":     len(usable),
		"pbr_scored": len(pbrScores),
		"per_scored": len(perScores),
		"fused":      table.Len(),
	}).Debug("Cohort scored")

	return table
}

// fuse inner-joins the two ratio score lists on symbol, min-max normalizes
// each score column across the joined rows, and computes the weighted
// composite. Normalization is per fusion call; concatenating cohort tables
// afterwards does not re-normalize.
func fuse(pbrScores, perScores []contracts.RatioScore, cfg ScoreConfig) contracts.ScoreTable {
	perBySymbol := make(map[string]float64, len(perScores))
	for _, ps := range perScores {
		perBySymbol[ps.Symbol] = ps.Score
	}

	rows := make([]contracts.ScoreRow, 0, len(pbrScores))
	for _, pb := range pbrScores {
		per, ok := perBySymbol[pb.Symbol]
		if !ok {
			continue // inner join: must survive both filters
		}
		rows = append(rows, contracts.ScoreRow{
			Symbol:   pb.Symbol,
			PBRScore: pb.Score,
			PERScore: per,
		})
	}
	if len(rows) == 0 {
		return contracts.ScoreTable{}
	}

	pbrCol := make([]float64, len(rows))
	perCol := make([]float64, len(rows))
	for i, row := range rows {
		pbrCol[i] = row.PBRScore
		perCol[i] = row.PERScore
	}
	MinMaxNormalize(pbrCol)
	MinMaxNormalize(perCol)

	for i := range rows {
		rows[i].PBRScore = pbrCol[i]
		rows[i].PERScore = perCol[i]
		rows[i].Score = cfg.PBRWeight*pbrCol[i] + cfg.PERWeight*perCol[i]
	}

	return contracts.ScoreTable{Rows: rows}
}

package contracts

// RatioScore is one symbol's score for a single valuation ratio.
type RatioScore struct {
	Symbol string  `json:"symbol"`
	Ratio  float64 `json:"ratio"`
	Score  float64 `json:"score"`
}

// ScoreRow is one symbol's fused score in a cohort's score table.
type ScoreRow struct {
	Symbol   string  `json:"symbol"`
	PBRScore float64 `json:"pbr_score"` // min-max normalized within the cohort
	PERScore float64 `json:"per_score"` // min-max normalized within the cohort
	Score    float64 `json:"score"`     // weighted composite
	Close    float64 `json:"close"`     // carried through for sizing
}

// ScoreTable is the fused score table for one or more cohorts.
// Cohort tables are concatenated; row order carries no meaning.
type ScoreTable struct {
	Rows []ScoreRow `json:"rows"`
}

// Append concatenates another table's rows.
func (t *ScoreTable) Append(other ScoreTable) {
	t.Rows = append(t.Rows, other.Rows...)
}

// Scores returns the composite score column.
func (t *ScoreTable) Scores() []float64 {
	scores := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		scores[i] = row.Score
	}
	return scores
}

// Len returns the number of rows.
func (t *ScoreTable) Len() int {
	return len(t.Rows)
}

package contracts

import "time"

// FundamentalRecord is one symbol's valuation inputs for a single scoring run.
// Built fresh from the data providers each run; never persisted.
type FundamentalRecord struct {
	Symbol      string    `json:"symbol"`
	Close       float64   `json:"close"`       // most recent close price (KRW)
	MarketCap   float64   `json:"market_cap"`  // 시가총액
	NetProfit   float64   `json:"net_profit"`  // 당기순이익 (signed)
	Assets      float64   `json:"assets"`      // 총자산
	Liabilities float64   `json:"liabilities"` // 총부채
	Equity      float64   `json:"equity"`      // 총자본 = 자산 − 부채 (signed)
	EBITDA      float64   `json:"ebitda"`
	AsOf        time.Time `json:"as_of"`
}

// Valid reports whether the record is structurally usable for scoring.
// Economic validity (non-positive equity/profit) is handled downstream by
// the per-ratio filters, not here.
func (r *FundamentalRecord) Valid() bool {
	return r.Symbol != "" && r.Close > 0 && r.MarketCap >= 0
}

// PBR is market capitalization over total equity.
func (r *FundamentalRecord) PBR() float64 {
	if r.Equity == 0 {
		return 0
	}
	return r.MarketCap / r.Equity
}

// PER is market capitalization over net profit.
func (r *FundamentalRecord) PER() float64 {
	if r.NetProfit == 0 {
		return 0
	}
	return r.MarketCap / r.NetProfit
}

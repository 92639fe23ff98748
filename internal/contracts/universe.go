package contracts

import "time"

// Security types eligible for trading.
// KRX 단축코드 기준: 보통주(ST), ETF(EF), ETN(EN).
const (
	SecTypeStock = "ST"
	SecTypeETF   = "EF"
	SecTypeETN   = "EN"
)

// Markets eligible for trading.
const (
	MarketKOSPI  = "유가증권"
	MarketKOSDAQ = "코스닥"
)

// SymbolInfo is one row of the exchange symbol master.
type SymbolInfo struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Market     string `json:"market"`
	AdminIssue bool   `json:"admin_issue"` // 관리종목 여부
	SecType    string `json:"sec_type"`
}

// Universe is the filtered set of tradeable symbols for one run.
type Universe struct {
	Date     time.Time         `json:"date"`
	Symbols  []string          `json:"symbols"`
	Excluded map[string]string `json:"excluded"` // symbol → exclusion reason
}

// Contains checks membership.
func (u *Universe) Contains(symbol string) bool {
	for _, s := range u.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// Count returns the number of tradeable symbols.
func (u *Universe) Count() int {
	return len(u.Symbols)
}

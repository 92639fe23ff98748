package universe

import (
	"fmt"
	"sort"
	"time"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/pkg/logger"
)

// Filter builds the tradeable universe from the exchange symbol master.
type Filter struct {
	logger *logger.Logger
}

// NewFilter creates a universe filter.
func NewFilter(log *logger.Logger) *Filter {
	return &Filter{logger: log}
}

// Build keeps main-board and secondary-board listings with the admin-issue
// flag cleared and a tradeable security type (common stock, ETF, ETN).
// Symbols are deduplicated and returned sorted. An empty symbol master is a
// hard failure: no order list can be synthesized from nothing.
func (f *Filter) Build(date time.Time, infos []contracts.SymbolInfo) (*contracts.Universe, error) {
	if len(infos) == 0 {
		return nil, fmt.Errorf("symbol master is empty")
	}

	universe := &contracts.Universe{
		Date:     date,
		Symbols:  make([]string, 0, len(infos)),
		Excluded: make(map[string]string),
	}

	seen := make(map[string]bool, len(infos))
	for _, info := range infos {
		if seen[info.Symbol] {
			continue
		}
		seen[info.Symbol] = true

		if reason := checkExclusion(info); reason != "" {
			universe.Excluded[info.Symbol] = reason
			continue
		}
		universe.Symbols = append(universe.Symbols, info.Symbol)
	}
	sort.Strings(universe.Symbols)

	f.logger.WithFields(map[string]interface{}{
		"total":    len(infos),
		"kept":     len(universe.Symbols),
		"excluded": len(universe.Excluded),
	}).Info("Universe built")

	return universe, nil
}

// checkExclusion returns the exclusion reason, or "" when tradeable.
func checkExclusion(info contracts.SymbolInfo) string {
	if info.Market != contracts.MarketKOSPI && info.Market != contracts.MarketKOSDAQ {
		return fmt.Sprintf("market %q not tradeable", info.Market)
	}
	if info.AdminIssue {
		return "관리종목"
	}
	switch info.SecType {
	case contracts.SecTypeStock, contracts.SecTypeETF, contracts.SecTypeETN:
		return ""
	default:
		return fmt.Sprintf("security type %q not tradeable", info.SecType)
	}
}

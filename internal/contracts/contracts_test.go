package contracts

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestPosition_ProfitLossPct(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want float64
	}{
		{
			name: "ten percent gain",
			pos:  Position{Symbol: "005930", Qty: 10, TradePrice: 100, CurrentPrice: 110},
			want: 10,
		},
		{
			name: "three percent loss",
			pos:  Position{Symbol: "000660", Qty: 5, TradePrice: 100, CurrentPrice: 97},
			want: -3,
		},
		{
			name: "flat",
			pos:  Position{Symbol: "035420", Qty: 1, TradePrice: 50000, CurrentPrice: 50000},
			want: 0,
		},
		{
			name: "zero trade price does not divide by zero",
			pos:  Position{Symbol: "068270", Qty: 1, TradePrice: 0, CurrentPrice: 100},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.pos.ProfitLossPct()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ProfitLossPct() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPortfolioStatus_HeldSymbols(t *testing.T) {
	status := &PortfolioStatus{
		Date: time.Now(),
		Cash: 1_000_000,
		Positions: []Position{
			{Symbol: "005930", Qty: 10},
			{Symbol: "000660", Qty: 3},
		},
	}

	held := status.HeldSymbols()
	if len(held) != 2 {
		t.Fatalf("HeldSymbols() len = %d, want 2", len(held))
	}
	if !held["005930"] || !held["000660"] {
		t.Errorf("HeldSymbols() = %v, missing expected symbols", held)
	}
	if held["035420"] {
		t.Error("HeldSymbols() contains symbol that is not held")
	}
}

func TestFundamentalRecord_Ratios(t *testing.T) {
	rec := &FundamentalRecord{
		Symbol:    "005930",
		Close:     70000,
		MarketCap: 4000,
		NetProfit: 400,
		Equity:    2000,
	}

	if got := rec.PBR(); got != 2.0 {
		t.Errorf("PBR() = %v, want 2.0", got)
	}
	if got := rec.PER(); got != 10.0 {
		t.Errorf("PER() = %v, want 10.0", got)
	}

	// zero denominators must not panic
	zero := &FundamentalRecord{Symbol: "X", MarketCap: 100}
	if got := zero.PBR(); got != 0 {
		t.Errorf("PBR() with zero equity = %v, want 0", got)
	}
	if got := zero.PER(); got != 0 {
		t.Errorf("PER() with zero profit = %v, want 0", got)
	}
}

func TestFundamentalRecord_Valid(t *testing.T) {
	valid := &FundamentalRecord{Symbol: "005930", Close: 70000, MarketCap: 100}
	if !valid.Valid() {
		t.Error("expected record to be valid")
	}

	noClose := &FundamentalRecord{Symbol: "005930", Close: 0, MarketCap: 100}
	if noClose.Valid() {
		t.Error("record without close price must be invalid")
	}

	noSymbol := &FundamentalRecord{Close: 100, MarketCap: 100}
	if noSymbol.Valid() {
		t.Error("record without symbol must be invalid")
	}
}

func TestOrderBook_Orders(t *testing.T) {
	book := OrderBook{"005930": 5, "000660": -3}

	orders := book.Orders()
	if len(orders) != 2 {
		t.Fatalf("Orders() len = %d, want 2", len(orders))
	}

	byn := map[string]int{}
	for _, o := range orders {
		byn[o.Symbol] = o.Qty
	}
	if byn["005930"] != 5 || byn["000660"] != -3 {
		t.Errorf("Orders() = %v", byn)
	}
}

func TestOrder_Side(t *testing.T) {
	if !(Order{Symbol: "X", Qty: 1}).IsBuy() {
		t.Error("positive qty must be a buy")
	}
	if !(Order{Symbol: "X", Qty: -1}).IsSell() {
		t.Error("negative qty must be a sell")
	}
	zero := Order{Symbol: "X", Qty: 0}
	if zero.IsBuy() || zero.IsSell() {
		t.Error("zero qty is neither buy nor sell")
	}
}

func TestScoreTable_Append(t *testing.T) {
	a := ScoreTable{Rows: []ScoreRow{{Symbol: "A", Score: 1}}}
	b := ScoreTable{Rows: []ScoreRow{{Symbol: "B", Score: 2}, {Symbol: "C", Score: 3}}}

	a.Append(b)
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	scores := a.Scores()
	if scores[0] != 1 || scores[2] != 3 {
		t.Errorf("Scores() = %v", scores)
	}
}

func TestPortfolioStatus_JSON(t *testing.T) {
	original := &PortfolioStatus{
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Cash:      750_000_000,
		CashKnown: true,
		Positions: []Position{
			{Symbol: "005930", Qty: 10, TradePrice: 70000, CurrentPrice: 75600},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded PortfolioStatus
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Cash != original.Cash || len(decoded.Positions) != 1 {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

package contracts

// Order is a signed order quantity for one symbol.
// Positive quantity buys, negative sells.
type Order struct {
	Symbol string `json:"symbol"`
	Qty    int    `json:"qty"`
}

// IsBuy reports whether the order buys.
func (o Order) IsBuy() bool {
	return o.Qty > 0
}

// IsSell reports whether the order sells.
func (o Order) IsSell() bool {
	return o.Qty < 0
}

// OrderBook is the final reconciled output of a pipeline run:
// at most one net signed quantity per symbol.
type OrderBook map[string]int

// Orders flattens the book into a slice. Order of entries is unspecified.
func (b OrderBook) Orders() []Order {
	orders := make([]Order, 0, len(b))
	for symbol, qty := range b {
		orders = append(orders, Order{Symbol: symbol, Qty: qty})
	}
	return orders
}

package orders

import "github.com/dykim-quant/valo/internal/contracts"

// Merge reconciles buy and sell order lists into one net signed quantity per
// symbol. A symbol appearing in both lists sums to a single combined order.
// The operation is commutative in its arguments.
func Merge(buys, sells []contracts.Order) contracts.OrderBook {
	book := make(contracts.OrderBook, len(buys)+len(sells))
	for _, o := range buys {
		book[o.Symbol] += o.Qty
	}
	for _, o := range sells {
		book[o.Symbol] += o.Qty
	}
	return book
}

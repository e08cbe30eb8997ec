// Package report renders plain-text views of a book and its trade log,
// meant for the demo binary and quick debugging.
package report

import (
	"fmt"
	"io"

	"github.com/tradesim/venue-sim/pkg/orderbook"
)

// WriteBook prints both sides of the book, bids best first then asks best
// first, one line per resting order.
func WriteBook(w io.Writer, book *orderbook.OrderBook) {
	fmt.Fprintln(w, "--- BUY ORDERS ---")
	for _, level := range book.BuyLevels() {
		for _, o := range level.Orders {
			fmt.Fprintf(w, "Buy: ID=%s, Qty=%d, Price=%g\n", o.ID, o.Qty, level.Price)
		}
	}
	fmt.Fprintln(w, "--- SELL ORDERS ---")
	for _, level := range book.SellLevels() {
		for _, o := range level.Orders {
			fmt.Fprintf(w, "Sell: ID=%s, Qty=%d, Price=%g\n", o.ID, o.Qty, level.Price)
		}
	}
}

// WriteTrades prints the trade log in settlement order.
func WriteTrades(w io.Writer, book *orderbook.OrderBook) {
	fmt.Fprintln(w, "--- TRADES ---")
	for _, t := range book.Trades() {
		fmt.Fprintf(w, "Trade: Buy=%s, Sell=%s, Price=%g, Qty=%d, Settlement Time=%d\n",
			t.BuyOrderID, t.SellOrderID, t.Price, t.Qty, t.SettledAt.Unix())
	}
}

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/tradesim/venue-sim/pkg/orderbook"
)

func TestWriteBookAndTrades(t *testing.T) {
	book := orderbook.NewOrderBook("AAPL")

	orders := []*orderbook.Order{
		{ID: "B1", Symbol: "AAPL", Side: orderbook.BUY, Price: 100, Qty: 10, SubmitTime: time.Now()},
		{ID: "S1", Symbol: "AAPL", Side: orderbook.SELL, Price: 99, Qty: 5, SubmitTime: time.Now()},
	}
	for _, o := range orders {
		if _, err := book.AddOrder(o); err != nil {
			t.Fatalf("AddOrder(%s): %v", o.ID, err)
		}
	}

	var sb strings.Builder
	WriteBook(&sb, book)
	WriteTrades(&sb, book)
	out := sb.String()

	for _, want := range []string{
		"--- BUY ORDERS ---",
		"Buy: ID=B1, Qty=5, Price=100",
		"--- SELL ORDERS ---",
		"--- TRADES ---",
		"Trade: Buy=B1, Sell=S1, Price=100, Qty=5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

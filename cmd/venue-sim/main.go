package main

import (
	"fmt"
	"os"
	"time"

	"github.com/tradesim/venue-sim/pkg/orderbook"
	"github.com/tradesim/venue-sim/pkg/report"
)

func main() {
	book := orderbook.NewOrderBook("AAPL")

	orders := []*orderbook.Order{
		{ID: "B1", Symbol: "AAPL", Side: orderbook.BUY, Price: 100.0, Qty: 10, SubmitTime: time.Now()},
		{ID: "S1", Symbol: "AAPL", Side: orderbook.SELL, Price: 99.0, Qty: 5, SubmitTime: time.Now()},
	}

	for _, o := range orders {
		if _, err := book.AddOrder(o); err != nil {
			fmt.Fprintf(os.Stderr, "add order %s: %v\n", o.ID, err)
			os.Exit(1)
		}
	}

	report.WriteBook(os.Stdout, book)
	report.WriteTrades(os.Stdout, book)
}

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tradesim/venue-sim/pkg/orderbook"
)

const (
	numOrders = 1_000_000
	minPrice  = 100.0
	maxPrice  = 200.0
	minQty    = 1
	maxQty    = 100
)

func randomOrder(rng *rand.Rand, id int) *orderbook.Order {
	side := orderbook.BUY
	if rng.Intn(2) == 0 {
		side = orderbook.SELL
	}
	price := minPrice + rng.Float64()*(maxPrice-minPrice)
	qty := int64(rng.Intn(maxQty-minQty+1) + minQty)

	return &orderbook.Order{
		ID:     fmt.Sprintf("ORD-%06d", id),
		Symbol: "ABC",
		Side:   side,
		Price:  float64(int(price*100)) / 100, // 2 decimal places
		Qty:    qty,
	}
}

func main() {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	obm := orderbook.NewOrderBookManager()

	totalTrades := 0
	totalQty := int64(0)
	obm.RegisterTradeCallback(func(trades []orderbook.Trade) {
		for _, t := range trades {
			totalTrades++
			totalQty += t.Qty
		}
	})

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		if _, err := obm.AddOrder(randomOrder(rng, i+1)); err != nil {
			panic(err)
		}
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("Total Orders     : %d\n", numOrders)
	fmt.Printf("Total Trades     : %d\n", totalTrades)
	fmt.Printf("Total Traded Qty : %d\n", totalQty)
	fmt.Printf("Time Taken       : %s\n", elapsed)
	fmt.Printf("Orders/sec       : %.0f\n", float64(numOrders)/elapsed.Seconds())
}

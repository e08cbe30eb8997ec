package orderbook

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/gammazero/deque"
)

// OrderBook holds the resting orders of one symbol: a price-keyed FIFO queue
// per side, a heap per side for best-price-first matching, and an append-only
// trade log. AddOrder is the sole mutating entry point; the book assumes a
// single writer and only guards reads against it.
type OrderBook struct {
	symbol string

	buyOrders  map[float64]*deque.Deque[*Order]
	sellOrders map[float64]*deque.Deque[*Order]

	buyHeap  *PriceHeap
	sellHeap *PriceHeap

	trades []Trade

	now func() time.Time

	mu sync.RWMutex
}

func NewOrderBook(symbol string) *OrderBook {
	buyHeap := NewPriceHeap(func(i, j float64) bool { return i > j })  // Max-heap
	sellHeap := NewPriceHeap(func(i, j float64) bool { return i < j }) // Min-heap

	return &OrderBook{
		symbol:     symbol,
		buyOrders:  make(map[float64]*deque.Deque[*Order]),
		sellOrders: make(map[float64]*deque.Deque[*Order]),
		buyHeap:    buyHeap,
		sellHeap:   sellHeap,
		now:        time.Now,
	}
}

func (ob *OrderBook) Symbol() string { return ob.symbol }

// AddOrder matches the incoming order against the opposite side under
// price-time priority and rests any unfilled remainder at its limit price.
// Trades are returned in execution order and appended to the trade log.
// A zero-quantity order is rejected outright so it can neither rest nor emit
// an empty trade.
func (ob *OrderBook) AddOrder(order *Order) ([]Trade, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	var trades []Trade
	if order.Side == BUY {
		// cheapest seller first, every ask <= limit crosses
		trades = ob.matchOrder(order, ob.sellOrders, ob.sellHeap,
			func(limit, best float64) bool { return best <= limit })
		if order.Qty > 0 {
			ob.addToBook(ob.buyOrders, ob.buyHeap, order)
		}
	} else {
		// highest bidder first, every bid >= limit crosses
		trades = ob.matchOrder(order, ob.buyOrders, ob.buyHeap,
			func(limit, best float64) bool { return best >= limit })
		if order.Qty > 0 {
			ob.addToBook(ob.sellOrders, ob.sellHeap, order)
		}
	}

	ob.trades = append(ob.trades, trades...)
	return trades, nil
}

func validateOrder(order *Order) error {
	if order == nil {
		return fmt.Errorf("%w: nil order", ErrInvalidOrder)
	}
	if math.IsNaN(order.Price) || math.IsInf(order.Price, 0) || order.Price < 0 {
		return fmt.Errorf("%w: price %v", ErrInvalidOrder, order.Price)
	}
	if order.Qty <= 0 {
		return fmt.Errorf("%w: qty %d", ErrInvalidOrder, order.Qty)
	}
	return nil
}

// matchOrder walks the counter side best price first and each level's queue
// front first. Both the incoming and the resting quantities are decremented
// in place; exhausted orders leave their queue and exhausted levels leave the
// book in the same step.
func (ob *OrderBook) matchOrder(
	order *Order,
	counterBook map[float64]*deque.Deque[*Order],
	counterHeap *PriceHeap,
	crosses func(limit, best float64) bool,
) []Trade {
	var trades []Trade

	for order.Qty > 0 {
		bestPrice, ok := counterHeap.Peek()
		if !ok || !crosses(order.Price, bestPrice) {
			break
		}

		q := counterBook[bestPrice]
		for order.Qty > 0 && q.Len() > 0 {
			resting := q.Front()

			tradeQty := min(order.Qty, resting.Qty)
			order.Qty -= tradeQty
			resting.Qty -= tradeQty

			trade := Trade{
				Symbol:    ob.symbol,
				Price:     bestPrice, // maker price
				Qty:       tradeQty,
				SettledAt: ob.now(),
			}
			if order.Side == BUY {
				trade.BuyOrderID = order.ID
				trade.SellOrderID = resting.ID
			} else {
				trade.BuyOrderID = resting.ID
				trade.SellOrderID = order.ID
			}
			trades = append(trades, trade)

			if resting.Qty == 0 {
				q.PopFront()
			}
		}

		if q.Len() == 0 {
			heap.Pop(counterHeap)
			delete(counterBook, bestPrice)
		}
	}

	return trades
}

func (ob *OrderBook) addToBook(book map[float64]*deque.Deque[*Order], priceHeap *PriceHeap, order *Order) {
	if book[order.Price] == nil {
		book[order.Price] = &deque.Deque[*Order]{}
		heap.Push(priceHeap, order.Price)
	}
	book[order.Price].PushBack(order)
}

// BestBid returns the highest resting buy price.
func (ob *OrderBook) BestBid() (float64, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.buyHeap.Peek()
}

// BestAsk returns the lowest resting sell price.
func (ob *OrderBook) BestAsk() (float64, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.sellHeap.Peek()
}

// BuyLevels snapshots the buy side best-to-worst (descending price).
func (ob *OrderBook) BuyLevels() []Level {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	levels := ob.snapshotLevels(ob.buyOrders)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price > levels[j].Price })
	return levels
}

// SellLevels snapshots the sell side best-to-worst (ascending price).
func (ob *OrderBook) SellLevels() []Level {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	levels := ob.snapshotLevels(ob.sellOrders)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}

func (ob *OrderBook) snapshotLevels(book map[float64]*deque.Deque[*Order]) []Level {
	levels := make([]Level, 0, len(book))
	for price, q := range book {
		level := Level{Price: price, Orders: make([]Order, 0, q.Len())}
		for i := 0; i < q.Len(); i++ {
			level.Orders = append(level.Orders, *q.At(i))
		}
		levels = append(levels, level)
	}
	return levels
}

// Trades returns the trade log in settlement order.
func (ob *OrderBook) Trades() []Trade {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	out := make([]Trade, len(ob.trades))
	copy(out, ob.trades)
	return out
}

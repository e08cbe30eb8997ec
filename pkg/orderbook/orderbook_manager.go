package orderbook

import (
	"sort"
	"sync"
)

// OrderBookManager keeps one book per symbol and fans trades out to
// registered callbacks.
type OrderBookManager struct {
	books     sync.Map
	callbacks []func([]Trade)
	mu        sync.Mutex
}

func NewOrderBookManager() *OrderBookManager {
	return &OrderBookManager{}
}

func (m *OrderBookManager) AddOrder(order *Order) ([]Trade, error) {
	book, err := m.bookFor(order)
	if err != nil {
		return nil, err
	}

	trades, err := book.AddOrder(order)
	if err != nil {
		return nil, err
	}

	if len(trades) > 0 {
		m.mu.Lock()
		cbs := m.callbacks
		m.mu.Unlock()
		for _, cb := range cbs {
			cb(trades)
		}
	}
	return trades, nil
}

// RegisterTradeCallback adds a callback invoked with the trades of every
// match. Register before submitting orders; trades produced earlier are not
// replayed.
func (m *OrderBookManager) RegisterTradeCallback(cb func([]Trade)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// Book returns the book for a symbol if one exists.
func (m *OrderBookManager) Book(symbol string) (*OrderBook, bool) {
	if val, ok := m.books.Load(symbol); ok {
		return val.(*OrderBook), true
	}
	return nil, false
}

// Symbols lists every symbol with a book, sorted.
func (m *OrderBookManager) Symbols() []string {
	var symbols []string
	m.books.Range(func(k, _ any) bool {
		symbols = append(symbols, k.(string))
		return true
	})
	sort.Strings(symbols)
	return symbols
}

func (m *OrderBookManager) bookFor(order *Order) (*OrderBook, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	if val, ok := m.books.Load(order.Symbol); ok {
		return val.(*OrderBook), nil
	}
	actual, _ := m.books.LoadOrStore(order.Symbol, NewOrderBook(order.Symbol))
	return actual.(*OrderBook), nil
}

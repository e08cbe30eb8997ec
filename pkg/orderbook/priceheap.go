package orderbook

// PriceHeap implements heap.Interface over price levels. The comparator
// decides the heap order: a max-heap tracks the best bid, a min-heap the best
// ask. A price is pushed exactly once when its level is created and popped
// when the level empties, so no duplicate bookkeeping is needed.
type PriceHeap struct {
	prices []float64
	less   func(i, j float64) bool
}

func NewPriceHeap(less func(i, j float64) bool) *PriceHeap {
	return &PriceHeap{less: less}
}

func (h *PriceHeap) Len() int { return len(h.prices) }

func (h *PriceHeap) Less(i, j int) bool { return h.less(h.prices[i], h.prices[j]) }

func (h *PriceHeap) Swap(i, j int) { h.prices[i], h.prices[j] = h.prices[j], h.prices[i] }

func (h *PriceHeap) Push(x any) {
	h.prices = append(h.prices, x.(float64))
}

func (h *PriceHeap) Pop() any {
	n := len(h.prices)
	price := h.prices[n-1]
	h.prices = h.prices[:n-1]
	return price
}

// Peek returns the best price without removing it.
func (h *PriceHeap) Peek() (float64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

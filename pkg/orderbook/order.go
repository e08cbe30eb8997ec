package orderbook

import "time"

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

// Opposite returns the counter side.
func (s Side) Opposite() Side {
	if s == BUY {
		return SELL
	}
	return BUY
}

// Order is a plain limit order. Qty is decremented in place as fills occur;
// once passed to AddOrder the book owns the order.
type Order struct {
	ID         string
	Symbol     string
	Side       Side
	Price      float64
	Qty        int64
	SubmitTime time.Time // display only, time priority comes from queue position
}

// Trade records one matched quantity. Price is always the resting (maker)
// order's price; immutable once appended to the trade log.
type Trade struct {
	BuyOrderID  string
	SellOrderID string
	Symbol      string
	Price       float64
	Qty         int64
	SettledAt   time.Time
}

// Level is a snapshot of one price level, resting orders oldest first.
// Orders are copies and stay valid after the book moves on.
type Level struct {
	Price  float64
	Orders []Order
}

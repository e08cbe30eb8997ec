package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitOrderRequest is the POST /orders body.
type SubmitOrderRequest struct {
	ClOrdID  string          `json:"clOrdId"`
	Account  string          `json:"account"`
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"` // "BUY" or "SELL"
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SubmitOrderResponse acknowledges an accepted submission.
type SubmitOrderResponse struct {
	ClOrdID string `json:"clOrdId"`
	Status  string `json:"status"`
}

// BookSnapshot is the current resting state of one symbol's book.
type BookSnapshot struct {
	Symbol    string       `json:"symbol"`
	Bids      []PriceLevel `json:"bids"` // sorted high to low
	Asks      []PriceLevel `json:"asks"` // sorted low to high
	Timestamp int64        `json:"timestamp"` // unix milliseconds
}

// PriceLevel aggregates the resting quantity at one price.
type PriceLevel struct {
	Price  float64 `json:"price"`
	Qty    int64   `json:"qty"`
	Orders int     `json:"orders"`
}

// TradeInfo is one settled trade.
type TradeInfo struct {
	Symbol      string    `json:"symbol"`
	BuyOrderID  string    `json:"buyOrderId"`
	SellOrderID string    `json:"sellOrderId"`
	Price       float64   `json:"price"`
	Qty         int64     `json:"qty"`
	SettledAt   time.Time `json:"settledAt"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

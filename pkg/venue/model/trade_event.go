package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradesim/venue-sim/pkg/orderbook"
)

// TradeEvent is the persisted/published form of a core trade.
type TradeEvent struct {
	EventID     string `gorm:"primaryKey"`
	Symbol      string
	BuyOrderID  string
	SellOrderID string
	Price       float64
	Qty         int64
	SettledAt   time.Time
}

func (TradeEvent) TableName() string { return "trade_events" }

func NewTradeEvent(trade orderbook.Trade) *TradeEvent {
	return &TradeEvent{
		EventID:     uuid.New().String(),
		Symbol:      trade.Symbol,
		BuyOrderID:  trade.BuyOrderID,
		SellOrderID: trade.SellOrderID,
		Price:       trade.Price,
		Qty:         trade.Qty,
		SettledAt:   trade.SettledAt,
	}
}

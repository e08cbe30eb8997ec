package model

import (
	"fmt"
	"time"
)

// OrderEvent is one state transition of an order, append-only.
type OrderEvent struct {
	EventID   string `gorm:"primaryKey"`
	OrderID   string
	ClOrdID   string
	ExecType  OrderExecType
	Status    OrderStatus
	Qty       int64
	Price     float64
	Timestamp time.Time
}

func (OrderEvent) TableName() string { return "order_events" }

func NewOrderEvent(order Order, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:   NewEventID(order.OrderID, order.Status, order.CumQuantity.IntPart()),
		OrderID:   order.OrderID,
		ClOrdID:   order.ClOrdID,
		ExecType:  order.ExecType,
		Status:    order.Status,
		Qty:       order.LastQuantity.IntPart(),
		Price:     order.LastPrice.InexactFloat64(),
		Timestamp: ts,
	}
}

func NewEventID(orderID string, status OrderStatus, cumQty int64) string {
	return fmt.Sprintf("%s-%s-%d", orderID, status, cumQty)
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingNew      OrderStatus = "PendingNew"
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusRejected        OrderStatus = "Rejected"
)

type OrderExecType string

const (
	ExecTypePendingNew OrderExecType = "PendingNew"
	ExecTypeNew        OrderExecType = "New"
	ExecTypeTrade      OrderExecType = "Trade"
	ExecTypeRejected   OrderExecType = "Rejected"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Order is the venue-side view of a client order. Prices and quantities stay
// decimal at this layer; the book works on the converted float/int values.
type Order struct {
	OrderID string `gorm:"primaryKey"`

	// init info
	ClOrdID      string
	Account      string
	Symbol       string
	Side         OrderSide
	Price        decimal.Decimal `gorm:"type:numeric"`
	Quantity     decimal.Decimal `gorm:"type:numeric"`
	TransactTime time.Time

	// calculated info
	ExecID         string
	Status         OrderStatus
	ExecType       OrderExecType
	CumQuantity    decimal.Decimal `gorm:"type:numeric"`
	LeavesQuantity decimal.Decimal `gorm:"type:numeric"`
	LastQuantity   decimal.Decimal `gorm:"type:numeric"`
	LastPrice      decimal.Decimal `gorm:"type:numeric"`
	AvgPrice       decimal.Decimal `gorm:"type:numeric"`
	RejectReason   string
}

func (Order) TableName() string { return "orders" }

// UpdateSubmit initializes the order from a submit command. Status starts at
// PendingNew until the book accepts it.
func (o *Order) UpdateSubmit(orderID string, submit *SubmitOrder) {
	o.OrderID = orderID
	o.ClOrdID = submit.ClOrdID
	o.Account = submit.Account
	o.Symbol = submit.Symbol
	o.Side = submit.Side
	o.Price = submit.Price
	o.Quantity = submit.Quantity
	o.TransactTime = submit.TransactTime

	o.Status = OrderStatusPendingNew
	o.ExecType = ExecTypePendingNew
	o.LeavesQuantity = submit.Quantity
	o.ExecID = uuid.New().String()
}

// UpdateAccepted marks the order booked.
func (o *Order) UpdateAccepted() {
	o.Status = OrderStatusNew
	o.ExecType = ExecTypeNew
	o.ExecID = uuid.New().String()
}

// UpdateFill applies one matched quantity and folds it into the average
// execution price.
func (o *Order) UpdateFill(qty, price decimal.Decimal) {
	notional := o.AvgPrice.Mul(o.CumQuantity).Add(price.Mul(qty))
	o.CumQuantity = o.CumQuantity.Add(qty)
	o.LeavesQuantity = o.Quantity.Sub(o.CumQuantity)
	o.LastQuantity = qty
	o.LastPrice = price
	o.AvgPrice = notional.Div(o.CumQuantity)
	o.ExecID = uuid.New().String()

	o.ExecType = ExecTypeTrade
	if o.LeavesQuantity.IsZero() {
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartiallyFilled
	}
}

// UpdateRejected marks the order refused before reaching the book.
func (o *Order) UpdateRejected(reason string) {
	o.Status = OrderStatusRejected
	o.ExecType = ExecTypeRejected
	o.LeavesQuantity = decimal.Zero
	o.RejectReason = reason
	o.ExecID = uuid.New().String()
}

// IsEnd reports whether the order can no longer change.
func (o *Order) IsEnd() bool {
	return o.Status == OrderStatusFilled || o.Status == OrderStatusRejected
}

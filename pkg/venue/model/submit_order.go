package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitOrder is the command a gateway hands to the venue. ClOrdID is the
// caller's token; the venue assigns its own OrderID on acceptance.
type SubmitOrder struct {
	ClOrdID      string
	Account      string
	Symbol       string
	Side         OrderSide
	Price        decimal.Decimal
	Quantity     decimal.Decimal
	TransactTime time.Time
}

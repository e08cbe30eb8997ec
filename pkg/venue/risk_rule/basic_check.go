package riskrule

import (
	"fmt"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

// BasicCheckRule rejects malformed orders before they can corrupt the book:
// quantity must be a positive integer, price must be positive.
type BasicCheckRule struct{}

func NewBasicCheckRule() *BasicCheckRule {
	return &BasicCheckRule{}
}

func (r *BasicCheckRule) Check(order *model.Order) error {
	if order.Symbol == "" {
		return fmt.Errorf("missing symbol")
	}
	if order.Side != model.OrderSideBuy && order.Side != model.OrderSideSell {
		return fmt.Errorf("invalid side %q", order.Side)
	}
	if !order.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive, got %s", order.Quantity)
	}
	if !order.Quantity.IsInteger() {
		return fmt.Errorf("quantity must be a whole number, got %s", order.Quantity)
	}
	if !order.Price.IsPositive() {
		return fmt.Errorf("price must be positive, got %s", order.Price)
	}
	return nil
}

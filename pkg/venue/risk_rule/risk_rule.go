package riskrule

import "github.com/tradesim/venue-sim/pkg/venue/model"

// RiskRule vets an order before it reaches the matching engine.
type RiskRule interface {
	Check(order *model.Order) error
}

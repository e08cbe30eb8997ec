package riskrule

import (
	"fmt"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

type PriceBand struct {
	Floor float64 `yaml:"floor"`
	Ceil  float64 `yaml:"ceil"`
}

// LimitPriceRule rejects orders priced outside the per-symbol band.
// Symbols without a band are unconstrained.
type LimitPriceRule struct {
	bands map[string]PriceBand
}

func NewLimitPriceRule(bands map[string]PriceBand) *LimitPriceRule {
	return &LimitPriceRule{bands: bands}
}

func (r *LimitPriceRule) Check(order *model.Order) error {
	band, ok := r.bands[order.Symbol]
	if !ok {
		return nil
	}

	price := order.Price.InexactFloat64()
	if price > band.Ceil || price < band.Floor {
		return fmt.Errorf("price %s outside band [%v, %v] for %s",
			order.Price, band.Floor, band.Ceil, order.Symbol)
	}
	return nil
}

package riskrule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

type tickSizeConfig struct {
	MaxPrice int64 `json:"maxPrice"` // 0 = no limit
	Step     int64 `json:"step"`
}

// TickSizeRule validates prices against a per-symbol tick table loaded from
// a JSON file: the first band whose MaxPrice covers the price decides the
// step.
type TickSizeRule struct {
	Config map[string][]tickSizeConfig
}

func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string][]tickSizeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &TickSizeRule{Config: cfg}, nil
}

func (r *TickSizeRule) Check(order *model.Order) error {
	rules, ok := r.Config[order.Symbol]
	if !ok { // no config -> no rule
		return nil
	}

	price := order.Price.IntPart()
	for _, rule := range rules {
		if rule.MaxPrice == 0 || price <= rule.MaxPrice {
			if price%rule.Step != 0 {
				return fmt.Errorf("price %s violates tick size %d for %s",
					order.Price, rule.Step, order.Symbol)
			}
			return nil
		}
	}

	return nil
}

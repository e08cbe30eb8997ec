package feed

import (
	"context"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

// Publisher pushes executed trades onto a downstream stream. Implementations
// must tolerate being called from the single engine goroutine only.
type Publisher interface {
	PublishTrades(ctx context.Context, events []*model.TradeEvent) error
	Close() error
}

// Noop discards trades; used when no feed is configured.
type Noop struct{}

func (Noop) PublishTrades(context.Context, []*model.TradeEvent) error { return nil }

func (Noop) Close() error { return nil }

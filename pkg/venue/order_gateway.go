package venue

import (
	"context"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

// OrderGateway is the client-facing side of the venue: it feeds submissions
// in and receives execution reports back. Reports carry order copies, safe to
// hold across calls.
type OrderGateway interface {
	Start(ctx context.Context) error

	// venue to client
	OnOrderReport(ctx context.Context, order model.Order)
}

// NopGateway accepts nothing and discards reports; used by hosts that drive
// the venue directly (demo, tests).
type NopGateway struct{}

func (NopGateway) Start(context.Context) error                { return nil }
func (NopGateway) OnOrderReport(context.Context, model.Order) {}

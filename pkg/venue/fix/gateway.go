package fixgateway

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"

	"github.com/tradesim/venue-sim/pkg/venue"
	"github.com/tradesim/venue-sim/pkg/venue/model"
)

// OrderSubmitter is the slice of the venue the gateway needs.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, submit *model.SubmitOrder) error
}

// FixGateway is a FIX 4.4 acceptor translating NewOrderSingle into venue
// submissions and venue order reports into execution reports. Only plain
// limit orders are supported; cancel and cancel/replace are business-rejected
// at the application layer.
type FixGateway struct {
	cfg      *FixGatewayConfig
	app      *Application
	venueRef OrderSubmitter
	send     func(order model.Order, sessionID *quickfix.SessionID) error

	sessionMapping sync.Map // ClOrdID -> *quickfix.SessionID
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	return &FixGateway{
		cfg:  cfg,
		send: sendExecutionReport,
	}
}

// AttachVenue wires the venue in; must happen before Start.
func (s *FixGateway) AttachVenue(v OrderSubmitter) {
	s.venueRef = v
}

func (s *FixGateway) Start(ctx context.Context) error {
	if s.venueRef == nil {
		return errors.New("fix gateway started without a venue")
	}

	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		return fmt.Errorf("start fix acceptor: %w", err)
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

// SubmitOrder converts an inbound NewOrderSingle and hands it to the venue.
// Duplicate submissions never reach the venue's report path, so the reject
// is synthesized here.
func (s *FixGateway) SubmitOrder(ctx context.Context, m *NewOrderSingle) {
	side := map[enum.Side]model.OrderSide{
		enum.Side_BUY:  model.OrderSideBuy,
		enum.Side_SELL: model.OrderSideSell,
	}[m.Side]

	s.sessionMapping.Store(m.ClOrdID, m.SessionID)

	err := s.venueRef.SubmitOrder(ctx, &model.SubmitOrder{
		ClOrdID:      m.ClOrdID,
		Account:      m.Account,
		Symbol:       m.Symbol,
		Side:         side,
		Price:        m.Price,
		Quantity:     m.OrderQty,
		TransactTime: m.TransactTime,
	})
	if errors.Is(err, venue.ErrDuplicateOrder) {
		rejected := model.Order{
			ClOrdID:  m.ClOrdID,
			Account:  m.Account,
			Symbol:   m.Symbol,
			Side:     side,
			Price:    m.Price,
			Quantity: m.OrderQty,
		}
		rejected.UpdateRejected(err.Error())
		_ = s.send(rejected, m.SessionID)
	}
}

// OnOrderReport implements venue.OrderGateway. Delivery is synchronous so
// reports reach the session in the order the venue emitted them; SendToTarget
// only queues onto the session, it does not wait for the wire.
func (s *FixGateway) OnOrderReport(ctx context.Context, order model.Order) {
	val, ok := s.sessionMapping.Load(order.ClOrdID)
	if !ok {
		// order came in through another gateway
		return
	}
	sessionID := val.(*quickfix.SessionID)

	_ = s.send(order, sessionID)
}

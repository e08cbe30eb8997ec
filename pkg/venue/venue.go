package venue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradesim/venue-sim/pkg/logging"
	"github.com/tradesim/venue-sim/pkg/marketdata"
	"github.com/tradesim/venue-sim/pkg/orderbook"
	eventstore "github.com/tradesim/venue-sim/pkg/venue/event_store"
	"github.com/tradesim/venue-sim/pkg/venue/feed"
	"github.com/tradesim/venue-sim/pkg/venue/model"
	"github.com/tradesim/venue-sim/pkg/venue/repo"
	riskrule "github.com/tradesim/venue-sim/pkg/venue/risk_rule"
)

const defaultQueueSize = 65536

type Config struct {
	QueueSize int
	Logger    *logging.Logger
}

// Venue ties a gateway to the matching core. Every submission, from any
// gateway, funnels through one channel consumed by a single goroutine, so the
// books only ever see sequential calls and price-time priority is exactly
// arrival order into that queue.
type Venue struct {
	gateway OrderGateway
	books   *orderbook.OrderBookManager
	store   eventstore.EventStore
	rules   []riskrule.RiskRule
	feed    feed.Publisher
	md      *marketdata.Cache
	log     *logging.Logger
	orders  repo.IOrder

	orderIDMapping sync.Map

	submitCh  chan *submitRequest
	persistCh chan model.Order
	stopCh    chan struct{}
	stopOnce  sync.Once
}

type submitRequest struct {
	ctx    context.Context
	submit *model.SubmitOrder
	resp   chan error
}

func NewVenue(cfg *Config, gateway OrderGateway) *Venue {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewLogger(logging.INFO)
	}

	return &Venue{
		gateway:  gateway,
		books:    orderbook.NewOrderBookManager(),
		store:    eventstore.NewInMemoryEventStore(),
		rules:    []riskrule.RiskRule{riskrule.NewBasicCheckRule()},
		feed:     feed.Noop{},
		log:      cfg.Logger,
		submitCh:  make(chan *submitRequest, cfg.QueueSize),
		persistCh: make(chan model.Order, cfg.QueueSize),
		stopCh:    make(chan struct{}),
	}
}

// SetFeed replaces the trade feed publisher. Call before Start.
func (v *Venue) SetFeed(p feed.Publisher) {
	v.feed = p
}

// SetMarketData attaches a market data cache. Call before Start.
func (v *Venue) SetMarketData(c *marketdata.Cache) {
	v.md = c
}

// SetOrderRepo enables order state persistence. Writes happen on a separate
// goroutine; the engine never blocks on the database. Call before Start.
func (v *Venue) SetOrderRepo(r repo.IOrder) {
	v.orders = r
}

// AddRiskRule appends a rule to the pre-match checks. Call before Start.
func (v *Venue) AddRiskRule(r riskrule.RiskRule) {
	v.rules = append(v.rules, r)
}

// Books exposes the order books for read-only snapshots.
func (v *Venue) Books() *orderbook.OrderBookManager {
	return v.books
}

// Events returns the recorded events of an order.
func (v *Venue) Events(orderID string) []*model.OrderEvent {
	return v.store.GetEvents(orderID)
}

func (v *Venue) Start(ctx context.Context) error {
	go v.run(ctx)
	if v.orders != nil {
		go v.runPersister(ctx)
	}
	return v.gateway.Start(ctx)
}

func (v *Venue) Stop() {
	v.stopOnce.Do(func() { close(v.stopCh) })
}

// SubmitOrder serializes the submission into the engine queue and waits for
// the outcome. Execution reports are delivered to the gateway as a side
// effect; the returned error only reflects rejection or shutdown.
func (v *Venue) SubmitOrder(ctx context.Context, submit *model.SubmitOrder) error {
	req := &submitRequest{ctx: ctx, submit: submit, resp: make(chan error, 1)}

	select {
	case v.submitCh <- req:
	case <-v.stopCh:
		return ErrVenueClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.resp:
		return err
	case <-v.stopCh:
		return ErrVenueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *Venue) run(ctx context.Context) {
	defer v.drainSubmits()
	for {
		select {
		case <-v.stopCh:
			return
		case <-ctx.Done():
			return
		case req := <-v.submitCh:
			// the send select can still enqueue while stopCh closes; never
			// match an order after Stop
			select {
			case <-v.stopCh:
				req.resp <- ErrVenueClosed
			default:
				req.resp <- v.processSubmit(req.ctx, req.submit)
			}
		}
	}
}

// drainSubmits rejects whatever is still queued when the run loop exits, so
// no caller is left waiting on a response.
func (v *Venue) drainSubmits() {
	for {
		select {
		case req := <-v.submitCh:
			req.resp <- ErrVenueClosed
		default:
			return
		}
	}
}

func (v *Venue) processSubmit(ctx context.Context, submit *model.SubmitOrder) error {
	if submit.ClOrdID != "" && v.store.GetOrderID(submit.ClOrdID) != "" {
		return ErrDuplicateOrder
	}

	order := &model.Order{}
	order.UpdateSubmit(uuid.New().String(), submit)
	v.orderIDMapping.Store(order.OrderID, order)

	for _, rule := range v.rules {
		if err := rule.Check(order); err != nil {
			order.UpdateRejected(err.Error())
			v.record(ctx, *order)
			v.log.Warn(ctx, "order rejected",
				zap.String("order_id", order.OrderID),
				zap.String("cl_ord_id", order.ClOrdID),
				zap.Error(err))
			return fmt.Errorf("%w: %v", ErrOrderRejected, err)
		}
	}

	v.record(ctx, *order) // pending new

	trades, err := v.books.AddOrder(&orderbook.Order{
		ID:         order.OrderID,
		Symbol:     order.Symbol,
		Side:       orderbook.Side(order.Side),
		Price:      order.Price.InexactFloat64(),
		Qty:        order.Quantity.IntPart(),
		SubmitTime: order.TransactTime,
	})
	if err != nil {
		order.UpdateRejected(err.Error())
		v.record(ctx, *order)
		return fmt.Errorf("%w: %v", ErrOrderRejected, err)
	}

	order.UpdateAccepted()
	v.record(ctx, *order)

	v.processTrades(ctx, trades)
	return nil
}

func (v *Venue) processTrades(ctx context.Context, trades []orderbook.Trade) {
	if len(trades) == 0 {
		return
	}

	events := make([]*model.TradeEvent, 0, len(trades))
	for _, trade := range trades {
		events = append(events, model.NewTradeEvent(trade))

		qty := decimal.NewFromInt(trade.Qty)
		price := decimal.NewFromFloat(trade.Price)
		for _, orderID := range []string{trade.BuyOrderID, trade.SellOrderID} {
			order, err := v.orderByID(orderID)
			if err != nil {
				v.log.Error(ctx, "matched order not found", zap.String("order_id", orderID))
				continue
			}
			order.UpdateFill(qty, price)
			v.record(ctx, *order)
		}
	}

	if err := v.feed.PublishTrades(ctx, events); err != nil {
		v.log.Error(ctx, "publish trades", zap.Error(err))
	}
	v.updateMarketData(ctx, events)
}

func (v *Venue) updateMarketData(ctx context.Context, events []*model.TradeEvent) {
	if v.md == nil || len(events) == 0 {
		return
	}

	last := events[len(events)-1]
	if err := v.md.UpdateLastTrade(ctx, last); err != nil {
		v.log.Error(ctx, "update last trade", zap.Error(err))
	}

	if book, ok := v.books.Book(last.Symbol); ok {
		bid, hasBid := book.BestBid()
		ask, hasAsk := book.BestAsk()
		if err := v.md.UpdateTopOfBook(ctx, last.Symbol, bid, hasBid, ask, hasAsk); err != nil {
			v.log.Error(ctx, "update top of book", zap.Error(err))
		}
	}
}

func (v *Venue) runPersister(ctx context.Context) {
	for {
		select {
		case <-v.stopCh:
			return
		case <-ctx.Done():
			return
		case order := <-v.persistCh:
			if _, err := v.orders.Upsert(ctx, &order); err != nil {
				v.log.Error(ctx, "persist order",
					zap.String("order_id", order.OrderID), zap.Error(err))
			}
		}
	}
}

func (v *Venue) record(ctx context.Context, order model.Order) {
	v.store.AddEvent(model.NewOrderEvent(order, time.Now()))
	if v.orders != nil {
		select {
		case v.persistCh <- order:
		default:
			v.log.Warn(ctx, "persist queue full, dropping order state",
				zap.String("order_id", order.OrderID))
		}
	}
	v.gateway.OnOrderReport(ctx, order)
}

func (v *Venue) orderByID(orderID string) (*model.Order, error) {
	val, ok := v.orderIDMapping.Load(orderID)
	if !ok {
		return nil, errOrderIDNotFound
	}
	return val.(*model.Order), nil
}

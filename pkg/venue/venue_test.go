package venue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesim/venue-sim/pkg/logging"
	"github.com/tradesim/venue-sim/pkg/venue/model"
	riskrule "github.com/tradesim/venue-sim/pkg/venue/risk_rule"
)

type fakeGateway struct {
	mu      sync.Mutex
	reports []model.Order
}

func (g *fakeGateway) Start(context.Context) error { return nil }

func (g *fakeGateway) OnOrderReport(_ context.Context, order model.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reports = append(g.reports, order)
}

func (g *fakeGateway) reportsFor(clOrdID string) []model.Order {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []model.Order
	for _, r := range g.reports {
		if r.ClOrdID == clOrdID {
			out = append(out, r)
		}
	}
	return out
}

type fakeFeed struct {
	mu     sync.Mutex
	events []*model.TradeEvent
}

func (f *fakeFeed) PublishTrades(_ context.Context, events []*model.TradeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeFeed) Close() error { return nil }

func (f *fakeFeed) published() []*model.TradeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.TradeEvent(nil), f.events...)
}

func newTestVenue(t *testing.T, gateway OrderGateway) *Venue {
	t.Helper()
	v := NewVenue(&Config{Logger: logging.NewNopLogger()}, gateway)
	require.NoError(t, v.Start(context.Background()))
	t.Cleanup(v.Stop)
	return v
}

func submit(clOrdID, symbol string, side model.OrderSide, price float64, qty int64) *model.SubmitOrder {
	return &model.SubmitOrder{
		ClOrdID:      clOrdID,
		Account:      "ACC1",
		Symbol:       symbol,
		Side:         side,
		Price:        decimal.NewFromFloat(price),
		Quantity:     decimal.NewFromInt(qty),
		TransactTime: time.Now(),
	}
}

func TestSubmitOrderFullFill(t *testing.T) {
	gateway := &fakeGateway{}
	v := newTestVenue(t, gateway)
	ctx := context.Background()

	require.NoError(t, v.SubmitOrder(ctx, submit("B1", "AAPL", model.OrderSideBuy, 100, 10)))
	require.NoError(t, v.SubmitOrder(ctx, submit("S1", "AAPL", model.OrderSideSell, 99, 5)))

	// seller fully filled at the resting buy's price
	sellReports := gateway.reportsFor("S1")
	require.NotEmpty(t, sellReports)
	last := sellReports[len(sellReports)-1]
	assert.Equal(t, model.OrderStatusFilled, last.Status)
	assert.True(t, last.CumQuantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, last.LeavesQuantity.IsZero())
	assert.True(t, last.AvgPrice.Equal(decimal.NewFromInt(100)))

	// buyer partially filled, remainder rests
	buyReports := gateway.reportsFor("B1")
	require.NotEmpty(t, buyReports)
	lastBuy := buyReports[len(buyReports)-1]
	assert.Equal(t, model.OrderStatusPartiallyFilled, lastBuy.Status)
	assert.True(t, lastBuy.LeavesQuantity.Equal(decimal.NewFromInt(5)))

	book, ok := v.Books().Book("AAPL")
	require.True(t, ok)
	bid, hasBid := book.BestBid()
	assert.True(t, hasBid)
	assert.Equal(t, 100.0, bid)
}

func TestSubmitOrderReportSequence(t *testing.T) {
	gateway := &fakeGateway{}
	v := newTestVenue(t, gateway)

	require.NoError(t, v.SubmitOrder(context.Background(), submit("B1", "AAPL", model.OrderSideBuy, 100, 10)))

	reports := gateway.reportsFor("B1")
	require.Len(t, reports, 2)
	assert.Equal(t, model.OrderStatusPendingNew, reports[0].Status)
	assert.Equal(t, model.OrderStatusNew, reports[1].Status)
	assert.NotEqual(t, reports[0].ExecID, reports[1].ExecID)

	// event store mirrors the report sequence
	events := v.Events(reports[0].OrderID)
	require.Len(t, events, 2)
	assert.Equal(t, model.OrderStatusPendingNew, events[0].Status)
	assert.Equal(t, model.OrderStatusNew, events[1].Status)
}

func TestDuplicateClOrdIDRejected(t *testing.T) {
	v := newTestVenue(t, &fakeGateway{})
	ctx := context.Background()

	require.NoError(t, v.SubmitOrder(ctx, submit("C1", "AAPL", model.OrderSideBuy, 100, 10)))

	err := v.SubmitOrder(ctx, submit("C1", "AAPL", model.OrderSideBuy, 101, 10))
	assert.ErrorIs(t, err, ErrDuplicateOrder)
}

func TestRiskRejection(t *testing.T) {
	gateway := &fakeGateway{}
	v := newTestVenue(t, gateway)

	err := v.SubmitOrder(context.Background(), submit("C1", "AAPL", model.OrderSideBuy, 100, 0))
	assert.ErrorIs(t, err, ErrOrderRejected)

	reports := gateway.reportsFor("C1")
	require.Len(t, reports, 1)
	assert.Equal(t, model.OrderStatusRejected, reports[0].Status)
	assert.NotEmpty(t, reports[0].RejectReason)

	// rejected orders never reach a book
	_, ok := v.Books().Book("AAPL")
	assert.False(t, ok)
}

func TestLimitPriceRuleWired(t *testing.T) {
	v := NewVenue(&Config{Logger: logging.NewNopLogger()}, NopGateway{})
	v.AddRiskRule(riskrule.NewLimitPriceRule(map[string]riskrule.PriceBand{
		"AAPL": {Floor: 50, Ceil: 150},
	}))
	require.NoError(t, v.Start(context.Background()))
	t.Cleanup(v.Stop)

	ctx := context.Background()
	assert.NoError(t, v.SubmitOrder(ctx, submit("C1", "AAPL", model.OrderSideBuy, 100, 10)))
	assert.ErrorIs(t, v.SubmitOrder(ctx, submit("C2", "AAPL", model.OrderSideBuy, 200, 10)), ErrOrderRejected)
}

func TestFeedReceivesTrades(t *testing.T) {
	feed := &fakeFeed{}
	v := NewVenue(&Config{Logger: logging.NewNopLogger()}, NopGateway{})
	v.SetFeed(feed)
	require.NoError(t, v.Start(context.Background()))
	t.Cleanup(v.Stop)

	ctx := context.Background()
	require.NoError(t, v.SubmitOrder(ctx, submit("B1", "AAPL", model.OrderSideBuy, 100, 10)))
	require.NoError(t, v.SubmitOrder(ctx, submit("S1", "AAPL", model.OrderSideSell, 99, 5)))

	events := feed.published()
	require.Len(t, events, 1)
	assert.Equal(t, "AAPL", events[0].Symbol)
	assert.Equal(t, 100.0, events[0].Price)
	assert.Equal(t, int64(5), events[0].Qty)
	assert.NotEmpty(t, events[0].EventID)
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	states map[string]model.Order
}

func (r *fakeOrderRepo) Upsert(_ context.Context, record *model.Order) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.states == nil {
		r.states = make(map[string]model.Order)
	}
	r.states[record.OrderID] = *record
	return record, nil
}

func (r *fakeOrderRepo) GetByOrderID(_ context.Context, orderID string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.states[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	return &order, nil
}

func TestOrderRepoReceivesFinalState(t *testing.T) {
	orderRepo := &fakeOrderRepo{}
	gateway := &fakeGateway{}
	v := NewVenue(&Config{Logger: logging.NewNopLogger()}, gateway)
	v.SetOrderRepo(orderRepo)
	require.NoError(t, v.Start(context.Background()))
	t.Cleanup(v.Stop)

	ctx := context.Background()
	require.NoError(t, v.SubmitOrder(ctx, submit("B1", "AAPL", model.OrderSideBuy, 100, 5)))
	require.NoError(t, v.SubmitOrder(ctx, submit("S1", "AAPL", model.OrderSideSell, 100, 5)))

	reports := gateway.reportsFor("S1")
	require.NotEmpty(t, reports)
	orderID := reports[0].OrderID

	// the persister runs async; wait for the upsert
	require.Eventually(t, func() bool {
		order, err := orderRepo.GetByOrderID(ctx, orderID)
		return err == nil && order.Status == model.OrderStatusFilled
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitAfterStop(t *testing.T) {
	v := NewVenue(&Config{Logger: logging.NewNopLogger()}, NopGateway{})
	require.NoError(t, v.Start(context.Background()))
	v.Stop()

	// the run loop may still be winding down; every post-stop submission must
	// come back ErrVenueClosed, never nil and never hang
	for i := 0; i < 100; i++ {
		err := v.SubmitOrder(context.Background(), submit(fmt.Sprintf("C%d", i), "AAPL", model.OrderSideBuy, 100, 10))
		assert.ErrorIs(t, err, ErrVenueClosed)
	}
}

func TestStopDuringSubmissions(t *testing.T) {
	v := NewVenue(&Config{Logger: logging.NewNopLogger()}, NopGateway{})
	require.NoError(t, v.Start(context.Background()))

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			err := v.SubmitOrder(ctx, submit(fmt.Sprintf("C%d", i), "AAPL", model.OrderSideBuy, 100, 1))
			if err != nil && !errors.Is(err, ErrVenueClosed) {
				t.Errorf("unexpected error: %v", err)
				return
			}
		}
	}()

	v.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("submitter still blocked after stop")
	}
}

func TestConcurrentSubmissionsConserveQuantity(t *testing.T) {
	v := newTestVenue(t, &fakeGateway{})
	ctx := context.Background()

	const perSide = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < perSide; i++ {
			_ = v.SubmitOrder(ctx, submit(fmt.Sprintf("B%d", i), "AAPL", model.OrderSideBuy, 100, 1))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perSide; i++ {
			_ = v.SubmitOrder(ctx, submit(fmt.Sprintf("S%d", i), "AAPL", model.OrderSideSell, 100, 1))
		}
	}()
	wg.Wait()

	book, ok := v.Books().Book("AAPL")
	require.True(t, ok)

	var traded, restingBuy, restingSell int64
	for _, trade := range book.Trades() {
		traded += trade.Qty
	}
	for _, level := range book.BuyLevels() {
		for _, o := range level.Orders {
			restingBuy += o.Qty
		}
	}
	for _, level := range book.SellLevels() {
		for _, o := range level.Orders {
			restingSell += o.Qty
		}
	}

	assert.Equal(t, int64(perSide), traded+restingBuy)
	assert.Equal(t, int64(perSide), traded+restingSell)

	// both sides resting at the same price would mean a crossed book
	_, hasBid := book.BestBid()
	_, hasAsk := book.BestAsk()
	assert.False(t, hasBid && hasAsk)
}

package fixgateway

import (
	"testing"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

func sampleOrder() model.Order {
	return model.Order{
		OrderID:        "O1",
		ClOrdID:        "C1",
		Account:        "ACC1",
		Symbol:         "AAPL",
		Side:           model.OrderSideBuy,
		Price:          decimal.NewFromFloat(100.5),
		Quantity:       decimal.NewFromInt(100),
		TransactTime:   time.Now(),
		ExecID:         "E1",
		Status:         model.OrderStatusPartiallyFilled,
		ExecType:       model.ExecTypeTrade,
		CumQuantity:    decimal.NewFromInt(40),
		LeavesQuantity: decimal.NewFromInt(60),
		LastQuantity:   decimal.NewFromInt(40),
		LastPrice:      decimal.NewFromFloat(100.5),
		AvgPrice:       decimal.NewFromFloat(100.5),
	}
}

func TestBuildExecutionReportFill(t *testing.T) {
	msg := buildExecutionReport(sampleOrder())

	ordStatus, err := msg.GetOrdStatus()
	assert.NoError(t, err)
	assert.Equal(t, enum.OrdStatus_PARTIALLY_FILLED, ordStatus)

	execType, err := msg.GetExecType()
	assert.NoError(t, err)
	assert.Equal(t, enum.ExecType_TRADE, execType)

	clOrdID, err := msg.GetClOrdID()
	assert.NoError(t, err)
	assert.Equal(t, "C1", clOrdID)

	symbol, err := msg.GetSymbol()
	assert.NoError(t, err)
	assert.Equal(t, "AAPL", symbol)

	lastQty, err := msg.GetLastQty()
	assert.NoError(t, err)
	assert.True(t, lastQty.Equal(decimal.NewFromInt(40)))

	leaves, err := msg.GetLeavesQty()
	assert.NoError(t, err)
	assert.True(t, leaves.Equal(decimal.NewFromInt(60)))
}

func TestBuildExecutionReportReject(t *testing.T) {
	order := sampleOrder()
	order.UpdateRejected("price outside band")
	msg := buildExecutionReport(order)

	ordStatus, err := msg.GetOrdStatus()
	assert.NoError(t, err)
	assert.Equal(t, enum.OrdStatus_REJECTED, ordStatus)

	text, err := msg.GetText()
	assert.NoError(t, err)
	assert.Equal(t, "price outside band", text)
}

func BenchmarkBuildExecutionReport(b *testing.B) {
	order := sampleOrder()
	for i := 0; i < b.N; i++ {
		_ = buildExecutionReport(order)
	}
}

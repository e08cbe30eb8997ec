package fixgateway

import (
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

var (
	ordStatusMapping = map[model.OrderStatus]enum.OrdStatus{
		model.OrderStatusPendingNew:      enum.OrdStatus_PENDING_NEW,
		model.OrderStatusNew:             enum.OrdStatus_NEW,
		model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
		model.OrderStatusFilled:          enum.OrdStatus_FILLED,
		model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
	}

	execTypeMapping = map[model.OrderExecType]enum.ExecType{
		model.ExecTypePendingNew: enum.ExecType_PENDING_NEW,
		model.ExecTypeNew:        enum.ExecType_NEW,
		model.ExecTypeTrade:      enum.ExecType_TRADE,
		model.ExecTypeRejected:   enum.ExecType_REJECTED,
	}

	sideMapping = map[model.OrderSide]enum.Side{
		model.OrderSideBuy:  enum.Side_BUY,
		model.OrderSideSell: enum.Side_SELL,
	}
)

func buildExecutionReport(order model.Order) executionreport.ExecutionReport {
	execReportMsg := executionreport.New(
		field.NewOrderID(order.OrderID),
		field.NewExecID(order.ExecID),
		field.NewExecType(execTypeMapping[order.ExecType]),
		field.NewOrdStatus(ordStatusMapping[order.Status]),
		field.NewSide(sideMapping[order.Side]),
		field.NewLeavesQty(order.LeavesQuantity, 2),
		field.NewCumQty(order.CumQuantity, 2),
		field.NewAvgPx(order.AvgPrice, 2),
	)

	execReportMsg.SetClOrdID(order.ClOrdID)
	execReportMsg.SetAccount(order.Account)
	execReportMsg.SetSymbol(order.Symbol)
	execReportMsg.SetOrderQty(order.Quantity, 2)
	execReportMsg.SetPrice(order.Price, 2)
	execReportMsg.SetTransactTime(order.TransactTime)

	if !order.LastQuantity.IsZero() {
		execReportMsg.SetLastQty(order.LastQuantity, 2)
		execReportMsg.SetLastPx(order.LastPrice, 2)
	}
	if order.Status == model.OrderStatusRejected {
		execReportMsg.SetOrdRejReason(enum.OrdRejReason_OTHER)
		execReportMsg.SetText(order.RejectReason)
	}

	return execReportMsg
}

func sendExecutionReport(order model.Order, sessionID *quickfix.SessionID) error {
	return quickfix.SendToTarget(buildExecutionReport(order), *sessionID)
}

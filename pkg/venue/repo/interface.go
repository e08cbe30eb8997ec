package repo

import (
	"context"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

type IOrder interface {
	Upsert(ctx context.Context, record *model.Order) (*model.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Order, error)
}

type ITradeEvent interface {
	Create(ctx context.Context, record *model.TradeEvent) (*model.TradeEvent, error)
	BulkCreate(ctx context.Context, records []*model.TradeEvent) ([]*model.TradeEvent, error)
	ListBySymbol(ctx context.Context, symbol string, limit int) ([]*model.TradeEvent, error)
}

package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

type TradeEventSQLRepo struct {
	db *gorm.DB
}

func NewTradeEventSQLRepo(db *gorm.DB) *TradeEventSQLRepo {
	return &TradeEventSQLRepo{
		db: db,
	}
}

func (s *TradeEventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *TradeEventSQLRepo) Create(ctx context.Context, record *model.TradeEvent) (*model.TradeEvent, error) {
	err := s.dbWithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
	return record, err
}

func (s *TradeEventSQLRepo) BulkCreate(ctx context.Context, records []*model.TradeEvent) ([]*model.TradeEvent, error) {
	if len(records) == 0 {
		return records, nil
	}
	err := s.dbWithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(records).Error
	return records, err
}

func (s *TradeEventSQLRepo) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*model.TradeEvent, error) {
	var records []*model.TradeEvent
	q := s.dbWithContext(ctx).Where("symbol = ?", symbol).Order("settled_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&records).Error
	return records, err
}

package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	Order() IOrder
	TradeEvent() ITradeEvent
}

type Repo struct {
	venueDB *gorm.DB
}

func NewRepo(venueDB *gorm.DB) IRepo {
	return &Repo{
		venueDB: venueDB,
	}
}

func (r *Repo) Order() IOrder {
	return NewOrderSQLRepo(r.venueDB)
}

func (r *Repo) TradeEvent() ITradeEvent {
	return NewTradeEventSQLRepo(r.venueDB)
}

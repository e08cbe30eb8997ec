package eventstore

import "github.com/tradesim/venue-sim/pkg/venue/model"

// EventStore records order events and keeps the client-order-ID index used
// for duplicate-submission detection.
type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	GetEvents(orderID string) []*model.OrderEvent
	GetOrderID(clOrdID string) string
	DeleteByOrderID(orderID string)
}

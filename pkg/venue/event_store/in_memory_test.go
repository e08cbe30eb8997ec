package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

func TestInMemoryEventStore(t *testing.T) {
	store := NewInMemoryEventStore()

	store.AddEvent(&model.OrderEvent{
		EventID: "O1-PendingNew-0", OrderID: "O1", ClOrdID: "C1",
		Status: model.OrderStatusPendingNew, Timestamp: time.Now(),
	})
	store.AddEvent(&model.OrderEvent{
		EventID: "O1-New-0", OrderID: "O1", ClOrdID: "C1",
		Status: model.OrderStatusNew, Timestamp: time.Now(),
	})

	events := store.GetEvents("O1")
	assert.Len(t, events, 2)
	assert.Equal(t, model.OrderStatusPendingNew, events[0].Status)
	assert.Equal(t, model.OrderStatusNew, events[1].Status)

	assert.Equal(t, "O1", store.GetOrderID("C1"))
	assert.Empty(t, store.GetOrderID("C2"))

	store.DeleteByOrderID("O1")
	assert.Empty(t, store.GetEvents("O1"))
	assert.Empty(t, store.GetOrderID("C1"))
}

func TestGetEventsReturnsCopy(t *testing.T) {
	store := NewInMemoryEventStore()
	store.AddEvent(&model.OrderEvent{EventID: "E1", OrderID: "O1"})

	events := store.GetEvents("O1")
	events[0] = nil

	again := store.GetEvents("O1")
	assert.NotNil(t, again[0])
}

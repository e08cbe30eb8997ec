package eventstore

import (
	"sync"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

type InMemoryEventStore struct {
	mu      sync.RWMutex
	events  map[string][]*model.OrderEvent // OrderID -> events
	orderID map[string]string              // ClOrdID -> OrderID
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events:  make(map[string][]*model.OrderEvent),
		orderID: make(map[string]string),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.OrderID] = append(s.events[ev.OrderID], ev)
	if ev.ClOrdID != "" {
		s.orderID[ev.ClOrdID] = ev.OrderID
	}
}

func (s *InMemoryEventStore) GetEvents(orderID string) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.events[orderID]
	out := make([]*model.OrderEvent, len(evs))
	copy(out, evs)
	return out
}

// GetOrderID resolves a client order ID; empty when never seen.
func (s *InMemoryEventStore) GetOrderID(clOrdID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.orderID[clOrdID]
}

func (s *InMemoryEventStore) DeleteByOrderID(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.events[orderID] {
		if ev.ClOrdID != "" && s.orderID[ev.ClOrdID] == orderID {
			delete(s.orderID, ev.ClOrdID)
		}
	}
	delete(s.events, orderID)
}

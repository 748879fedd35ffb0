package changefeed

import (
	"sync"

	"github.com/madarsaconnect/madarsa-backend/pkg/metrics"
)

// subscriberBuffer bounds how far a slow SSE consumer may lag before events
// are dropped for it. Dropped events only delay a snapshot refresh until the
// next event arrives.
const subscriberBuffer = 16

// Hub fans change events out to in-process stream subscribers.
type Hub struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	metrics *metrics.ChangeFeedMetrics
}

// NewHub builds an empty hub. Metrics may be nil.
func NewHub(m *metrics.ChangeFeedMetrics) *Hub {
	return &Hub{
		subs:    map[*Subscription]struct{}{},
		metrics: m,
	}
}

// Subscription is one stream consumer's buffered event channel. C is closed
// by Close, never by the hub.
type Subscription struct {
	C <-chan Event

	ch     chan Event
	stream string
	hub    *Hub
	once   sync.Once
}

// Subscribe registers a consumer. The stream tag only labels metrics.
func (h *Hub) Subscribe(stream string) *Subscription {
	sub := &Subscription{
		ch:     make(chan Event, subscriberBuffer),
		stream: stream,
		hub:    h,
	}
	sub.C = sub.ch

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Close detaches the subscription and closes its channel. Safe to call more
// than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

// Broadcast delivers the event to every subscriber without blocking; a full
// buffer drops the event for that subscriber only.
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case sub.ch <- event:
			h.metrics.IncDelivered(sub.stream)
		default:
			h.metrics.IncDropped(sub.stream)
		}
	}
}

// SubscriberCount reports the number of attached subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

package viewsink

import (
	"sync"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
	"multichain_swap/internal/pkg/metrics"

	"github.com/google/uuid"
)

const subscriberBuffer = 32

// Broadcaster fans view events out to every open page stream. A subscriber
// that falls behind loses events rather than blocking the publisher.
type Broadcaster struct {
	logger port.Logger

	mu          sync.RWMutex
	subscribers map[string]chan entity.ViewEvent
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster(l port.Logger) *Broadcaster {
	return &Broadcaster{logger: l, subscribers: make(map[string]chan entity.ViewEvent)}
}

var _ port.ViewSink = (*Broadcaster)(nil)

// Subscribe registers a stream. The returned cancel func unregisters it and closes the channel.
func (b *Broadcaster) Subscribe() (string, <-chan entity.ViewEvent, func()) {
	id := uuid.NewString()
	ch := make(chan entity.ViewEvent, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	metrics.ViewSubscribers.Inc()
	b.logger.Debug("View stream subscribed", "subscriber", id)

	var once sync.Once
	return id, ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			close(ch)
			b.mu.Unlock()
			metrics.ViewSubscribers.Dec()
			b.logger.Debug("View stream closed", "subscriber", id)
		})
	}
}

// Publish delivers ev to every subscriber without blocking.
func (b *Broadcaster) Publish(ev entity.ViewEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("Dropping view event for slow subscriber", "subscriber", id, "type", ev.Type)
		}
	}
}

// Len returns the number of open streams.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

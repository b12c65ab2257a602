package service

import (
	"context"
	"sync"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
	"multichain_swap/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum/event"
)

const providerEventBuffer = 16

// ProviderEventListener subscribes to every available wallet provider and routes
// account changes to the ConnectionManager and chain changes to the
// NetworkSwitchCoordinator.
type ProviderEventListener struct {
	locator     port.ProviderLocator
	connections *ConnectionManager
	networks    *NetworkSwitchCoordinator
	logger      port.Logger

	mu     sync.Mutex
	events chan entity.ProviderEvent
	scope  event.SubscriptionScope
}

// NewProviderEventListener creates a listener; call Subscribe before the
// providers start emitting, then Loop.
func NewProviderEventListener(
	locator port.ProviderLocator,
	connections *ConnectionManager,
	networks *NetworkSwitchCoordinator,
	l port.Logger,
) *ProviderEventListener {
	return &ProviderEventListener{locator: locator, connections: connections, networks: networks, logger: l}
}

// Subscribe attaches to every available provider. Notifications sent after it
// returns are queued for Loop.
func (l *ProviderEventListener) Subscribe() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.events != nil {
		return
	}
	l.events = make(chan entity.ProviderEvent, providerEventBuffer)
	for _, provider := range l.locator.Available() {
		l.scope.Track(provider.Subscribe(l.events))
		l.logger.Debug("Subscribed to wallet provider", "connector", provider.Kind())
	}
}

// Loop consumes notifications until ctx is done and then drops the
// subscriptions. It subscribes first if Subscribe was not called. Events are
// handled one at a time in arrival order.
func (l *ProviderEventListener) Loop(ctx context.Context) {
	l.Subscribe()
	defer l.scope.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-l.events:
			l.Dispatch(ev)
		}
	}
}

// Dispatch handles a single notification.
func (l *ProviderEventListener) Dispatch(ev entity.ProviderEvent) {
	metrics.ProviderEvents.WithLabelValues(string(ev.Source), string(ev.Type)).Inc()
	switch ev.Type {
	case entity.ProviderAccountsChanged:
		l.connections.HandleAccountsChanged(ev)
	case entity.ProviderChainChanged:
		if !l.connections.IsActiveSource(ev.Source) {
			l.logger.Debug("Ignoring chain change from inactive wallet", "source", ev.Source, "chain_id", ev.ChainID)
			return
		}
		l.networks.HandleChainChanged(ev.ChainID)
	default:
		l.logger.Warn("Unknown wallet provider event", "connector", ev.Source, "type", ev.Type)
	}
}

package walletprovider

import (
	"context"
	"fmt"
	"time"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
)

// Endpoint configures the bridge of one connector kind. An empty URL means the
// wallet is not installed.
type Endpoint struct {
	URL          string
	PollInterval time.Duration
}

type emitter interface {
	port.WalletProvider
	Emit(ev entity.ProviderEvent)
	Close()
}

// Locator resolves connector kinds to configured providers.
type Locator struct {
	logger    port.Logger
	providers map[entity.ConnectorKind]emitter
	stubs     map[entity.ConnectorKind]*StubProvider
	polling   map[entity.ConnectorKind]time.Duration
	order     []entity.ConnectorKind
}

// NewLocator builds providers for every connector with a configured endpoint.
// WalletConnect and Coinbase always resolve to stubs and are never listed by Available.
func NewLocator(endpoints map[entity.ConnectorKind]Endpoint, log port.Logger) *Locator {
	l := &Locator{
		logger:    log,
		providers: make(map[entity.ConnectorKind]emitter),
		stubs: map[entity.ConnectorKind]*StubProvider{
			entity.ConnectorWalletConnect: NewStubProvider(entity.ConnectorWalletConnect),
			entity.ConnectorCoinbase:      NewStubProvider(entity.ConnectorCoinbase),
		},
		polling: make(map[entity.ConnectorKind]time.Duration),
	}

	for _, kind := range []entity.ConnectorKind{entity.ConnectorInjected, entity.ConnectorBinance, entity.ConnectorPhantom} {
		ep, ok := endpoints[kind]
		if !ok || ep.URL == "" {
			log.Info("Wallet bridge not configured, connector unavailable", "connector", kind)
			continue
		}
		switch kind {
		case entity.ConnectorPhantom:
			l.providers[kind] = NewPhantomProvider(ep.URL, log)
		default:
			l.providers[kind] = NewEIP1193Provider(kind, ep.URL, log)
			if ep.PollInterval > 0 {
				l.polling[kind] = ep.PollInterval
			}
		}
		l.order = append(l.order, kind)
		log.Info("Wallet bridge configured", "connector", kind, "endpoint", ep.URL)
	}
	return l
}

var (
	_ port.ProviderLocator    = (*Locator)(nil)
	_ port.ProviderEventRelay = (*Locator)(nil)
)

// Lookup returns the provider for kind if its wallet is available. Stub
// connector kinds resolve to their StubProvider.
func (l *Locator) Lookup(kind entity.ConnectorKind) (port.WalletProvider, bool) {
	if s, ok := l.stubs[kind]; ok {
		return s, true
	}
	p, ok := l.providers[kind]
	if !ok {
		return nil, false
	}
	return p, true
}

// Available returns every configured provider. Stubs are excluded.
func (l *Locator) Available() []port.WalletProvider {
	out := make([]port.WalletProvider, 0, len(l.order))
	for _, kind := range l.order {
		out = append(out, l.providers[kind])
	}
	return out
}

// Relay emits ev on the provider of kind.
func (l *Locator) Relay(kind entity.ConnectorKind, ev entity.ProviderEvent) error {
	p, ok := l.providers[kind]
	if !ok {
		return fmt.Errorf("relay to %s: %w", kind, entity.ErrProviderUnavailable)
	}
	p.Emit(ev)
	return nil
}

// StartWatchers launches pollers for the EIP-1193 bridges configured with a poll interval.
func (l *Locator) StartWatchers(ctx context.Context) {
	for kind, interval := range l.polling {
		p, ok := l.providers[kind].(*EIP1193Provider)
		if !ok {
			continue
		}
		l.logger.Info("Starting wallet watcher", "connector", kind, "interval", interval)
		go p.Watch(ctx, interval)
	}
}

// Close releases every provider connection.
func (l *Locator) Close() {
	for _, p := range l.providers {
		p.Close()
	}
}

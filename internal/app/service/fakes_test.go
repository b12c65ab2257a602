package service

import (
	"context"
	"sync"
	"testing"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
	networkdefinition "multichain_swap/internal/infrastructure/network/definition"
	"multichain_swap/internal/infrastructure/storage"
	"multichain_swap/internal/infrastructure/walletloader"
	"multichain_swap/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	kind entity.ConnectorKind

	mu          sync.Mutex
	accounts    []string
	accountsErr error
	switchErr   error
	addErr      error
	requests    int
	switched    []uint64
	added       []entity.NetworkDefinition

	feed event.Feed
}

func (p *fakeProvider) Kind() entity.ConnectorKind { return p.kind }

func (p *fakeProvider) RequestAccounts(context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests++
	return p.accounts, p.accountsErr
}

func (p *fakeProvider) SwitchChain(_ context.Context, chainID uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.switched = append(p.switched, chainID)
	return p.switchErr
}

func (p *fakeProvider) AddChain(_ context.Context, def entity.NetworkDefinition) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added = append(p.added, def)
	return p.addErr
}

func (p *fakeProvider) Subscribe(ch chan<- entity.ProviderEvent) event.Subscription {
	return p.feed.Subscribe(ch)
}

func (p *fakeProvider) emit(ev entity.ProviderEvent) {
	ev.Source = p.kind
	p.feed.Send(ev)
}

func (p *fakeProvider) calls() (requests int, switched []uint64, added []entity.NetworkDefinition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests, append([]uint64(nil), p.switched...), append([]entity.NetworkDefinition(nil), p.added...)
}

type fakeLocator map[entity.ConnectorKind]port.WalletProvider

func (l fakeLocator) Lookup(kind entity.ConnectorKind) (port.WalletProvider, bool) {
	p, ok := l[kind]
	return p, ok
}

func (l fakeLocator) Available() []port.WalletProvider {
	out := make([]port.WalletProvider, 0, len(l))
	for _, p := range l {
		out = append(out, p)
	}
	return out
}

type recordingSink struct {
	mu     sync.Mutex
	events []entity.ViewEvent
}

func (s *recordingSink) Publish(ev entity.ViewEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) last(t entity.ViewEventType) (entity.ViewEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Type == t {
			return s.events[i], true
		}
	}
	return entity.ViewEvent{}, false
}

type recordingNavigator struct {
	mu     sync.Mutex
	opened []string
}

func (n *recordingNavigator) Open(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opened = append(n.opened, url)
}

// harness wires the session services over in-memory storage and the built-in registries.
type harness struct {
	kv          *storage.MemoryStore
	store       *SessionStore
	networks    *networkdefinition.NetworkDefinitionProvider
	wallets     *walletloader.WalletDefinitionLoader
	locator     fakeLocator
	sink        *recordingSink
	navigator   *recordingNavigator
	connections *ConnectionManager
	coordinator *NetworkSwitchCoordinator
}

func newHarness(t *testing.T, providers ...*fakeProvider) *harness {
	t.Helper()
	log := logger.NewNopLogger()

	kv := storage.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })

	wallets, err := walletloader.NewWalletDefinitionLoader(log, "")
	require.NoError(t, err)

	locator := fakeLocator{}
	for _, p := range providers {
		locator[p.kind] = p
	}

	h := &harness{
		kv:        kv,
		store:     NewSessionStore(kv, log),
		networks:  networkdefinition.NewNetworkDefinitionProvider(log, "", nil),
		wallets:   wallets,
		locator:   locator,
		sink:      &recordingSink{},
		navigator: &recordingNavigator{},
	}
	h.connections = NewConnectionManager(h.wallets, h.locator, h.store, h.navigator, h.sink, log)
	h.coordinator = NewNetworkSwitchCoordinator(h.networks, h.connections, h.store, h.sink, log)
	return h
}

func nopLogger() port.Logger { return logger.NewNopLogger() }

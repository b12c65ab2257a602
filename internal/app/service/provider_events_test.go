package service

import (
	"context"
	"testing"
	"time"

	"multichain_swap/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenerRoutesProviderEvents(t *testing.T) {
	injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress}}
	h := newHarness(t, injected)
	require.Equal(t, ConnectConnected, h.connections.Connect(context.Background(), "metamask"))

	listener := NewProviderEventListener(h.locator, h.connections, h.coordinator, nopLogger())
	listener.Subscribe()

	// Delivered before the loop starts: the subscription queues it.
	sent := injected.feed.Send(entity.ProviderEvent{Source: entity.ConnectorInjected, Type: entity.ProviderChainChanged, ChainID: 42161})
	require.Equal(t, 1, sent)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		listener.Loop(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool { return h.coordinator.Selected() == "arbitrum" }, 2*time.Second, 10*time.Millisecond)

	injected.emit(entity.ProviderEvent{Type: entity.ProviderAccountsChanged})
	require.Eventually(t, func() bool { return h.connections.Session() == nil }, 2*time.Second, 10*time.Millisecond)

	_, switched, _ := injected.calls()
	assert.Empty(t, switched)
}

func TestDispatchIgnoresUnknownEvents(t *testing.T) {
	h := newHarness(t)
	listener := NewProviderEventListener(h.locator, h.connections, h.coordinator, nopLogger())

	listener.Dispatch(entity.ProviderEvent{Source: entity.ConnectorInjected, Type: "disconnect"})
	assert.Equal(t, "ethereum", h.coordinator.Selected())
}

func TestChainChangedFromOtherConnectorIgnored(t *testing.T) {
	injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress}}
	binance := &fakeProvider{kind: entity.ConnectorBinance}
	h := newHarness(t, injected, binance)
	require.Equal(t, ConnectConnected, h.connections.Connect(context.Background(), "metamask"))
	listener := NewProviderEventListener(h.locator, h.connections, h.coordinator, nopLogger())

	listener.Dispatch(entity.ProviderEvent{Source: entity.ConnectorBinance, Type: entity.ProviderChainChanged, ChainID: 56})
	assert.Equal(t, "ethereum", h.coordinator.Selected())
	_, persisted := h.store.LoadSelectedNetwork()
	assert.False(t, persisted)

	listener.Dispatch(entity.ProviderEvent{Source: entity.ConnectorInjected, Type: entity.ProviderChainChanged, ChainID: 56})
	assert.Equal(t, "bnb", h.coordinator.Selected())
}

func TestChainChangedWithoutSessionFollowsAnyConnector(t *testing.T) {
	h := newHarness(t, &fakeProvider{kind: entity.ConnectorBinance})
	listener := NewProviderEventListener(h.locator, h.connections, h.coordinator, nopLogger())

	listener.Dispatch(entity.ProviderEvent{Source: entity.ConnectorBinance, Type: entity.ProviderChainChanged, ChainID: 137})
	assert.Equal(t, "polygon", h.coordinator.Selected())
}

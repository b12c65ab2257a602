package service

import (
	"context"
	"errors"
	"testing"

	"multichain_swap/internal/domain/entity"
	"multichain_swap/internal/infrastructure/walletprovider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0xABCD000000000000000000000000000000001234"

func TestConnectCreatesAndPersistsSession(t *testing.T) {
	injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress, "0x2"}}
	h := newHarness(t, injected)

	outcome := h.connections.Connect(context.Background(), "metamask")
	require.Equal(t, ConnectConnected, outcome)

	want := &entity.Session{Type: "metamask", Address: testAddress, Name: "MetaMask"}
	assert.Equal(t, want, h.connections.Session())

	persisted, ok := h.store.Load()
	require.True(t, ok)
	assert.Equal(t, want, persisted)

	ev, ok := h.sink.last(entity.ViewWalletChanged)
	require.True(t, ok)
	view := ev.Payload.(entity.WalletView)
	assert.True(t, view.Connected)
	assert.Equal(t, "0xABCD...1234", view.ButtonLabel)
}

func TestConnectStubConnectorLeavesNoSession(t *testing.T) {
	injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress}}
	h := newHarness(t, injected)

	assert.Equal(t, ConnectNotImplemented, h.connections.Connect(context.Background(), "walletconnect"))
	assert.Equal(t, ConnectNotImplemented, h.connections.Connect(context.Background(), "coinbase"))

	assert.Nil(t, h.connections.Session())
	_, ok := h.store.Load()
	assert.False(t, ok)
	requests, _, _ := injected.calls()
	assert.Zero(t, requests)
}

func TestConnectStubProviderReportsNotImplemented(t *testing.T) {
	h := newHarness(t)
	h.locator[entity.ConnectorCoinbase] = walletprovider.NewStubProvider(entity.ConnectorCoinbase)

	assert.Equal(t, ConnectNotImplemented, h.connections.Connect(context.Background(), "coinbase"))
	assert.Nil(t, h.connections.Session())
	assert.Empty(t, h.navigator.opened)
}

func TestConnectMissingProviderOpensInstallPage(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, ConnectNotInstalled, h.connections.Connect(context.Background(), "phantom"))
	assert.Equal(t, []string{"https://phantom.app/"}, h.navigator.opened)
	assert.Nil(t, h.connections.Session())
}

func TestConnectFailuresKeepPreviousSession(t *testing.T) {
	cases := map[string]struct {
		provider *fakeProvider
		outcome  ConnectOutcome
	}{
		"rejected": {
			provider: &fakeProvider{kind: entity.ConnectorBinance, accountsErr: entity.ErrUserRejected},
			outcome:  ConnectRejected,
		},
		"error": {
			provider: &fakeProvider{kind: entity.ConnectorBinance, accountsErr: errors.New("bridge down")},
			outcome:  ConnectFailed,
		},
		"no accounts": {
			provider: &fakeProvider{kind: entity.ConnectorBinance, accounts: []string{}},
			outcome:  ConnectFailed,
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress}}
			h := newHarness(t, injected, tc.provider)
			require.Equal(t, ConnectConnected, h.connections.Connect(context.Background(), "metamask"))

			assert.Equal(t, tc.outcome, h.connections.Connect(context.Background(), "binance"))

			session := h.connections.Session()
			require.NotNil(t, session)
			assert.Equal(t, "metamask", session.Type)
			persisted, ok := h.store.Load()
			require.True(t, ok)
			assert.Equal(t, "metamask", persisted.Type)
		})
	}
}

func TestConnectUnknownWallet(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ConnectUnknownWallet, h.connections.Connect(context.Background(), "ledger"))
	assert.Empty(t, h.navigator.opened)
}

func TestDisconnect(t *testing.T) {
	injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress}}
	h := newHarness(t, injected)
	require.Equal(t, ConnectConnected, h.connections.Connect(context.Background(), "trust"))

	h.connections.Disconnect()
	assert.Nil(t, h.connections.Session())
	_, ok := h.store.Load()
	assert.False(t, ok)

	ev, ok := h.sink.last(entity.ViewWalletChanged)
	require.True(t, ok)
	assert.Equal(t, entity.WalletView{ButtonLabel: "Connect Wallet"}, ev.Payload)

	// Disconnecting without a session succeeds too.
	h.connections.Disconnect()
	assert.Nil(t, h.connections.Session())
}

func TestRestore(t *testing.T) {
	h := newHarness(t)
	h.store.Save(&entity.Session{Type: "metamask", Address: testAddress, Name: "MetaMask"})

	h.connections.Restore()
	session := h.connections.Session()
	require.NotNil(t, session)
	assert.Equal(t, testAddress, session.Address)

	require.NoError(t, h.kv.Set(KeyConnectedWallet, "garbage"))
	fresh := NewConnectionManager(h.wallets, h.locator, h.store, h.navigator, h.sink, nopLogger())
	fresh.Restore()
	assert.Nil(t, fresh.Session())
}

func TestAccountsChangedUpdatesAddress(t *testing.T) {
	injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress}}
	h := newHarness(t, injected)
	require.Equal(t, ConnectConnected, h.connections.Connect(context.Background(), "metamask"))

	h.connections.HandleAccountsChanged(entity.ProviderEvent{
		Source:   entity.ConnectorInjected,
		Type:     entity.ProviderAccountsChanged,
		Accounts: []string{"0x9999000000000000000000000000000000005678"},
	})

	session := h.connections.Session()
	require.NotNil(t, session)
	assert.Equal(t, "0x9999000000000000000000000000000000005678", session.Address)
	assert.Equal(t, "metamask", session.Type)
	persisted, _ := h.store.Load()
	assert.Equal(t, "0x9999000000000000000000000000000000005678", persisted.Address)
}

func TestAccountsChangedEmptyDisconnects(t *testing.T) {
	injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress}}
	h := newHarness(t, injected)
	require.Equal(t, ConnectConnected, h.connections.Connect(context.Background(), "metamask"))

	h.connections.HandleAccountsChanged(entity.ProviderEvent{Source: entity.ConnectorInjected, Type: entity.ProviderAccountsChanged})

	assert.Nil(t, h.connections.Session())
	_, ok := h.store.Load()
	assert.False(t, ok)
}

func TestAccountsChangedFromOtherConnectorIgnored(t *testing.T) {
	injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress}}
	binance := &fakeProvider{kind: entity.ConnectorBinance}
	h := newHarness(t, injected, binance)
	require.Equal(t, ConnectConnected, h.connections.Connect(context.Background(), "metamask"))

	h.connections.HandleAccountsChanged(entity.ProviderEvent{Source: entity.ConnectorBinance, Type: entity.ProviderAccountsChanged})
	h.connections.HandleAccountsChanged(entity.ProviderEvent{Source: entity.ConnectorBinance, Type: entity.ProviderAccountsChanged, Accounts: []string{"0x3"}})

	session := h.connections.Session()
	require.NotNil(t, session)
	assert.Equal(t, testAddress, session.Address)
}

func TestAccountsChangedWithoutSessionDoesNotConnect(t *testing.T) {
	h := newHarness(t, &fakeProvider{kind: entity.ConnectorInjected})

	h.connections.HandleAccountsChanged(entity.ProviderEvent{Source: entity.ConnectorInjected, Type: entity.ProviderAccountsChanged, Accounts: []string{"0x3"}})
	assert.Nil(t, h.connections.Session())
}

func TestActiveProvider(t *testing.T) {
	injected := &fakeProvider{kind: entity.ConnectorInjected, accounts: []string{testAddress}}
	h := newHarness(t, injected)

	_, ok := h.connections.ActiveProvider()
	assert.False(t, ok)

	require.Equal(t, ConnectConnected, h.connections.Connect(context.Background(), "trust"))
	p, ok := h.connections.ActiveProvider()
	require.True(t, ok)
	assert.Equal(t, entity.ConnectorInjected, p.Kind())
}

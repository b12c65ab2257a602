package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
	"multichain_swap/internal/pkg/metrics"
	"multichain_swap/internal/pkg/utils"
)

// ConnectOutcome reports how a connection attempt ended. Failures are not errors:
// the session is simply left unchanged.
type ConnectOutcome string

const (
	ConnectConnected      ConnectOutcome = metrics.OutcomeConnected
	ConnectRejected       ConnectOutcome = metrics.OutcomeRejected
	ConnectFailed         ConnectOutcome = metrics.OutcomeFailed
	ConnectNotInstalled   ConnectOutcome = metrics.OutcomeNotInstalled
	ConnectNotImplemented ConnectOutcome = metrics.OutcomeNotImplemented
	ConnectUnknownWallet  ConnectOutcome = metrics.OutcomeUnknown
)

const connectWalletLabel = "Connect Wallet"

// ConnectionManager owns the wallet session: connecting, disconnecting, restoring
// it at startup and following account changes reported by the provider.
type ConnectionManager struct {
	wallets   port.WalletDefinitionProvider
	locator   port.ProviderLocator
	store     *SessionStore
	navigator port.Navigator
	view      port.ViewSink
	logger    port.Logger

	mu      sync.RWMutex
	session *entity.Session
}

// NewConnectionManager creates a ConnectionManager with no session.
func NewConnectionManager(
	wallets port.WalletDefinitionProvider,
	locator port.ProviderLocator,
	store *SessionStore,
	navigator port.Navigator,
	view port.ViewSink,
	l port.Logger,
) *ConnectionManager {
	return &ConnectionManager{
		wallets:   wallets,
		locator:   locator,
		store:     store,
		navigator: navigator,
		view:      view,
		logger:    l,
	}
}

// Session returns a copy of the current session, or nil.
func (m *ConnectionManager) Session() *entity.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Clone()
}

// Restore loads the persisted session, if any, and renders it.
// The provider is not queried.
func (m *ConnectionManager) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.store.Load()
	if !ok {
		m.logger.Debug("No persisted wallet session")
		m.session = nil
		m.publish(nil)
		return
	}
	m.session = session
	m.logger.Info("Restored wallet session", "wallet", session.Type, "address", utils.FormatAddress(session.Address))
	m.publish(session)
}

// Connect asks the wallet identified by walletID for account access and, on success,
// replaces the current session. The provider call is not cancelled with ctx.
func (m *ConnectionManager) Connect(ctx context.Context, walletID string) ConnectOutcome {
	def, ok := m.wallets.GetWalletDefinition(walletID)
	if !ok {
		m.logger.Warn("Connect requested for unknown wallet", "wallet", walletID)
		return m.record(metrics.OutcomeUnknown, ConnectUnknownWallet)
	}

	provider, ok := m.locator.Lookup(def.Connector)
	if !ok && def.Connector.IsStub() {
		m.logger.Info("Wallet integration needed", "wallet", def.Identifier, "connector", def.Connector)
		return m.record(walletID, ConnectNotImplemented)
	}
	if !ok {
		m.logger.Warn("Wallet is not installed", "wallet", def.Identifier, "install_url", def.InstallURL)
		if def.InstallURL != "" {
			m.navigator.Open(def.InstallURL)
		}
		return m.record(walletID, ConnectNotInstalled)
	}

	accounts, err := provider.RequestAccounts(context.WithoutCancel(ctx))
	if err != nil {
		if errors.Is(err, entity.ErrConnectorNotImplemented) {
			m.logger.Info("Wallet integration needed", "wallet", def.Identifier, "connector", def.Connector)
			return m.record(walletID, ConnectNotImplemented)
		}
		if errors.Is(err, entity.ErrUserRejected) {
			m.logger.Info("User rejected wallet connection", "wallet", def.Identifier)
			return m.record(walletID, ConnectRejected)
		}
		m.logger.Error("Failed to connect wallet", "wallet", def.Identifier, "error", err)
		return m.record(walletID, ConnectFailed)
	}
	if len(accounts) == 0 {
		m.logger.Error("Failed to connect wallet", "wallet", def.Identifier, "error", entity.ErrNoAccounts)
		return m.record(walletID, ConnectFailed)
	}

	session := &entity.Session{Type: def.Identifier, Address: accounts[0], Name: def.Name}

	m.mu.Lock()
	m.session = session
	m.store.Save(session)
	m.publish(session)
	m.mu.Unlock()

	m.logger.Info("Wallet connected", "wallet", def.Identifier, "address", utils.FormatAddress(session.Address))
	return m.record(walletID, ConnectConnected)
}

// Disconnect clears the session in memory and in storage. It always succeeds.
func (m *ConnectionManager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnectLocked()
}

// disconnectLocked requires m.mu held for writing. Storage is written under the
// same lock so memory and storage change together.
func (m *ConnectionManager) disconnectLocked() {
	previous := m.session
	m.session = nil
	m.store.Clear()
	if previous != nil {
		m.logger.Info("Wallet disconnected", "wallet", previous.Type)
	}
	m.publish(nil)
}

// ActiveProvider returns the provider serving the current session, if the session
// exists and its wallet is still available.
func (m *ConnectionManager) ActiveProvider() (port.WalletProvider, bool) {
	kind, ok := m.sessionConnector()
	if !ok {
		return nil, false
	}
	return m.locator.Lookup(kind)
}

func (m *ConnectionManager) sessionConnector() (entity.ConnectorKind, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connectorOf(m.session)
}

func (m *ConnectionManager) connectorOf(session *entity.Session) (entity.ConnectorKind, bool) {
	if session == nil {
		return "", false
	}
	def, ok := m.wallets.GetWalletDefinition(session.Type)
	if !ok {
		return "", false
	}
	return def.Connector, true
}

// IsActiveSource reports whether a notification from source should drive the
// page: always when no wallet is connected, otherwise only from the session's connector.
func (m *ConnectionManager) IsActiveSource(source entity.ConnectorKind) bool {
	kind, hasSession := m.sessionConnector()
	return !hasSession || kind == source
}

// HandleAccountsChanged applies an accountsChanged notification. An empty account
// list disconnects. A new primary account replaces the session address when the
// notification comes from the session's connector.
func (m *ConnectionManager) HandleAccountsChanged(ev entity.ProviderEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kind, hasSession := m.connectorOf(m.session)
	if hasSession && kind != ev.Source {
		m.logger.Debug("Ignoring accounts change from inactive wallet", "source", ev.Source, "active", kind)
		return
	}

	if len(ev.Accounts) == 0 {
		m.logger.Info("Wallet reported no accounts, disconnecting", "source", ev.Source)
		m.disconnectLocked()
		return
	}
	if m.session == nil || strings.EqualFold(m.session.Address, ev.Accounts[0]) {
		return
	}

	updated := m.session.Clone()
	updated.Address = ev.Accounts[0]
	m.session = updated
	m.store.Save(updated)
	m.logger.Info("Wallet account changed", "wallet", updated.Type, "address", utils.FormatAddress(updated.Address))
	m.publish(updated)
}

func (m *ConnectionManager) record(walletID string, outcome ConnectOutcome) ConnectOutcome {
	metrics.WalletConnectAttempts.WithLabelValues(walletID, string(outcome)).Inc()
	return outcome
}

func (m *ConnectionManager) publish(session *entity.Session) {
	m.view.Publish(entity.ViewEvent{Type: entity.ViewWalletChanged, Payload: WalletViewOf(session)})
}

// WalletViewOf renders the wallet button for session.
func WalletViewOf(session *entity.Session) entity.WalletView {
	if session == nil {
		return entity.WalletView{ButtonLabel: connectWalletLabel}
	}
	return entity.WalletView{
		Connected:   true,
		Type:        session.Type,
		Name:        session.Name,
		Address:     session.Address,
		ButtonLabel: utils.FormatAddress(session.Address),
	}
}

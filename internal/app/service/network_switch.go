package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
	"multichain_swap/internal/pkg/metrics"
)

// ActiveProviderSource exposes the provider of the current wallet session.
type ActiveProviderSource interface {
	ActiveProvider() (port.WalletProvider, bool)
}

// NetworkSwitchCoordinator keeps the selected network and asks the connected
// wallet to follow it. The selection changes immediately; the wallet request
// runs afterwards and its failure never reverts the selection.
type NetworkSwitchCoordinator struct {
	networks port.NetworkDefinitionProvider
	sessions ActiveProviderSource
	store    *SessionStore
	view     port.ViewSink
	logger   port.Logger

	mu       sync.RWMutex
	selected entity.NetworkDefinition
}

// NewNetworkSwitchCoordinator creates a coordinator with the registry's default network selected.
func NewNetworkSwitchCoordinator(
	networks port.NetworkDefinitionProvider,
	sessions ActiveProviderSource,
	store *SessionStore,
	view port.ViewSink,
	l port.Logger,
) *NetworkSwitchCoordinator {
	c := &NetworkSwitchCoordinator{
		networks: networks,
		sessions: sessions,
		store:    store,
		view:     view,
		logger:   l,
	}
	c.selected, _ = networks.GetNetworkDefinitionByName(networks.DefaultIdentifier())
	return c
}

// Restore selects the persisted network. Unknown identifiers keep the default.
func (c *NetworkSwitchCoordinator) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.store.LoadSelectedNetwork(); ok {
		if def, found := c.networks.GetNetworkDefinitionByName(id); found {
			c.selected = def
		} else {
			c.logger.Warn("Ignoring persisted network that is not registered", "network", id)
		}
	}
	c.publish(c.selected)
}

// Selected returns the identifier of the selected network.
func (c *NetworkSwitchCoordinator) Selected() string {
	return c.SelectedDefinition().Identifier
}

// SelectedDefinition returns the selected network.
func (c *NetworkSwitchCoordinator) SelectedDefinition() entity.NetworkDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Lookup returns the registered network networkID.
func (c *NetworkSwitchCoordinator) Lookup(networkID string) (entity.NetworkDefinition, bool) {
	return c.networks.GetNetworkDefinitionByName(networkID)
}

// Select makes networkID the selected network and, when a wallet is connected,
// asks it to switch chains (registering the chain first if the wallet does not
// know it). Only an unregistered networkID is reported as an error.
func (c *NetworkSwitchCoordinator) Select(ctx context.Context, networkID string) error {
	def, ok := c.networks.GetNetworkDefinitionByName(networkID)
	if !ok {
		c.logger.Warn("Ignoring selection of unknown network", "network", networkID)
		return fmt.Errorf("%w: %s", entity.ErrUnknownNetwork, networkID)
	}

	c.setSelected(def)
	c.logger.Info("Network selected", "network", def.Identifier, "chain_id", def.ChainID)

	provider, ok := c.sessions.ActiveProvider()
	if !ok {
		metrics.NetworkSwitches.WithLabelValues(def.Identifier, metrics.OutcomeSelectedOnly).Inc()
		return nil
	}
	c.switchWallet(context.WithoutCancel(ctx), provider, def)
	return nil
}

func (c *NetworkSwitchCoordinator) switchWallet(ctx context.Context, provider port.WalletProvider, def entity.NetworkDefinition) {
	err := provider.SwitchChain(ctx, def.ChainID)
	switch {
	case err == nil:
		c.logger.Info("Wallet switched network", "connector", provider.Kind(), "network", def.Identifier)
		c.recordSwitch(def, metrics.OutcomeSwitched)
	case errors.Is(err, entity.ErrChainNotRecognized):
		c.logger.Info("Wallet does not know network, adding it", "connector", provider.Kind(), "network", def.Identifier)
		if addErr := provider.AddChain(ctx, def); addErr != nil {
			c.logger.Error("Failed to add network", "network", def.Identifier, "error", addErr)
			c.recordSwitch(def, metrics.OutcomeAddFailed)
			return
		}
		c.recordSwitch(def, metrics.OutcomeAdded)
	case errors.Is(err, entity.ErrChainSwitchUnsupported):
		c.logger.Debug("Wallet cannot switch chains", "connector", provider.Kind(), "network", def.Identifier)
		c.recordSwitch(def, metrics.OutcomeUnsupported)
	case errors.Is(err, entity.ErrUserRejected):
		c.logger.Info("User rejected network switch", "network", def.Identifier)
		c.recordSwitch(def, metrics.OutcomeRejected)
	default:
		c.logger.Warn("Failed to switch wallet network", "network", def.Identifier, "error", err)
		c.recordSwitch(def, metrics.OutcomeFailed)
	}
}

// HandleChainChanged follows a chain change made in the wallet. The selection
// moves to the matching network without any request back to the wallet;
// unknown chains leave it unchanged.
func (c *NetworkSwitchCoordinator) HandleChainChanged(chainID uint64) bool {
	def, ok := c.networks.GetNetworkDefinitionByChainID(chainID)
	if !ok {
		c.logger.Debug("Wallet moved to an unregistered chain", "chain_id", chainID)
		return false
	}
	c.setSelected(def)
	c.logger.Info("Network follows wallet", "network", def.Identifier, "chain_id", chainID)
	return true
}

func (c *NetworkSwitchCoordinator) setSelected(def entity.NetworkDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = def
	c.store.SaveSelectedNetwork(def.Identifier)
	c.publish(def)
}

func (c *NetworkSwitchCoordinator) recordSwitch(def entity.NetworkDefinition, outcome string) {
	metrics.NetworkSwitches.WithLabelValues(def.Identifier, outcome).Inc()
}

func (c *NetworkSwitchCoordinator) publish(def entity.NetworkDefinition) {
	c.view.Publish(entity.ViewEvent{Type: entity.ViewNetworkChanged, Payload: NetworkViewOf(def)})
}

// NetworkViewOf renders the network button for def.
func NetworkViewOf(def entity.NetworkDefinition) entity.NetworkView {
	return entity.NetworkView{
		Identifier: def.Identifier,
		Name:       def.Name,
		IconURL:    def.IconURL,
		ChainID:    def.ChainID,
	}
}

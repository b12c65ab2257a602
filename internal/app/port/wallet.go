package port

import (
	"context"

	"multichain_swap/internal/domain/entity"

	"github.com/ethereum/go-ethereum/event"
)

// WalletDefinitionProvider defines the interface for the wallet registry.
type WalletDefinitionProvider interface {
	GetAllWalletDefinitions() []entity.WalletDefinition
	GetWalletDefinition(identifier string) (entity.WalletDefinition, bool)
}

// WalletProvider is the capability surface of an external wallet.
// Calls may block until the user answers the prompt in the wallet UI.
type WalletProvider interface {
	Kind() entity.ConnectorKind

	// RequestAccounts asks the user for account access and returns the exposed addresses.
	RequestAccounts(ctx context.Context) ([]string, error)

	// SwitchChain asks the wallet to make chainID active.
	// It returns entity.ErrChainNotRecognized when the wallet does not know the chain.
	SwitchChain(ctx context.Context, chainID uint64) error

	// AddChain asks the wallet to register the network (and switch to it).
	AddChain(ctx context.Context, network entity.NetworkDefinition) error

	// Subscribe delivers account and chain change notifications to ch.
	Subscribe(ch chan<- entity.ProviderEvent) event.Subscription
}

// ProviderLocator finds the wallet provider for a connector kind.
// The boolean is false when the wallet is not installed or not configured.
type ProviderLocator interface {
	Lookup(kind entity.ConnectorKind) (WalletProvider, bool)
	Available() []WalletProvider
}

// Navigator opens pages outside the app, e.g. a wallet's install page.
type Navigator interface {
	Open(url string)
}

// ProviderEventRelay injects notifications that a page shim observed on a browser wallet.
type ProviderEventRelay interface {
	Relay(kind entity.ConnectorKind, ev entity.ProviderEvent) error
}

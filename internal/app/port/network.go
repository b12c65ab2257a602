package port

import (
	"context"
	"math/big"

	"multichain_swap/internal/domain/entity"
)

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all registered network definitions in display order.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a specific network definition by its identifier.
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)

	// GetNetworkDefinitionByChainID returns the network registered for chainID.
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)

	// DefaultIdentifier is the network selected when nothing else is known.
	DefaultIdentifier() string
}

// BlockchainClient defines the interface for reading chain state of one network.
type BlockchainClient interface {
	// GetNativeBalance fetches the native currency balance (e.g., ETH, MATIC) for a wallet.
	GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error)

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// BlockchainClientProvider defines the interface for providing blockchain clients.
type BlockchainClientProvider interface {
	GetClient(networkDefinition entity.NetworkDefinition) (BlockchainClient, error)
}

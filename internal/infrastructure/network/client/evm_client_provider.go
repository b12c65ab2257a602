package client

import (
	"fmt"
	"sync"
	"time"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"

	"golang.org/x/time/rate"
)

const defaultProviderConnectionTimeout = 10 * time.Second

// Settings configures the clients created by the provider.
type Settings struct {
	ConnectionTimeout time.Duration
	RPCCallTimeout    time.Duration
	// RequestsPerSecond limits calls per network; 0 disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// EVMClientProvider implements the port.BlockchainClientProvider interface.
type EVMClientProvider struct {
	clients  map[uint64]*EVMClient
	mu       sync.Mutex
	logger   port.Logger
	settings Settings
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(settings Settings, log port.Logger) *EVMClientProvider {
	if settings.ConnectionTimeout <= 0 {
		settings.ConnectionTimeout = defaultProviderConnectionTimeout
	}
	if settings.RPCCallTimeout <= 0 {
		settings.RPCCallTimeout = 10 * time.Second
	}
	if settings.Burst <= 0 {
		settings.Burst = 1
	}
	return &EVMClientProvider{
		clients:  make(map[uint64]*EVMClient),
		logger:   log,
		settings: settings,
	}
}

var _ port.BlockchainClientProvider = (*EVMClientProvider)(nil)

// GetClient retrieves a blockchain client for the given network definition.
// It caches clients to avoid reconnecting repeatedly.
func (p *EVMClientProvider) GetClient(netDef entity.NetworkDefinition) (port.BlockchainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[netDef.ChainID]; exists {
		return client, nil
	}

	var limiter *rate.Limiter
	if p.settings.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(p.settings.RequestsPerSecond), p.settings.Burst)
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc", netDef.RPCURL)
	newClient, err := NewEVMClient(netDef, p.settings.ConnectionTimeout, p.settings.RPCCallTimeout, limiter)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[netDef.ChainID] = newClient
	return newClient, nil
}

// Close releases every cached client.
func (p *EVMClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		c.Close()
		delete(p.clients, id)
	}
}

package walletprovider

import (
	"context"
	"fmt"
	"sync"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rpc"
)

type phantomConnectResult struct {
	PublicKey string `json:"publicKey"`
}

// PhantomProvider reaches a Solana wallet through a JSON-RPC bridge exposing the
// wallet's connect() call. Solana wallets have no EVM chains to switch.
type PhantomProvider struct {
	endpoint string
	logger   port.Logger

	mu     sync.Mutex
	client *rpc.Client

	feed event.Feed
}

// NewPhantomProvider creates a provider for the bridge at endpoint.
func NewPhantomProvider(endpoint string, log port.Logger) *PhantomProvider {
	return &PhantomProvider{endpoint: endpoint, logger: log}
}

var _ port.WalletProvider = (*PhantomProvider)(nil)

func (p *PhantomProvider) Kind() entity.ConnectorKind { return entity.ConnectorPhantom }

func (p *PhantomProvider) rpcClient(ctx context.Context) (*rpc.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	client, err := rpc.DialContext(ctx, p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", entity.ErrProviderUnavailable, p.endpoint, err)
	}
	p.client = client
	return client, nil
}

// RequestAccounts calls connect and returns the wallet public key as the only account.
func (p *PhantomProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	client, err := p.rpcClient(ctx)
	if err != nil {
		return nil, err
	}
	var res phantomConnectResult
	if err := client.CallContext(ctx, &res, "connect"); err != nil {
		return nil, translateError("connect", err)
	}
	if res.PublicKey == "" {
		return []string{}, nil
	}
	return []string{res.PublicKey}, nil
}

func (p *PhantomProvider) SwitchChain(context.Context, uint64) error {
	return entity.ErrChainSwitchUnsupported
}

func (p *PhantomProvider) AddChain(context.Context, entity.NetworkDefinition) error {
	return entity.ErrChainSwitchUnsupported
}

func (p *PhantomProvider) Subscribe(ch chan<- entity.ProviderEvent) event.Subscription {
	return p.feed.Subscribe(ch)
}

// Emit delivers ev to all subscribers. Phantom only reports account changes.
func (p *PhantomProvider) Emit(ev entity.ProviderEvent) {
	if ev.Type != entity.ProviderAccountsChanged {
		p.logger.Debug("Ignoring non-account event for Phantom", "type", ev.Type)
		return
	}
	ev.Source = entity.ConnectorPhantom
	p.feed.Send(ev)
}

// Close releases the RPC connection.
func (p *PhantomProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

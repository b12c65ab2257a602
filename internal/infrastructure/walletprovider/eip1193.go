package walletprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rpc"
)

// EIP-1193 / EIP-3085 error codes.
const (
	codeUserRejected       = 4001
	codeChainNotRecognized = 4902
	codeInternal           = -32603
)

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

type addChainParams struct {
	ChainID        string                `json:"chainId"`
	ChainName      string                `json:"chainName"`
	RPCURLs        []string              `json:"rpcUrls"`
	NativeCurrency entity.NativeCurrency `json:"nativeCurrency"`
}

// EIP1193Provider talks to an Ethereum wallet through a JSON-RPC bridge that
// forwards EIP-1193 requests (eth_requestAccounts, wallet_switchEthereumChain, ...).
// It serves both the injected and the Binance connector kinds.
type EIP1193Provider struct {
	kind     entity.ConnectorKind
	endpoint string
	logger   port.Logger

	mu     sync.Mutex
	client *rpc.Client

	feed event.Feed
}

// NewEIP1193Provider creates a provider for the bridge at endpoint. The connection is dialed on first use.
func NewEIP1193Provider(kind entity.ConnectorKind, endpoint string, log port.Logger) *EIP1193Provider {
	return &EIP1193Provider{kind: kind, endpoint: endpoint, logger: log}
}

var _ port.WalletProvider = (*EIP1193Provider)(nil)

func (p *EIP1193Provider) Kind() entity.ConnectorKind { return p.kind }

func (p *EIP1193Provider) rpcClient(ctx context.Context) (*rpc.Client, error) {
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

func (p *EIP1193Provider) call(ctx context.Context, result any, method string, args ...any) error {
	client, err := p.rpcClient(ctx)
	if err != nil {
		return err
	}
	if err := client.CallContext(ctx, result, method, args...); err != nil {
		return translateError(method, err)
	}
	return nil
}

// RequestAccounts calls eth_requestAccounts.
func (p *EIP1193Provider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SwitchChain calls wallet_switchEthereumChain with the hex encoded chain id.
func (p *EIP1193Provider) SwitchChain(ctx context.Context, chainID uint64) error {
	return p.call(ctx, nil, "wallet_switchEthereumChain", switchChainParams{ChainID: hexutil.EncodeUint64(chainID)})
}

// AddChain calls wallet_addEthereumChain with the network's full descriptor.
func (p *EIP1193Provider) AddChain(ctx context.Context, network entity.NetworkDefinition) error {
	params := addChainParams{
		ChainID:        hexutil.EncodeUint64(network.ChainID),
		ChainName:      network.Name,
		RPCURLs:        []string{network.RPCURL},
		NativeCurrency: network.NativeCurrency,
	}
	return p.call(ctx, nil, "wallet_addEthereumChain", params)
}

// Subscribe registers ch for accountsChanged and chainChanged events.
func (p *EIP1193Provider) Subscribe(ch chan<- entity.ProviderEvent) event.Subscription {
	return p.feed.Subscribe(ch)
}

// Emit delivers ev to all subscribers. It blocks until every subscriber received it.
func (p *EIP1193Provider) Emit(ev entity.ProviderEvent) {
	ev.Source = p.kind
	p.feed.Send(ev)
}

// Watch polls eth_accounts and eth_chainId every interval and emits an event whenever
// either differs from the previous observation. It returns when ctx is done.
func (p *EIP1193Provider) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		lastAccounts []string
		lastChain    uint64
		primed       bool
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var accounts []string
		if err := p.call(ctx, &accounts, "eth_accounts"); err != nil {
			p.logger.Debug("Wallet poll failed", "connector", p.kind, "method", "eth_accounts", "error", err)
			continue
		}
		var chainHex hexutil.Uint64
		if err := p.call(ctx, &chainHex, "eth_chainId"); err != nil {
			p.logger.Debug("Wallet poll failed", "connector", p.kind, "method", "eth_chainId", "error", err)
			continue
		}
		chainID := uint64(chainHex)

		if primed && !sameAccounts(accounts, lastAccounts) {
			p.Emit(entity.ProviderEvent{Type: entity.ProviderAccountsChanged, Accounts: accounts})
		}
		if primed && chainID != lastChain {
			p.Emit(entity.ProviderEvent{Type: entity.ProviderChainChanged, ChainID: chainID})
		}
		lastAccounts, lastChain, primed = accounts, chainID, true
	}
}

// Close releases the RPC connection.
func (p *EIP1193Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

func sameAccounts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

// translateError maps wallet JSON-RPC error codes onto domain errors.
// MetaMask mobile reports 4902 wrapped in a -32603 error's data.originalError.
func translateError(method string, err error) error {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return fmt.Errorf("%s failed: %w", method, err)
	}

	code := rpcErr.ErrorCode()
	if code == codeInternal {
		var dataErr rpc.DataError
		if errors.As(err, &dataErr) {
			if original, ok := originalErrorCode(dataErr.ErrorData()); ok {
				code = original
			}
		}
	}

	switch code {
	case codeUserRejected:
		return fmt.Errorf("%s: %w: %s", method, entity.ErrUserRejected, rpcErr.Error())
	case codeChainNotRecognized:
		return fmt.Errorf("%s: %w: %s", method, entity.ErrChainNotRecognized, rpcErr.Error())
	default:
		return fmt.Errorf("%s failed (code %d): %w", method, code, err)
	}
}

func originalErrorCode(data any) (int, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return 0, false
	}
	original, ok := m["originalError"].(map[string]any)
	if !ok {
		return 0, false
	}
	code, ok := original["code"].(float64)
	if !ok {
		return 0, false
	}
	return int(code), true
}

package walletprovider

import (
	"context"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"

	"github.com/ethereum/go-ethereum/event"
)

// StubProvider stands in for connectors without an integration (WalletConnect, Coinbase).
// Every call fails with entity.ErrConnectorNotImplemented.
type StubProvider struct {
	kind entity.ConnectorKind
}

// NewStubProvider creates a stub for kind.
func NewStubProvider(kind entity.ConnectorKind) *StubProvider {
	return &StubProvider{kind: kind}
}

var _ port.WalletProvider = (*StubProvider)(nil)

func (s *StubProvider) Kind() entity.ConnectorKind { return s.kind }

func (s *StubProvider) RequestAccounts(context.Context) ([]string, error) {
	return nil, entity.ErrConnectorNotImplemented
}

func (s *StubProvider) SwitchChain(context.Context, uint64) error {
	return entity.ErrConnectorNotImplemented
}

func (s *StubProvider) AddChain(context.Context, entity.NetworkDefinition) error {
	return entity.ErrConnectorNotImplemented
}

func (s *StubProvider) Subscribe(chan<- entity.ProviderEvent) event.Subscription {
	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		return nil
	})
}

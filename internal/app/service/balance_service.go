package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
	"multichain_swap/internal/pkg/metrics"
	"multichain_swap/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// BalanceService reads the native balance of a wallet on a network.
type BalanceService struct {
	networks port.NetworkDefinitionProvider
	clients  port.BlockchainClientProvider
	logger   port.Logger

	cache    *cache.Cache
	inflight singleflight.Group
}

// NewBalanceService creates a BalanceService. Balances are cached for ttl; 0 disables caching.
func NewBalanceService(networks port.NetworkDefinitionProvider, clients port.BlockchainClientProvider, l port.Logger, ttl time.Duration) *BalanceService {
	s := &BalanceService{networks: networks, clients: clients, logger: l}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

// GetNativeBalance returns the balance of walletAddress on networkIdentifier,
// formatted with 4 fractional digits.
func (s *BalanceService) GetNativeBalance(ctx context.Context, walletAddress, networkIdentifier string) (entity.Balance, error) {
	netDef, ok := s.networks.GetNetworkDefinitionByName(networkIdentifier)
	if !ok {
		return entity.Balance{}, fmt.Errorf("%w: %s", entity.ErrUnknownNetwork, networkIdentifier)
	}

	key := netDef.Identifier + ":" + strings.ToLower(walletAddress)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			metrics.BalanceLookups.WithLabelValues(netDef.Identifier, metrics.OutcomeCacheHit).Inc()
			return cached.(entity.Balance), nil
		}
	}

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		client, err := s.clients.GetClient(netDef)
		if err != nil {
			return entity.Balance{}, err
		}
		amount, err := client.GetNativeBalance(ctx, walletAddress)
		if err != nil {
			return entity.Balance{}, err
		}
		return entity.Balance{
			WalletAddress:    walletAddress,
			NetworkName:      netDef.Name,
			ChainID:          netDef.ChainID,
			Symbol:           netDef.NativeCurrency.Symbol,
			Decimals:         netDef.NativeCurrency.Decimals,
			Amount:           amount,
			FormattedBalance: utils.FormatBalance(utils.FormatBigInt(amount, netDef.NativeCurrency.Decimals)),
		}, nil
	})
	if err != nil {
		metrics.BalanceLookups.WithLabelValues(netDef.Identifier, metrics.OutcomeFailed).Inc()
		s.logger.Warn("Failed to fetch native balance", "network", netDef.Identifier, "address", utils.FormatAddress(walletAddress), "error", err)
		return entity.Balance{}, fmt.Errorf("native balance on %s: %w", netDef.Name, err)
	}

	balance := v.(entity.Balance)
	if s.cache != nil {
		s.cache.SetDefault(key, balance)
	}
	metrics.BalanceLookups.WithLabelValues(netDef.Identifier, metrics.OutcomeFetched).Inc()
	return balance, nil
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
	"multichain_swap/internal/infrastructure/httpclient"
	"multichain_swap/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var stablecoinSymbols = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"DAI":  {},
}

// TokenPriceSettings tunes the price service.
type TokenPriceSettings struct {
	CacheTTL          time.Duration
	MaxTokensPerBatch int
	MaxConcurrency    int
}

type tokenPriceServiceImpl struct {
	tokenProvider     port.TokenProvider
	networkProvider   port.NetworkDefinitionProvider
	dexscreenerClient httpclient.DEXScreenerClient
	logger            port.Logger
	settings          TokenPriceSettings

	prices   *cache.Cache
	inflight singleflight.Group
}

// TokenPriceLoader is the price service plus its cache warm-up.
type TokenPriceLoader interface {
	port.TokenPriceService
	LoadAndCacheTokenPrices(ctx context.Context) error
}

// NewTokenPriceService creates a DEX Screener backed price service. Prices are
// cached per chain and token address for settings.CacheTTL.
func NewTokenPriceService(
	tp port.TokenProvider,
	np port.NetworkDefinitionProvider,
	dsc httpclient.DEXScreenerClient,
	l port.Logger,
	settings TokenPriceSettings,
) TokenPriceLoader {
	if settings.CacheTTL <= 0 {
		settings.CacheTTL = 5 * time.Minute
	}
	if settings.MaxTokensPerBatch <= 0 {
		settings.MaxTokensPerBatch = 30
	}
	if settings.MaxConcurrency <= 0 {
		settings.MaxConcurrency = 5
	}
	s := &tokenPriceServiceImpl{
		tokenProvider:     tp,
		networkProvider:   np,
		dexscreenerClient: dsc,
		logger:            l,
		settings:          settings,
		prices:            cache.New(settings.CacheTTL, 2*settings.CacheTTL),
	}
	l.Info("TokenPriceService initialized", "cache_ttl", settings.CacheTTL)
	return s
}

func priceKey(dexID, address string) string {
	return dexID + ":" + strings.ToLower(address)
}

// GetQuote returns the USD price of symbol on networkIdentifier. Tokens without a
// contract on that network, or without a usable pair, come back unpriced.
func (s *tokenPriceServiceImpl) GetQuote(ctx context.Context, networkIdentifier, symbol string) (entity.TokenQuote, error) {
	netDef, ok := s.networkProvider.GetNetworkDefinitionByName(networkIdentifier)
	if !ok {
		return entity.TokenQuote{}, fmt.Errorf("%w: %s", entity.ErrUnknownNetwork, networkIdentifier)
	}
	token, ok := s.tokenProvider.GetToken(symbol)
	if !ok {
		return entity.TokenQuote{}, fmt.Errorf("%w: %s", entity.ErrUnknownToken, symbol)
	}

	quote := entity.TokenQuote{Token: token, Network: netDef.Identifier}
	address := s.pricingAddress(token, netDef)
	if address == "" || netDef.DEXScreenerChainID == "" {
		s.logger.Debug("Token has no pricing contract on network", "token", token.Symbol, "network", netDef.Identifier)
		return quote, nil
	}

	key := priceKey(netDef.DEXScreenerChainID, address)
	if price, found := s.prices.Get(key); found {
		quote.PriceUSD, quote.Priced = price.(float64), true
		return quote, nil
	}

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		pairs, err := s.dexscreenerClient.GetTokenPairsByAddresses(ctx, netDef.DEXScreenerChainID, []string{address})
		if err != nil {
			return 0.0, err
		}
		return s.cachePrice(netDef.DEXScreenerChainID, address, pairs), nil
	})
	if err != nil {
		s.logger.Warn("Failed to fetch token price", "token", token.Symbol, "network", netDef.Identifier, "error", err)
		return quote, nil
	}
	if price := v.(float64); price > 0 {
		quote.PriceUSD, quote.Priced = price, true
	}
	return quote, nil
}

func (s *tokenPriceServiceImpl) pricingAddress(token entity.TokenInfo, netDef entity.NetworkDefinition) string {
	if address, ok := token.Addresses[netDef.ChainID]; ok {
		return address
	}
	if strings.EqualFold(token.Symbol, netDef.NativeCurrency.Symbol) {
		return netDef.WrappedNativeTokenAddress
	}
	return ""
}

// cachePrice stores the best price found in pairs and returns it, or 0 when none is usable.
func (s *tokenPriceServiceImpl) cachePrice(dexID, address string, pairs []httpclient.PairData) float64 {
	best := s.selectBestPriceFromPairs(pairs, address)
	if best == "" {
		return 0
	}
	price, err := strconv.ParseFloat(best, 64)
	if err != nil || price <= 0 {
		s.logger.Warn("Failed to parse token price from DEXScreener", "dexScreenerID", dexID, "tokenAddress", address, "price_string", best)
		return 0
	}
	s.prices.SetDefault(priceKey(dexID, address), price)
	return price
}

// LoadAndCacheTokenPrices warms the cache for every catalog token on every network.
func (s *tokenPriceServiceImpl) LoadAndCacheTokenPrices(ctx context.Context) error {
	s.logger.Info("Starting to load and cache token prices using DEXScreener...")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.MaxConcurrency)

	tokens := s.tokenProvider.GetTokens()
	for _, netDef := range s.networkProvider.GetAllNetworkDefinitions() {
		if netDef.DEXScreenerChainID == "" {
			s.logger.Warn("DEXScreenerChainID not defined for network, skipping price fetch", "network", netDef.Identifier)
			continue
		}

		addresses := make([]string, 0, len(tokens))
		for _, token := range tokens {
			if address := s.pricingAddress(token, netDef); address != "" {
				addresses = append(addresses, address)
			}
		}

		for _, batch := range utils.BatchStrings(addresses, s.settings.MaxTokensPerBatch) {
			batch := batch
			dexID := netDef.DEXScreenerChainID
			g.Go(func() error {
				pairs, err := s.dexscreenerClient.GetTokenPairsByAddresses(gctx, dexID, batch)
				if err != nil {
					s.logger.Error("Failed to get token pairs from DEXScreener", "dexScreenerID", dexID, "count", len(batch), "error", err)
					return nil
				}
				for _, address := range batch {
					if s.cachePrice(dexID, address, pairs) == 0 {
						s.logger.Warn("No usable pair returned from DEXScreener", "dexScreenerID", dexID, "tokenAddress", address)
					}
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("token price warm-up: %w", err)
	}
	s.logger.Info("Finished loading and caching token prices from DEXScreener.", "cached", s.prices.ItemCount())
	return nil
}

// selectBestPriceFromPairs prefers the deepest pair quoted in a stablecoin and
// falls back to the deepest pair overall.
func (s *tokenPriceServiceImpl) selectBestPriceFromPairs(pairs []httpclient.PairData, baseTokenAddress string) string {
	var bestOverall, bestStable *httpclient.PairData

	for i := range pairs {
		pair := &pairs[i]
		if !strings.EqualFold(pair.BaseToken.Address, baseTokenAddress) {
			continue
		}
		if pair.PriceUsd == "" || pair.PriceUsd == "0" {
			continue
		}

		if _, isStable := stablecoinSymbols[strings.ToUpper(pair.QuoteToken.Symbol)]; isStable {
			if bestStable == nil || deeper(pair, bestStable) {
				bestStable = pair
			}
		}
		if bestOverall == nil || deeper(pair, bestOverall) {
			bestOverall = pair
		}
	}

	switch {
	case bestStable != nil:
		return bestStable.PriceUsd
	case bestOverall != nil:
		return bestOverall.PriceUsd
	default:
		s.logger.Debug("No suitable price found from pairs", "baseTokenAddress", baseTokenAddress, "evaluatedPairCount", len(pairs))
		return ""
	}
}

func deeper(a, b *httpclient.PairData) bool {
	return a.Liquidity != nil && (b.Liquidity == nil || a.Liquidity.Usd > b.Liquidity.Usd)
}

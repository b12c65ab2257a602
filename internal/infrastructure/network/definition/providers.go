package networkdefinition

import (
	"fmt"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"
)

// DefaultNetworkIdentifier is selected at startup when nothing else is configured.
const DefaultNetworkIdentifier = "ethereum"

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger            port.Logger
	allNetworkDefs    map[string]entity.NetworkDefinition
	orderedNetworkIDs []string
	defaultIdentifier string
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:                   1,
		Name:                      "Ethereum",
		Identifier:                "ethereum",
		IconURL:                   "https://cryptologos.cc/logos/ethereum-eth-logo.png",
		RPCURL:                    "https://mainnet.infura.io/v3/",
		NativeCurrency:            entity.NativeCurrency{Name: "Ethereum", Symbol: "ETH", Decimals: 18},
		DEXScreenerChainID:        "ethereum",
		WrappedNativeTokenAddress: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", // WETH
	}
	Optimism = entity.NetworkDefinition{
		ChainID:                   10,
		Name:                      "Optimism",
		Identifier:                "optimism",
		IconURL:                   "https://cryptologos.cc/logos/optimism-ethereum-op-logo.png",
		RPCURL:                    "https://mainnet.optimism.io",
		NativeCurrency:            entity.NativeCurrency{Name: "ETH", Symbol: "ETH", Decimals: 18},
		DEXScreenerChainID:        "optimism",
		WrappedNativeTokenAddress: "0x4200000000000000000000000000000000000006", // WETH on Optimism
	}
	Polygon = entity.NetworkDefinition{
		ChainID:                   137,
		Name:                      "Polygon",
		Identifier:                "polygon",
		IconURL:                   "https://cryptologos.cc/logos/polygon-matic-logo.png",
		RPCURL:                    "https://polygon-rpc.com/",
		NativeCurrency:            entity.NativeCurrency{Name: "MATIC", Symbol: "MATIC", Decimals: 18},
		DEXScreenerChainID:        "polygon",
		WrappedNativeTokenAddress: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", // WMATIC
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:                   42161,
		Name:                      "Arbitrum",
		Identifier:                "arbitrum",
		IconURL:                   "https://cryptologos.cc/logos/arbitrum-arb-logo.png",
		RPCURL:                    "https://arb1.arbitrum.io/rpc",
		NativeCurrency:            entity.NativeCurrency{Name: "ETH", Symbol: "ETH", Decimals: 18},
		DEXScreenerChainID:        "arbitrum",
		WrappedNativeTokenAddress: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", // WETH on Arbitrum
	}
	Fantom = entity.NetworkDefinition{
		ChainID:                   250,
		Name:                      "Fantom",
		Identifier:                "fantom",
		IconURL:                   "https://cryptologos.cc/logos/fantom-ftm-logo.png",
		RPCURL:                    "https://rpc.ftm.tools/",
		NativeCurrency:            entity.NativeCurrency{Name: "FTM", Symbol: "FTM", Decimals: 18},
		DEXScreenerChainID:        "fantom",
		WrappedNativeTokenAddress: "0x21be370D5312f44cB42ce377BC9b8a0cEF1A4C83", // WFTM
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:                   43114,
		Name:                      "Avalanche",
		Identifier:                "avalanche",
		IconURL:                   "https://cryptologos.cc/logos/avalanche-avax-logo.png",
		RPCURL:                    "https://api.avax.network/ext/bc/C/rpc",
		NativeCurrency:            entity.NativeCurrency{Name: "AVAX", Symbol: "AVAX", Decimals: 18},
		DEXScreenerChainID:        "avalanche",
		WrappedNativeTokenAddress: "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", // WAVAX
	}
	Gnosis = entity.NetworkDefinition{
		ChainID:                   100,
		Name:                      "Gnosis",
		Identifier:                "gnosis",
		IconURL:                   "https://cryptologos.cc/logos/gnosis-gno-logo.png",
		RPCURL:                    "https://rpc.gnosischain.com",
		NativeCurrency:            entity.NativeCurrency{Name: "xDAI", Symbol: "xDAI", Decimals: 18},
		DEXScreenerChainID:        "gnosischain",
		WrappedNativeTokenAddress: "0xe91D153E0b41518A2Ce8Dd3D7944Fa863463a97d", // WXDAI
	}
	BNB = entity.NetworkDefinition{
		ChainID:                   56,
		Name:                      "BNB",
		Identifier:                "bnb",
		IconURL:                   "https://cryptologos.cc/logos/bnb-bnb-logo.png",
		RPCURL:                    "https://bsc-dataseed.binance.org/",
		NativeCurrency:            entity.NativeCurrency{Name: "BNB", Symbol: "BNB", Decimals: 18},
		DEXScreenerChainID:        "bsc",
		WrappedNativeTokenAddress: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", // WBNB
	}
)

// allKnownDefinitions is the selector order shown on the page.
var allKnownDefinitions = []entity.NetworkDefinition{ //nolint:gochecknoglobals
	Ethereum, Optimism, Polygon, Arbitrum, Fantom, Avalanche, Gnosis, BNB,
}

// NewNetworkDefinitionProvider creates a new NetworkDefinitionProvider.
// rpcOverrides replaces the RPC URL of a network by identifier; unknown identifiers are logged and skipped.
// An empty or unknown defaultIdentifier falls back to DefaultNetworkIdentifier.
func NewNetworkDefinitionProvider(log port.Logger, defaultIdentifier string, rpcOverrides map[string]string) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:            log,
		allNetworkDefs:    make(map[string]entity.NetworkDefinition, len(allKnownDefinitions)),
		orderedNetworkIDs: make([]string, 0, len(allKnownDefinitions)),
		defaultIdentifier: DefaultNetworkIdentifier,
	}

	for _, def := range allKnownDefinitions {
		p.allNetworkDefs[def.Identifier] = def
		p.orderedNetworkIDs = append(p.orderedNetworkIDs, def.Identifier)
	}

	for identifier, rpcURL := range rpcOverrides {
		def, ok := p.allNetworkDefs[identifier]
		if !ok {
			p.logger.Warn(fmt.Sprintf("RPC override configured for unknown network '%s'. Skipping.", identifier))
			continue
		}
		def.RPCURL = rpcURL
		p.allNetworkDefs[identifier] = def
		p.logger.Debug("RPC URL overridden", "network", identifier, "rpc_url", rpcURL)
	}

	if defaultIdentifier != "" {
		if _, ok := p.allNetworkDefs[defaultIdentifier]; ok {
			p.defaultIdentifier = defaultIdentifier
		} else {
			p.logger.Warn("Configured default network is not registered, using fallback",
				"configured", defaultIdentifier, "fallback", DefaultNetworkIdentifier)
		}
	}

	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Networks: %d, default: %s", len(p.orderedNetworkIDs), p.defaultIdentifier))
	return p
}

// GetAllNetworkDefinitions returns every registered network in display order.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.orderedNetworkIDs))
	for _, id := range p.orderedNetworkIDs {
		defs = append(defs, p.allNetworkDefs[id])
	}
	return defs
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.allNetworkDefs[identifier]
	return def, ok
}

// GetNetworkDefinitionByChainID returns a specific network definition by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, id := range p.orderedNetworkIDs {
		if def := p.allNetworkDefs[id]; def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// DefaultIdentifier returns the network selected at startup.
func (p *NetworkDefinitionProvider) DefaultIdentifier() string {
	return p.defaultIdentifier
}

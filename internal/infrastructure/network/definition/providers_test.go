package networkdefinition

import (
	"testing"

	"multichain_swap/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasEightNetworksInOrder(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNopLogger(), "", nil)

	defs := p.GetAllNetworkDefinitions()
	require.Len(t, defs, 8)

	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.Identifier)
	}
	assert.Equal(t, []string{"ethereum", "optimism", "polygon", "arbitrum", "fantom", "avalanche", "gnosis", "bnb"}, ids)
	assert.Equal(t, DefaultNetworkIdentifier, p.DefaultIdentifier())
}

func TestLookupByChainID(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNopLogger(), "", nil)

	polygon, ok := p.GetNetworkDefinitionByChainID(137)
	require.True(t, ok)
	assert.Equal(t, "polygon", polygon.Identifier)
	assert.Equal(t, "Polygon", polygon.Name)
	assert.Equal(t, "https://polygon-rpc.com/", polygon.RPCURL)
	assert.Equal(t, "MATIC", polygon.NativeCurrency.Symbol)
	assert.Equal(t, "MATIC", polygon.NativeCurrency.Name)
	assert.EqualValues(t, 18, polygon.NativeCurrency.Decimals)

	_, ok = p.GetNetworkDefinitionByChainID(999999)
	assert.False(t, ok)
}

func TestOverridesAndDefault(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNopLogger(), "arbitrum", map[string]string{
		"ethereum": "https://rpc.example.org",
		"unknown":  "https://ignored.example.org",
	})

	eth, ok := p.GetNetworkDefinitionByName("ethereum")
	require.True(t, ok)
	assert.Equal(t, "https://rpc.example.org", eth.RPCURL)
	assert.Equal(t, "arbitrum", p.DefaultIdentifier())

	_, ok = p.GetNetworkDefinitionByName("unknown")
	assert.False(t, ok)

	fallback := NewNetworkDefinitionProvider(logger.NewNopLogger(), "solana", nil)
	assert.Equal(t, DefaultNetworkIdentifier, fallback.DefaultIdentifier())
}

func TestOverrideDoesNotLeakIntoPackageDefinitions(t *testing.T) {
	_ = NewNetworkDefinitionProvider(logger.NewNopLogger(), "", map[string]string{"polygon": "https://x.example"})
	assert.Equal(t, "https://polygon-rpc.com/", Polygon.RPCURL)
}

package entity

// NativeCurrency describes the gas token of a network in the shape wallets expect
// for wallet_addEthereumChain.
type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

// NetworkDefinition holds the configuration for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID                   uint64         `json:"chainId" yaml:"chainId"`
	Name                      string         `json:"name" yaml:"name"`
	Identifier                string         `json:"identifier" yaml:"identifier"` // e.g. "ethereum", "polygon"
	IconURL                   string         `json:"icon" yaml:"icon"`
	RPCURL                    string         `json:"rpcUrl" yaml:"rpcUrl"`
	NativeCurrency            NativeCurrency `json:"nativeCurrency" yaml:"nativeCurrency"`
	DEXScreenerChainID        string         `json:"-" yaml:"dexScreenerChainId"`
	WrappedNativeTokenAddress string         `json:"-" yaml:"wrappedNativeTokenAddress"`
}

package entity

// ConnectorKind is the integration strategy used to reach a wallet.
type ConnectorKind string

const (
	ConnectorInjected      ConnectorKind = "injected"
	ConnectorWalletConnect ConnectorKind = "walletconnect"
	ConnectorCoinbase      ConnectorKind = "coinbase"
	ConnectorPhantom       ConnectorKind = "phantom"
	ConnectorBinance       ConnectorKind = "binance"
)

// IsStub reports whether the connector has no real integration behind it.
func (k ConnectorKind) IsStub() bool {
	return k == ConnectorWalletConnect || k == ConnectorCoinbase
}

// WalletDefinition describes a wallet the page can connect to.
type WalletDefinition struct {
	Identifier string        `json:"identifier"`
	Name       string        `json:"name"`
	IconURL    string        `json:"icon"`
	Connector  ConnectorKind `json:"connector"`
	InstallURL string        `json:"installUrl,omitempty"`
}

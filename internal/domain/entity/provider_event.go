package entity

// ProviderEventType is the kind of notification a wallet provider emits.
type ProviderEventType string

const (
	ProviderAccountsChanged ProviderEventType = "accountsChanged"
	ProviderChainChanged    ProviderEventType = "chainChanged"
)

// ProviderEvent is an account or chain change reported by a wallet.
type ProviderEvent struct {
	Source   ConnectorKind
	Type     ProviderEventType
	Accounts []string // for accountsChanged
	ChainID  uint64   // for chainChanged
}

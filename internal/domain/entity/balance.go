package entity

import "math/big"

// Balance represents the native currency held by the connected wallet on a network.
type Balance struct {
	WalletAddress    string   `json:"walletAddress"`
	NetworkName      string   `json:"networkName"`
	ChainID          uint64   `json:"chainId"`
	Symbol           string   `json:"symbol"`
	Decimals         uint8    `json:"decimals"`
	Amount           *big.Int `json:"-"`
	FormattedBalance string   `json:"formattedBalance"`
}

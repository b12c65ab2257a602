package entity

// TokenInfo holds the details of a token shown in the swap token selectors.
// Addresses maps a chain ID to the contract used to price the token there.
type TokenInfo struct {
	Symbol    string            `json:"symbol"`
	Name      string            `json:"name"`
	IconURL   string            `json:"icon"`
	Decimals  uint8             `json:"decimals"`
	Addresses map[uint64]string `json:"addresses,omitempty"`
}

// TokenQuote is a token with its USD price on a given network, when known.
type TokenQuote struct {
	Token    TokenInfo `json:"token"`
	Network  string    `json:"network"`
	PriceUSD float64   `json:"priceUsd"`
	Priced   bool      `json:"priced"`
}

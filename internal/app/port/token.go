package port

import (
	"context"

	"multichain_swap/internal/domain/entity"
)

// TokenProvider defines the interface for the token selector catalog.
type TokenProvider interface {
	GetTokens() []entity.TokenInfo
	GetToken(symbol string) (entity.TokenInfo, bool)
}

// TokenPriceService quotes catalog tokens in USD.
type TokenPriceService interface {
	// GetQuote returns the token with its USD price on the given network.
	// An unpriced quote is not an error.
	GetQuote(ctx context.Context, networkIdentifier, symbol string) (entity.TokenQuote, error)
}

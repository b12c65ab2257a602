package entity

import "errors"

var (
	// ErrProviderUnavailable means the wallet bridge for a connector is not present.
	ErrProviderUnavailable = errors.New("wallet provider not available")
	// ErrUserRejected is returned when the user declines a request in the wallet (EIP-1193 code 4001).
	ErrUserRejected = errors.New("user rejected the request")
	// ErrChainNotRecognized is returned by wallet_switchEthereumChain for unknown chains (code 4902).
	ErrChainNotRecognized      = errors.New("chain not recognized by wallet")
	ErrChainSwitchUnsupported  = errors.New("wallet does not support chain switching")
	ErrConnectorNotImplemented = errors.New("connector integration not implemented")
	ErrNoAccounts              = errors.New("wallet returned no accounts")
	ErrUnknownWallet           = errors.New("unknown wallet")
	ErrUnknownNetwork          = errors.New("unknown network")
	ErrUnknownToken            = errors.New("unknown token")
	ErrUnknownModal            = errors.New("unknown modal")
	ErrNotConnected            = errors.New("no wallet connected")
)

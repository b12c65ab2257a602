package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// EVMClient implements the port.BlockchainClient interface for EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	limiter        *rate.Limiter
}

// NewEVMClient dials the network's RPC endpoint. limiter may be nil.
func NewEVMClient(netDef entity.NetworkDefinition, connectionTimeout, rpcCallTimeout time.Duration, limiter *rate.Limiter) (*EVMClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, netDef.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s for network %s: %w", netDef.RPCURL, netDef.Name, err)
	}
	return &EVMClient{ethClient: client, netDef: netDef, rpcCallTimeout: rpcCallTimeout, limiter: limiter}, nil
}

var _ port.BlockchainClient = (*EVMClient)(nil)

// GetNativeBalance calls eth_getBalance at the latest block.
func (c *EVMClient) GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error) {
	if !common.IsHexAddress(walletAddress) {
		return nil, fmt.Errorf("invalid EVM address %q", walletAddress)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter for %s: %w", c.netDef.Name, err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	balance, err := c.ethClient.BalanceAt(callCtx, common.HexToAddress(walletAddress), nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance on %s failed: %w", c.netDef.Name, err)
	}
	return balance, nil
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

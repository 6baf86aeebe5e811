package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	rtyAtt = retry.Attempts(5)
	rtyDel = retry.Delay(3 * time.Second)
	rtyErr = retry.LastErrorOnly(true)
)

// Client wraps an ethclient connection and applies a per-call timeout, so no
// core operation can block past the configured bound.
type Client struct {
	eth     *ethclient.Client
	timeout time.Duration
}

func NewClient(ctx context.Context, rpcAddress string, timeout time.Duration) (*Client, error) {
	var eth *ethclient.Client
	if err := retry.Do(func() error {
		var err error
		eth, err = ethclient.DialContext(ctx, rpcAddress)
		return err
	}, retry.Context(ctx), rtyAtt, rtyDel, rtyErr); err != nil {
		return nil, fmt.Errorf("failed to dial ledger node at %s: %w", rpcAddress, err)
	}
	return &Client{eth: eth, timeout: timeout}, nil
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.eth.BlockNumber(ctx)
}

func (c *Client) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.eth.BalanceAt(ctx, addr, nil)
}

func (c *Client) NonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.eth.NonceAt(ctx, addr, nil)
}

func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.eth.SuggestGasPrice(ctx)
}

func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.eth.FilterLogs(ctx, q)
}

func (c *Client) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.eth.SendTransaction(ctx, tx)
}

func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.eth.TransactionReceipt(ctx, hash)
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.eth.CallContract(ctx, msg, blockNumber)
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.eth.ChainID(ctx)
}

func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

package relay

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// LedgerClient is the daemon's view of the ledger node. Implementations are
// expected to enforce caller-side timeouts; the core never blocks indefinitely
// on any of these calls.
type LedgerClient interface {
	// BlockNumber returns the number of the most recent block.
	BlockNumber(ctx context.Context) (uint64, error)
	// BalanceAt returns the native balance of addr at the latest block.
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)
	// NonceAt returns the ledger-reported transaction count of addr.
	NonceAt(ctx context.Context, addr common.Address) (uint64, error)
	// SuggestGasPrice returns the current network gas price.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	// FilterLogs fetches contract logs matching q.
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error)
	// SendTransaction broadcasts a signed transaction.
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	// TransactionReceipt returns the receipt of a mined transaction, or
	// ethereum.NotFound while the transaction is still pending.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error)
	// CallContract executes a read-only contract call.
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	// ChainID returns the chain ID used for replay-protected signing.
	ChainID(ctx context.Context) (*big.Int, error)
}

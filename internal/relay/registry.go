package relay

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RegistryStakeInfo is the registry's staking record for a relay manager.
type RegistryStakeInfo struct {
	Stake         *big.Int
	UnstakeDelay  *big.Int
	WithdrawBlock *big.Int
	Owner         common.Address
}

// RegistryClient is the daemon's view of the collateral-registry contract:
// read calls, event queries and calldata builders for the outbound calls the
// registration state machine emits.
type RegistryClient interface {
	// Address is the registry contract address, destination of all registry
	// calls.
	Address() common.Address
	// GetStakeInfo returns the staking record for relayAddr.
	GetStakeInfo(ctx context.Context, relayAddr common.Address) (*RegistryStakeInfo, error)
	// BalanceOf returns addr's deposit held inside the registry contract.
	BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error)
	// GetNonce returns the registry-internal relay-call nonce of addr. Used
	// by the request-serving path, exposed here for the status surface.
	GetNonce(ctx context.Context, addr common.Address) (*big.Int, error)
	// PastEvents returns the registry events concerning relayAddr in the
	// inclusive block range [fromBlock, toBlock], in ledger order. A log that
	// cannot be decoded is a protocol violation, not skipped.
	PastEvents(ctx context.Context, relayAddr common.Address, fromBlock, toBlock uint64) ([]RegistryEvent, error)
	// RegisterRelayData builds the registration-announcement calldata
	// declaring the fee schedule and URL.
	RegisterRelayData(baseFee *big.Int, pctFee *big.Int, url string) ([]byte, error)
	// WithdrawData builds calldata moving amount of registry-held deposit to
	// dest.
	WithdrawData(amount *big.Int, dest common.Address) ([]byte, error)
	// DepositForData builds calldata crediting the registry-held deposit of
	// target.
	DepositForData(target common.Address) ([]byte, error)
}

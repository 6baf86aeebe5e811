package relay

import (
	"context"
	"math/big"
)

// RelayParams is the administratively configured registration payload: the
// fee schedule and URL the relay announces to the registry. A change here must
// be detected and re-announced even if the relay is already registered.
type RelayParams struct {
	BaseFee *big.Int
	PctFee  *big.Int
	URL     string
}

// RegistrationManager owns the staking/authorization state machine. It
// decides, given current chain state and config, which registration-related
// transactions must be sent, and consumes the TxManager to send them.
type RegistrationManager interface {
	// RefreshStake queries current stake, owner and unstake delay from the
	// ledger and updates StakeInfo and the owner address. Idempotent, never
	// sends transactions.
	RefreshStake(ctx context.Context) error
	// HandlePastEvents replays a batch of registry events in ledger order and
	// returns the transactions it decided to emit.
	HandlePastEvents(ctx context.Context, events []RegistryEvent, currentBlock uint64, forceRegistration bool) ([]*PendingTransaction, error)
	// AttemptRegistration emits the registration announcement and worker
	// funding transfers when the staking and authorization preconditions
	// hold. Idempotent: with unchanged config and sufficient funding a second
	// call emits nothing.
	AttemptRegistration(ctx context.Context, currentBlock uint64) ([]*PendingTransaction, error)
	// IsReadyToRelay reports eligibility from current stake, registration
	// state and balances. No side effects.
	IsReadyToRelay(ctx context.Context) (bool, error)
	// ApplyConfig installs new relay params and flags that the registration
	// must be re-announced.
	ApplyConfig(params RelayParams)
	// State returns a copy of the current registration state.
	State() RegistrationState
	// StakeInfo returns a copy of the last observed stake info.
	StakeInfo() StakeInfo
}

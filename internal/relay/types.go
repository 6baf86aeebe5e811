package relay

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Role tells apart the two kinds of identities the daemon controls.
type Role string

const (
	// RoleManager is the primary on-chain identity representing the relay's
	// stake and registration. There is exactly one manager per process.
	RoleManager Role = "manager"
	// RoleWorker is a secondary funded identity used to broadcast relayed
	// transactions, kept separate from the manager for risk isolation.
	RoleWorker Role = "worker"
)

// Identity is an address the daemon can sign for. Immutable for the process
// lifetime; owned by the KeyStore.
type Identity struct {
	Address common.Address `json:"address"`
	Role    Role           `json:"role"`
	// Index is the worker pool slot, 0 for the manager.
	Index int `json:"index"`
}

// StakeInfo is the last observed staking state of the manager identity.
// Registration may only proceed when CurrentValue >= RequiredValue and
// UnstakeDelay meets the configured minimum.
type StakeInfo struct {
	RequiredValue *big.Int
	CurrentValue  *big.Int
	UnstakeDelay  uint64
	// WithdrawBlock is set once an unstake has been scheduled on chain.
	WithdrawBlock *uint64
}

// RegistrationState holds the boolean facts the eligibility decision is made
// from. Ready is derived, never set independently.
type RegistrationState struct {
	// OwnerAddress is unknown until the first stake event is observed.
	OwnerAddress    *common.Address
	IsStakeLocked   bool
	IsHubAuthorized bool
	Ready           bool
}

// PendingTransaction is a transaction the daemon has signed and keeps tracking
// until it is mined. Keyed by (Signer, Nonce) in storage; nonces per signer are
// strictly increasing and gap-free.
type PendingTransaction struct {
	Signer              common.Address    `json:"signer"`
	Nonce               uint64            `json:"nonce"`
	Destination         common.Address    `json:"destination"`
	Payload             []byte            `json:"payload"`
	Value               *big.Int          `json:"value"`
	GasLimit            uint64            `json:"gas_limit"`
	GasPrice            *big.Int          `json:"gas_price"`
	CreationBlockNumber uint64            `json:"creation_block_number"`
	Hash                common.Hash       `json:"hash"`
	MinedBlock          *uint64           `json:"mined_block,omitempty"`
	Receipt             *ethtypes.Receipt `json:"receipt,omitempty"`
}

// Mined reports whether a receipt has been observed for the transaction.
func (pt *PendingTransaction) Mined() bool {
	return pt.MinedBlock != nil
}

// TxRequest is the intent handed to the TxManager: who signs, where to, and
// what payload. Value and GasPrice may be left nil (zero value / computed from
// the current network price).
type TxRequest struct {
	Signer              Identity
	Destination         common.Address
	Value               *big.Int
	GasLimit            uint64
	Payload             []byte
	GasPrice            *big.Int
	CreationBlockNumber uint64
}

// PollResult is the outcome of a single pending-transactions poll.
type PollResult struct {
	Confirmed   []*PendingTransaction
	Resubmitted []*PendingTransaction
}

// Status is the externally visible state of the daemon, served by the
// webserver.
type Status struct {
	Ready            bool             `json:"ready"`
	LastError        string           `json:"last_error,omitempty"`
	LastScannedBlock uint64           `json:"last_scanned_block"`
	ManagerAddress   common.Address   `json:"manager_address"`
	WorkerAddresses  []common.Address `json:"worker_addresses"`
}

package relay

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RegistryEvent is a typed registry-contract event. Events are replayed into
// local state in ledger order: ascending block number, then log index.
type RegistryEvent interface {
	// EventName is the registry event name, e.g. "Staked".
	EventName() string
	// BlockNumber is the block the event was emitted in.
	BlockNumber() uint64
}

// EventMeta carries the ledger position of an event.
type EventMeta struct {
	Block    uint64
	TxHash   common.Hash
	LogIndex uint
}

func (m EventMeta) BlockNumber() uint64 { return m.Block }

// StakedEvent: collateral was added or topped up for the relay.
type StakedEvent struct {
	EventMeta
	Relay        common.Address
	Stake        *big.Int
	UnstakeDelay *big.Int
}

func (StakedEvent) EventName() string { return "Staked" }

// UnstakedEvent: the owner withdrew the relay's collateral. Entering this
// state triggers a full drain of the relay's funds to the owner.
type UnstakedEvent struct {
	EventMeta
	Relay common.Address
	Stake *big.Int
}

func (UnstakedEvent) EventName() string { return "Unstaked" }

// HubAuthorizedEvent: the owner granted the manager permission to operate
// against the registry.
type HubAuthorizedEvent struct {
	EventMeta
	Relay common.Address
}

func (HubAuthorizedEvent) EventName() string { return "HubAuthorized" }

// HubUnauthorizedEvent: the owner revoked hub authorization. Collateral and
// worker balances are returned to the owner; the manager keeps its native
// balance to pay for the withdrawals and a future re-authorization.
type HubUnauthorizedEvent struct {
	EventMeta
	Relay common.Address
}

func (HubUnauthorizedEvent) EventName() string { return "HubUnauthorized" }

// RelayRemovedEvent: the registry removed the relay. Terminal for the current
// registration; a new announcement is required to operate again.
type RelayRemovedEvent struct {
	EventMeta
	Relay        common.Address
	UnstakeBlock *big.Int
}

func (RelayRemovedEvent) EventName() string { return "RelayRemoved" }

// StakePenalizedEvent: part of the stake was slashed. The stake may have
// dropped below the requirement, so StakeInfo must be refreshed.
type StakePenalizedEvent struct {
	EventMeta
	Relay       common.Address
	Beneficiary common.Address
	Reward      *big.Int
}

func (StakePenalizedEvent) EventName() string { return "StakePenalized" }

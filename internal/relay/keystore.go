package relay

import (
	"math/big"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// KeyStore holds one manager identity and a fixed pool of worker identities,
// each an address plus signing capability. Pure local capability, no network
// access.
type KeyStore interface {
	// ManagerIdentity returns the single manager identity.
	ManagerIdentity() Identity
	// WorkerIdentity returns the worker identity at the given pool index.
	// Returns ErrKeyNotFound if index exceeds the configured pool size.
	WorkerIdentity(index int) (Identity, error)
	// SignTx signs tx with the key behind identity.
	SignTx(identity Identity, tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)
	// EnsurePersisted guarantees key material survives a process restart
	// without re-derivation.
	EnsurePersisted() error
}

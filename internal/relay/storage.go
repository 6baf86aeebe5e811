package relay

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// TxStorage is the durable, crash-safe local state of the daemon: the table
// of transactions it has signed and is tracking until mined, plus the
// reconciliation watermark. The transaction table is exclusively owned by the
// TxManager; the watermark by the Relayer.
type TxStorage interface {
	// PutPendingTx inserts a new pending entry. Returns ErrNonceConflict if a
	// pending entry for the same (signer, nonce) already exists.
	PutPendingTx(tx *PendingTransaction) error
	// UpdatePendingTx replaces an existing pending entry, used on
	// resubmission. The (signer, nonce) key never changes.
	UpdatePendingTx(tx *PendingTransaction) error
	// ConfirmTx moves a pending entry to the confirmed set, recording the
	// block it was mined in and its receipt.
	ConfirmTx(signer common.Address, nonce uint64, minedBlock uint64, receipt *ethtypes.Receipt) error
	// GetAllPendingTxs returns every non-confirmed entry, ordered by signer
	// and nonce.
	GetAllPendingTxs() ([]*PendingTransaction, error)
	// GetAllConfirmedTxs returns every confirmed entry.
	GetAllConfirmedTxs() ([]*PendingTransaction, error)
	// GetLastScannedBlock returns the persisted reconciliation watermark.
	// found is false on a fresh database.
	GetLastScannedBlock() (block uint64, found bool, err error)
	// SetLastScannedBlock persists the reconciliation watermark so event
	// replay resumes where it stopped after a restart.
	SetLastScannedBlock(block uint64) error
	// Clear drops all entries. Used only for full resets in recovery and
	// tests.
	Clear() error
	Close() error
}

package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/relaynet-org/relay-daemon/internal/relay"
)

const PendingTxPrefix = "pending_txs"
const ConfirmedTxPrefix = "confirmed_txs"
const LastScannedBlockKey = "last_scanned_block"

// LevelDBStorage keeps two key spaces:
// first one : pending_txs/<signer>/<nonce> -> PendingTransaction still waiting for a receipt
// second one: confirmed_txs/<signer>/<nonce> -> PendingTransaction with its mined block and receipt
// Nonces are zero-padded in keys so iteration order is signer, then nonce.
// A single last_scanned_block key holds the relayer's event replay watermark.
type LevelDBStorage struct {
	sync.Mutex
	db *leveldb.DB
}

func NewLevelDBStorage(path string) (*LevelDBStorage, error) {
	database, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}

	return &LevelDBStorage{db: database}, nil
}

// PutPendingTx inserts a new pending transaction. A live pending entry under
// the same (signer, nonce) is a nonce conflict and halts the caller.
func (s *LevelDBStorage) PutPendingTx(tx *relay.PendingTransaction) error {
	s.Lock()
	defer s.Unlock()

	key := pendingKey(tx.Signer, tx.Nonce)
	exists, err := s.db.Has(key, nil)
	if err != nil {
		return fmt.Errorf("failed to check for existing pending tx: %w", err)
	}
	if exists {
		return fmt.Errorf("signer %s nonce %d: %w", tx.Signer.Hex(), tx.Nonce, relay.ErrNonceConflict)
	}

	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal PendingTransaction: %w", err)
	}

	if err := s.db.Put(key, data, nil); err != nil {
		return fmt.Errorf("failed to store pending tx: %w", err)
	}

	return nil
}

// UpdatePendingTx overwrites an existing pending entry after a resubmission.
func (s *LevelDBStorage) UpdatePendingTx(tx *relay.PendingTransaction) error {
	s.Lock()
	defer s.Unlock()

	key := pendingKey(tx.Signer, tx.Nonce)
	exists, err := s.db.Has(key, nil)
	if err != nil {
		return fmt.Errorf("failed to check for existing pending tx: %w", err)
	}
	if !exists {
		return fmt.Errorf("no pending tx for signer %s nonce %d", tx.Signer.Hex(), tx.Nonce)
	}

	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal PendingTransaction: %w", err)
	}

	if err := s.db.Put(key, data, nil); err != nil {
		return fmt.Errorf("failed to update pending tx: %w", err)
	}

	return nil
}

// ConfirmTx moves a pending entry into the confirmed key space, attaching the
// mined block and receipt. Both writes happen in one leveldb transaction.
func (s *LevelDBStorage) ConfirmTx(signer common.Address, nonce uint64, minedBlock uint64, receipt *ethtypes.Receipt) error {
	s.Lock()
	defer s.Unlock()

	key := pendingKey(signer, nonce)
	data, err := s.db.Get(key, nil)
	if err != nil {
		return fmt.Errorf("failed to get pending tx for signer %s nonce %d: %w", signer.Hex(), nonce, err)
	}

	var tx relay.PendingTransaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return fmt.Errorf("failed to unmarshal data into PendingTransaction: %w", err)
	}

	tx.MinedBlock = &minedBlock
	tx.Receipt = receipt

	t, err := s.db.OpenTransaction()
	if err != nil {
		return fmt.Errorf("failed to open leveldb transaction: %w", err)
	}
	defer t.Discard()

	confirmed, err := json.Marshal(&tx)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmed tx: %w", err)
	}

	if err := t.Put(confirmedKey(signer, nonce), confirmed, nil); err != nil {
		return fmt.Errorf("failed to store confirmed tx: %w", err)
	}
	if err := t.Delete(key, nil); err != nil {
		return fmt.Errorf("failed to remove pending tx: %w", err)
	}

	return t.Commit()
}

func (s *LevelDBStorage) GetAllPendingTxs() ([]*relay.PendingTransaction, error) {
	return s.getAllByPrefix(PendingTxPrefix)
}

func (s *LevelDBStorage) GetAllConfirmedTxs() ([]*relay.PendingTransaction, error) {
	return s.getAllByPrefix(ConfirmedTxPrefix)
}

func (s *LevelDBStorage) getAllByPrefix(prefix string) ([]*relay.PendingTransaction, error) {
	s.Lock()
	defer s.Unlock()

	iterator := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iterator.Release()
	var txs []*relay.PendingTransaction
	for iterator.Next() {
		value := iterator.Value()
		var tx relay.PendingTransaction
		err := json.Unmarshal(value, &tx)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal data into PendingTransaction: %w", err)
		}

		txs = append(txs, &tx)
	}
	return txs, nil
}

// GetLastScannedBlock returns the persisted reconciliation watermark, or
// found=false on a database that never stored one.
func (s *LevelDBStorage) GetLastScannedBlock() (uint64, bool, error) {
	s.Lock()
	defer s.Unlock()

	data, err := s.db.Get([]byte(LastScannedBlockKey), nil)
	if err == leveldb.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read last scanned block: %w", err)
	}

	block, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse last scanned block %q: %w", data, err)
	}
	return block, true, nil
}

// SetLastScannedBlock persists the reconciliation watermark.
func (s *LevelDBStorage) SetLastScannedBlock(block uint64) error {
	s.Lock()
	defer s.Unlock()

	if err := s.db.Put([]byte(LastScannedBlockKey), []byte(strconv.FormatUint(block, 10)), nil); err != nil {
		return fmt.Errorf("failed to store last scanned block: %w", err)
	}
	return nil
}

// Clear drops every stored transaction. Full-reset escape hatch, used in
// recovery and tests only.
func (s *LevelDBStorage) Clear() error {
	s.Lock()
	defer s.Unlock()

	for _, prefix := range []string{PendingTxPrefix, ConfirmedTxPrefix} {
		iterator := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
		for iterator.Next() {
			if err := s.db.Delete(iterator.Key(), nil); err != nil {
				iterator.Release()
				return fmt.Errorf("failed to delete key %s: %w", iterator.Key(), err)
			}
		}
		iterator.Release()
	}
	return nil
}

func (s *LevelDBStorage) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("failed to close db: %w", err)
	}
	return nil
}

func pendingKey(signer common.Address, nonce uint64) []byte {
	return []byte(fmt.Sprintf("%s/%s/%020d", PendingTxPrefix, signer.Hex(), nonce))
}

func confirmedKey(signer common.Address, nonce uint64) []byte {
	return []byte(fmt.Sprintf("%s/%s/%020d", ConfirmedTxPrefix, signer.Hex(), nonce))
}

package keystore

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/relay"
)

const managerKeyName = "key_manager"

// storedKey is the persisted form of one identity's key material.
type storedKey struct {
	Address    common.Address `json:"address"`
	PrivateKey string         `json:"private_key"`
}

// LevelDBKeyStore holds the manager key and a fixed pool of worker keys in a
// local leveldb, keyed by role and index. Keys are generated on first start
// and loaded verbatim afterwards, so identities are stable across restarts.
type LevelDBKeyStore struct {
	mu sync.Mutex
	db *leveldb.DB

	manager relay.Identity
	workers []relay.Identity
	keys    map[common.Address]*ecdsa.PrivateKey

	logger *zap.Logger
}

func NewLevelDBKeyStore(path string, workersCount int, logger *zap.Logger) (*LevelDBKeyStore, error) {
	if workersCount < 1 {
		return nil, fmt.Errorf("workers count must be at least 1, got %d", workersCount)
	}

	database, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open keystore db: %w", err)
	}

	s := &LevelDBKeyStore{
		db:   database,
		keys: make(map[common.Address]*ecdsa.PrivateKey, workersCount+1),
	}

	managerKey, created, err := s.loadOrCreateKey(managerKeyName)
	if err != nil {
		return nil, err
	}
	s.manager = relay.Identity{Address: crypto.PubkeyToAddress(managerKey.PublicKey), Role: relay.RoleManager}
	s.keys[s.manager.Address] = managerKey
	if created {
		logger.Info("generated new manager key", zap.String("address", s.manager.Address.Hex()))
	}

	s.workers = make([]relay.Identity, workersCount)
	for i := 0; i < workersCount; i++ {
		workerKey, created, err := s.loadOrCreateKey(workerKeyName(i))
		if err != nil {
			return nil, err
		}
		s.workers[i] = relay.Identity{Address: crypto.PubkeyToAddress(workerKey.PublicKey), Role: relay.RoleWorker, Index: i}
		s.keys[s.workers[i].Address] = workerKey
		if created {
			logger.Info("generated new worker key", zap.Int("index", i), zap.String("address", s.workers[i].Address.Hex()))
		}
	}

	s.logger = logger
	return s, nil
}

func (s *LevelDBKeyStore) ManagerIdentity() relay.Identity {
	return s.manager
}

func (s *LevelDBKeyStore) WorkerIdentity(index int) (relay.Identity, error) {
	if index < 0 || index >= len(s.workers) {
		return relay.Identity{}, fmt.Errorf("worker index %d out of range [0, %d): %w", index, len(s.workers), relay.ErrKeyNotFound)
	}
	return s.workers[index], nil
}

// SignTx signs tx with identity's key using replay-protected signing for the
// given chain ID.
func (s *LevelDBKeyStore) SignTx(identity relay.Identity, tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	s.mu.Lock()
	key, ok := s.keys[identity.Address]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no key for address %s: %w", identity.Address.Hex(), relay.ErrKeyNotFound)
	}

	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign tx: %w", err)
	}
	return signed, nil
}

// EnsurePersisted rewrites every key entry with a synced put so key material
// survives restart without re-derivation.
func (s *LevelDBKeyStore) EnsurePersisted() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistKey(managerKeyName, s.keys[s.manager.Address], true); err != nil {
		return err
	}
	for i, worker := range s.workers {
		if err := s.persistKey(workerKeyName(i), s.keys[worker.Address], true); err != nil {
			return err
		}
	}
	return nil
}

func (s *LevelDBKeyStore) Close() error {
	return s.db.Close()
}

func (s *LevelDBKeyStore) loadOrCreateKey(name string) (key *ecdsa.PrivateKey, created bool, err error) {
	data, err := s.db.Get([]byte(name), nil)
	if err == nil {
		var stored storedKey
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, false, fmt.Errorf("failed to unmarshal stored key %s: %w", name, err)
		}
		key, err := crypto.HexToECDSA(stored.PrivateKey)
		if err != nil {
			return nil, false, fmt.Errorf("failed to decode stored key %s: %w", name, err)
		}
		return key, false, nil
	}
	if err != leveldb.ErrNotFound {
		return nil, false, fmt.Errorf("failed to read key %s: %w", name, err)
	}

	key, err = crypto.GenerateKey()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate key %s: %w", name, err)
	}
	if err := s.persistKey(name, key, true); err != nil {
		return nil, false, err
	}
	return key, true, nil
}

func (s *LevelDBKeyStore) persistKey(name string, key *ecdsa.PrivateKey, sync bool) error {
	stored := storedKey{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(key)),
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal key %s: %w", name, err)
	}
	if err := s.db.Put([]byte(name), data, &opt.WriteOptions{Sync: sync}); err != nil {
		return fmt.Errorf("failed to persist key %s: %w", name, err)
	}
	return nil
}

func workerKeyName(index int) string {
	return fmt.Sprintf("key_worker_%d", index)
}

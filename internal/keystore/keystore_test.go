package keystore_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/keystore"
	"github.com/relaynet-org/relay-daemon/internal/relay"
)

func TestIdentitiesStableAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()

	s, err := keystore.NewLevelDBKeyStore(dir, 2, logger)
	require.NoError(t, err)

	manager := s.ManagerIdentity()
	assert.Equal(t, relay.RoleManager, manager.Role)
	assert.NotEqual(t, common.Address{}, manager.Address)

	worker0, err := s.WorkerIdentity(0)
	require.NoError(t, err)
	worker1, err := s.WorkerIdentity(1)
	require.NoError(t, err)
	assert.Equal(t, relay.RoleWorker, worker0.Role)
	assert.Equal(t, 1, worker1.Index)
	assert.NotEqual(t, worker0.Address, worker1.Address)

	require.NoError(t, s.EnsurePersisted())
	require.NoError(t, s.Close())

	reopened, err := keystore.NewLevelDBKeyStore(dir, 2, logger)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, manager.Address, reopened.ManagerIdentity().Address)
	reopenedWorker0, err := reopened.WorkerIdentity(0)
	require.NoError(t, err)
	assert.Equal(t, worker0.Address, reopenedWorker0.Address)
}

func TestWorkerIdentityOutOfRange(t *testing.T) {
	s, err := keystore.NewLevelDBKeyStore(t.TempDir(), 1, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.WorkerIdentity(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, relay.ErrKeyNotFound))

	_, err = s.WorkerIdentity(-1)
	assert.Error(t, err)
}

func TestSignTxRecoversToSigner(t *testing.T) {
	s, err := keystore.NewLevelDBKeyStore(t.TempDir(), 1, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	chainID := big.NewInt(1337)
	worker, err := s.WorkerIdentity(0)
	require.NoError(t, err)

	tx := ethtypes.NewTransaction(0, common.HexToAddress("0x42"), big.NewInt(1), 21000, big.NewInt(100), nil)
	signed, err := s.SignTx(worker, tx, chainID)
	require.NoError(t, err)

	sender, err := ethtypes.Sender(ethtypes.NewEIP155Signer(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, worker.Address, sender)
}

func TestSignTxUnknownIdentity(t *testing.T) {
	s, err := keystore.NewLevelDBKeyStore(t.TempDir(), 1, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	stranger := relay.Identity{Address: common.HexToAddress("0xdead"), Role: relay.RoleWorker}
	tx := ethtypes.NewTransaction(0, common.HexToAddress("0x42"), big.NewInt(1), 21000, big.NewInt(100), nil)

	_, err = s.SignTx(stranger, tx, big.NewInt(1337))
	require.Error(t, err)
	assert.True(t, errors.Is(err, relay.ErrKeyNotFound))
}

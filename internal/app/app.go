package app

import (
	"context"
	"fmt"

	nlogger "github.com/neutron-org/neutron-logger"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/config"
	"github.com/relaynet-org/relay-daemon/internal/keystore"
	"github.com/relaynet-org/relay-daemon/internal/ledger"
	"github.com/relaynet-org/relay-daemon/internal/registration"
	"github.com/relaynet-org/relay-daemon/internal/registry"
	"github.com/relaynet-org/relay-daemon/internal/relay"
	"github.com/relaynet-org/relay-daemon/internal/storage"
	"github.com/relaynet-org/relay-daemon/internal/txmanager"
)

var (
	Version = ""
	Commit  = ""
)

const (
	AppContext                 = "app"
	RelayerContext             = "relayer"
	LedgerClientContext        = "ledger_client"
	RegistryClientContext      = "registry_client"
	KeyStoreContext            = "keystore"
	TxManagerContext           = "tx_manager"
	RegistrationManagerContext = "registration_manager"
)

func NewDefaultStorage(cfg config.RelayDaemonConfig, logger *zap.Logger) (relay.TxStorage, error) {
	leveldbStorage, err := storage.NewLevelDBStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create NewLevelDBStorage: %w", err)
	}

	return leveldbStorage, nil
}

func NewDefaultKeyStore(cfg config.RelayDaemonConfig, logRegistry *nlogger.Registry) (*keystore.LevelDBKeyStore, error) {
	keys, err := keystore.NewLevelDBKeyStore(cfg.KeystorePath, cfg.WorkersCount, logRegistry.Get(KeyStoreContext))
	if err != nil {
		return nil, fmt.Errorf("failed to create NewLevelDBKeyStore: %w", err)
	}

	if err := keys.EnsurePersisted(); err != nil {
		return nil, fmt.Errorf("failed to persist key material: %w", err)
	}

	return keys, nil
}

func NewDefaultLedgerClient(ctx context.Context, cfg config.RelayDaemonConfig) (*ledger.Client, error) {
	client, err := ledger.NewClient(ctx, cfg.NodeRPCAddress, cfg.NodeTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger client: %w", err)
	}

	return client, nil
}

// NewDefaultRelayer wires the full reconciliation engine: ledger client,
// registry client, transaction manager and registration state machine, all
// sharing the given storage and keystore. The returned relayer has already
// recovered its pending transactions from storage.
func NewDefaultRelayer(
	ctx context.Context,
	cfg config.RelayDaemonConfig,
	logRegistry *nlogger.Registry,
	ledgerClient relay.LedgerClient,
	store relay.TxStorage,
	keys relay.KeyStore,
) (*relay.Relayer, error) {
	registryClient, err := registry.NewClient(ledgerClient, cfg.RegistryAddress, logRegistry.Get(RegistryClientContext))
	if err != nil {
		return nil, fmt.Errorf("failed to create registry client: %w", err)
	}

	chainID, err := ledgerClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	txManager := txmanager.NewManager(ledgerClient, keys, store, &cfg, chainID, logRegistry.Get(TxManagerContext))
	if err := txManager.RecoverFromStorage(ctx); err != nil {
		return nil, fmt.Errorf("failed to recover pending txs: %w", err)
	}

	registrationManager := registration.NewManager(
		&cfg, ledgerClient, registryClient, txManager, keys, logRegistry.Get(RegistrationManagerContext))

	relayer := relay.NewRelayer(
		&cfg, ledgerClient, registryClient, registrationManager, txManager, keys, store, logRegistry.Get(RelayerContext))

	return relayer, nil
}

package config

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "RELAY"

// RelayDaemonConfig is the immutable snapshot of operational parameters the
// daemon is started with. All balance/stake/gas values are in wei. A change of
// the registration payload (fees, URL) is an external administrative act
// applied through RegistrationManager.ApplyConfig and forces re-registration.
type RelayDaemonConfig struct {
	// NodeRPCAddress is the ledger node endpoint.
	NodeRPCAddress string        `split_words:"true" required:"true"`
	NodeTimeout    time.Duration `split_words:"true" default:"10s"`

	// RegistryAddress is the collateral-registry (relay hub) contract.
	RegistryAddress common.Address `split_words:"true" required:"true"`

	// AdvertisedURL and the fee schedule form the registration announcement.
	AdvertisedURL string  `split_words:"true" required:"true"`
	BaseFee       big.Int `split_words:"true" default:"0"`
	PctFee        big.Int `split_words:"true" default:"70"`

	WorkersCount        int     `split_words:"true" default:"1"`
	WorkerTargetBalance big.Int `split_words:"true" default:"2000000000000000000"`
	WorkerMinBalance    big.Int `split_words:"true" default:"100000000000000000"`
	ManagerMinBalance   big.Int `split_words:"true" default:"500000000000000000"`

	RequiredStake   big.Int `split_words:"true" default:"1000000000000000000"`
	MinUnstakeDelay uint64  `split_words:"true" default:"1000"`

	// GasPriceFactorPercent scales the network-suggested gas price;
	// MinGasPrice is the floor.
	GasPriceFactorPercent uint64  `split_words:"true" default:"120"`
	MinGasPrice           big.Int `split_words:"true" default:"1000000000"`

	// PendingTxTimeoutBlocks is how long a transaction may stay unmined
	// before it is resubmitted; GasPriceBumpPercent is the price increase on
	// each resubmission.
	PendingTxTimeoutBlocks uint64 `split_words:"true" default:"30"`
	GasPriceBumpPercent    uint64 `split_words:"true" default:"10"`

	// RegistrationBlockRate throttles periodic re-announcement absent a
	// config change. 0 disables periodic re-announcement.
	RegistrationBlockRate uint64 `split_words:"true" default:"0"`

	ChainPollInterval time.Duration `split_words:"true" default:"5s"`

	StoragePath  string `split_words:"true" default:"./relay_storage"`
	KeystorePath string `split_words:"true" default:"./relay_keys"`
	ListenAddr   string `split_words:"true" default:"127.0.0.1:8090"`

	DevMode bool `split_words:"true" default:"false"`
}

func NewRelayDaemonConfig() (RelayDaemonConfig, error) {
	cfg := RelayDaemonConfig{}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to init config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (cfg *RelayDaemonConfig) Validate() error {
	if cfg.WorkersCount < 1 {
		return fmt.Errorf("workers count must be at least 1, got %d", cfg.WorkersCount)
	}
	if cfg.GasPriceBumpPercent < 10 {
		return fmt.Errorf("gas price bump percent must be at least 10, got %d", cfg.GasPriceBumpPercent)
	}
	if cfg.GasPriceFactorPercent < 100 {
		return fmt.Errorf("gas price factor percent must be at least 100, got %d", cfg.GasPriceFactorPercent)
	}
	if cfg.PendingTxTimeoutBlocks == 0 {
		return fmt.Errorf("pending tx timeout blocks must be positive")
	}
	return nil
}

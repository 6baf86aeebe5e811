package config_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaynet-org/relay-daemon/internal/config"
)

func validConfig() config.RelayDaemonConfig {
	return config.RelayDaemonConfig{
		NodeRPCAddress:         "http://127.0.0.1:8545",
		AdvertisedURL:          "https://relay.example.com",
		WorkersCount:           1,
		GasPriceFactorPercent:  120,
		MinGasPrice:            *big.NewInt(1000000000),
		PendingTxTimeoutBlocks: 30,
		GasPriceBumpPercent:    10,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(cfg *config.RelayDaemonConfig){
		"no_workers":         func(cfg *config.RelayDaemonConfig) { cfg.WorkersCount = 0 },
		"bump_below_minimum": func(cfg *config.RelayDaemonConfig) { cfg.GasPriceBumpPercent = 5 },
		"factor_below_100":   func(cfg *config.RelayDaemonConfig) { cfg.GasPriceFactorPercent = 90 },
		"no_pending_timeout": func(cfg *config.RelayDaemonConfig) { cfg.PendingTxTimeoutBlocks = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

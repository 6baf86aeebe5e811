package registration

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/config"
	"github.com/relaynet-org/relay-daemon/internal/relay"
	mock_relay "github.com/relaynet-org/relay-daemon/testutil/mocks/relay"
)

var (
	mgrAddr      = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	workerAddr   = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	ownerAddr    = common.HexToAddress("0x0000000000000000000000000000000000000a03")
	registryAddr = common.HexToAddress("0x0000000000000000000000000000000000000a04")
	otherAddr    = common.HexToAddress("0x0000000000000000000000000000000000000a05")
)

type testEnv struct {
	cfg      *config.RelayDaemonConfig
	ledger   *mock_relay.MockLedgerClient
	registry *mock_relay.MockRegistryClient
	txmgr    *mock_relay.MockTxManager
	keys     *mock_relay.MockKeyStore
	mgr      *Manager
	sent     []relay.TxRequest
}

func newTestEnv(t *testing.T, ctrl *gomock.Controller) *testEnv {
	env := &testEnv{
		cfg: &config.RelayDaemonConfig{
			AdvertisedURL:         "https://relay.example.com",
			BaseFee:               *big.NewInt(0),
			PctFee:                *big.NewInt(70),
			WorkersCount:          1,
			WorkerTargetBalance:   *big.NewInt(2000),
			WorkerMinBalance:      *big.NewInt(100),
			ManagerMinBalance:     *big.NewInt(500),
			RequiredStake:         *big.NewInt(1000),
			MinUnstakeDelay:       100,
			GasPriceFactorPercent: 100,
			MinGasPrice:           *big.NewInt(1),
		},
		ledger:   mock_relay.NewMockLedgerClient(ctrl),
		registry: mock_relay.NewMockRegistryClient(ctrl),
		txmgr:    mock_relay.NewMockTxManager(ctrl),
		keys:     mock_relay.NewMockKeyStore(ctrl),
	}

	env.keys.EXPECT().ManagerIdentity().
		Return(relay.Identity{Address: mgrAddr, Role: relay.RoleManager}).AnyTimes()
	env.keys.EXPECT().WorkerIdentity(0).
		Return(relay.Identity{Address: workerAddr, Role: relay.RoleWorker}, nil).AnyTimes()
	env.registry.EXPECT().Address().Return(registryAddr).AnyTimes()

	env.txmgr.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req relay.TxRequest) (*relay.PendingTransaction, error) {
			env.sent = append(env.sent, req)
			return &relay.PendingTransaction{
				Signer:      req.Signer.Address,
				Destination: req.Destination,
				Value:       req.Value,
			}, nil
		}).AnyTimes()

	env.mgr = NewManager(env.cfg, env.ledger, env.registry, env.txmgr, env.keys, zap.NewNop())
	return env
}

func (e *testEnv) expectGoodStakeInfo() {
	e.registry.EXPECT().GetStakeInfo(gomock.Any(), mgrAddr).Return(&relay.RegistryStakeInfo{
		Stake:         big.NewInt(2000),
		UnstakeDelay:  big.NewInt(200),
		WithdrawBlock: new(big.Int),
		Owner:         ownerAddr,
	}, nil).AnyTimes()
}

// seedEligible puts the manager into a registered-and-eligible state without
// replaying events.
func (e *testEnv) seedEligible() {
	owner := ownerAddr
	e.mgr.stake.CurrentValue = big.NewInt(2000)
	e.mgr.stake.UnstakeDelay = 200
	e.mgr.state.IsStakeLocked = true
	e.mgr.state.IsHubAuthorized = true
	e.mgr.state.OwnerAddress = &owner
}

func TestRefreshStakeLocksState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)
	env.expectGoodStakeInfo()

	require.NoError(t, env.mgr.RefreshStake(context.Background()))

	stake := env.mgr.StakeInfo()
	assert.Equal(t, big.NewInt(2000), stake.CurrentValue)
	assert.Equal(t, uint64(200), stake.UnstakeDelay)
	assert.Nil(t, stake.WithdrawBlock)

	state := env.mgr.State()
	assert.True(t, state.IsStakeLocked)
	require.NotNil(t, state.OwnerAddress)
	assert.Equal(t, ownerAddr, *state.OwnerAddress)
}

func TestRefreshStakeWithScheduledUnstake(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)

	env.registry.EXPECT().GetStakeInfo(gomock.Any(), mgrAddr).Return(&relay.RegistryStakeInfo{
		Stake:         big.NewInt(2000),
		UnstakeDelay:  big.NewInt(200),
		WithdrawBlock: big.NewInt(500),
		Owner:         ownerAddr,
	}, nil)

	require.NoError(t, env.mgr.RefreshStake(context.Background()))

	assert.False(t, env.mgr.State().IsStakeLocked)
	require.NotNil(t, env.mgr.StakeInfo().WithdrawBlock)
	assert.Equal(t, uint64(500), *env.mgr.StakeInfo().WithdrawBlock)
}

func TestRegistrationIndependentOfEventOrder(t *testing.T) {
	staked := relay.StakedEvent{
		EventMeta:    relay.EventMeta{Block: 90},
		Relay:        mgrAddr,
		Stake:        big.NewInt(2000),
		UnstakeDelay: big.NewInt(200),
	}
	authorized := relay.HubAuthorizedEvent{EventMeta: relay.EventMeta{Block: 91}, Relay: mgrAddr}

	for name, events := range map[string][]relay.RegistryEvent{
		"staked_first":     {staked, authorized},
		"authorized_first": {authorized, staked},
	} {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(t, ctrl)
			env.expectGoodStakeInfo()

			env.registry.EXPECT().RegisterRelayData(gomock.Any(), gomock.Any(), "https://relay.example.com").
				Return([]byte{0x10}, nil)
			env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(2000), nil)

			sent, err := env.mgr.HandlePastEvents(context.Background(), events, 100, false)
			require.NoError(t, err)
			require.Len(t, sent, 1)
			assert.Len(t, env.sent, 1)
			assert.Equal(t, registryAddr, env.sent[0].Destination)
			assert.Equal(t, mgrAddr, env.sent[0].Signer.Address)
		})
	}
}

func TestAttemptRegistrationIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)
	env.seedEligible()

	env.registry.EXPECT().RegisterRelayData(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte{0x10}, nil).Times(1)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(2000), nil).Times(2)

	sent, err := env.mgr.AttemptRegistration(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, sent, 1)

	sent, err = env.mgr.AttemptRegistration(context.Background(), 101)
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestWorkerFundingTopsUpToTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)
	env.seedEligible()

	env.registry.EXPECT().RegisterRelayData(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte{0x10}, nil)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(500), nil)

	sent, err := env.mgr.AttemptRegistration(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, sent, 2)

	funding := env.sent[1]
	assert.Equal(t, mgrAddr, funding.Signer.Address)
	assert.Equal(t, workerAddr, funding.Destination)
	assert.Equal(t, big.NewInt(1500), funding.Value)
}

func TestApplyConfigTriggersReannouncement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)
	env.seedEligible()

	var urls []string
	env.registry.EXPECT().RegisterRelayData(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_, _ *big.Int, url string) ([]byte, error) {
			urls = append(urls, url)
			return []byte{0x10}, nil
		}).Times(2)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(2000), nil).Times(2)

	_, err := env.mgr.AttemptRegistration(context.Background(), 100)
	require.NoError(t, err)

	env.mgr.ApplyConfig(relay.RelayParams{
		BaseFee: big.NewInt(5),
		PctFee:  big.NewInt(80),
		URL:     "https://relay2.example.com",
	})

	sent, err := env.mgr.AttemptRegistration(context.Background(), 101)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"https://relay.example.com", "https://relay2.example.com"}, urls)
}

func TestUnstakedDrainsFundsToOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)
	env.seedEligible()

	env.registry.EXPECT().BalanceOf(gomock.Any(), mgrAddr).Return(big.NewInt(700), nil)
	env.registry.EXPECT().WithdrawData(big.NewInt(700), ownerAddr).Return([]byte{0x20}, nil)
	env.ledger.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1), nil)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), mgrAddr).Return(big.NewInt(1000000), nil)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(50000), nil)

	events := []relay.RegistryEvent{
		relay.UnstakedEvent{EventMeta: relay.EventMeta{Block: 99}, Relay: mgrAddr, Stake: big.NewInt(2000)},
	}
	sent, err := env.mgr.HandlePastEvents(context.Background(), events, 100, false)
	require.NoError(t, err)
	require.Len(t, sent, 3)

	// registry deposit first, then the manager's balance minus the gas still
	// owed by both manager transactions, then the worker's balance minus gas
	assert.Equal(t, registryAddr, env.sent[0].Destination)
	assert.Equal(t, mgrAddr, env.sent[0].Signer.Address)

	assert.Equal(t, ownerAddr, env.sent[1].Destination)
	assert.Equal(t, mgrAddr, env.sent[1].Signer.Address)
	assert.Equal(t, big.NewInt(1000000-transferGasLimit-registryCallGasLimit), env.sent[1].Value)

	assert.Equal(t, ownerAddr, env.sent[2].Destination)
	assert.Equal(t, workerAddr, env.sent[2].Signer.Address)
	assert.Equal(t, big.NewInt(50000-21000), env.sent[2].Value)

	assert.False(t, env.mgr.State().IsStakeLocked)
}

// The deposit withdrawal mines before the balance transfer, so the transfer
// must also leave room for the withdrawal's gas. A manager balance that only
// covers the plain transfer cost keeps its funds instead of emitting a
// transfer that can never mine.
func TestDrainReservesWithdrawalGas(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)
	env.seedEligible()

	env.registry.EXPECT().BalanceOf(gomock.Any(), mgrAddr).Return(big.NewInt(700), nil)
	env.registry.EXPECT().WithdrawData(big.NewInt(700), ownerAddr).Return([]byte{0x20}, nil)
	env.ledger.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1), nil)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), mgrAddr).Return(big.NewInt(100000), nil)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(0), nil)

	events := []relay.RegistryEvent{
		relay.UnstakedEvent{EventMeta: relay.EventMeta{Block: 99}, Relay: mgrAddr, Stake: big.NewInt(2000)},
	}
	sent, err := env.mgr.HandlePastEvents(context.Background(), events, 100, false)
	require.NoError(t, err)

	// only the deposit withdrawal goes out
	require.Len(t, sent, 1)
	require.Len(t, env.sent, 1)
	assert.Equal(t, registryAddr, env.sent[0].Destination)
}

func TestHubUnauthorizedKeepsManagerBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)
	env.seedEligible()

	env.registry.EXPECT().BalanceOf(gomock.Any(), mgrAddr).Return(big.NewInt(700), nil)
	env.registry.EXPECT().WithdrawData(big.NewInt(700), ownerAddr).Return([]byte{0x20}, nil)
	env.ledger.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1), nil)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(50000), nil)

	events := []relay.RegistryEvent{
		relay.HubUnauthorizedEvent{EventMeta: relay.EventMeta{Block: 99}, Relay: mgrAddr},
	}
	sent, err := env.mgr.HandlePastEvents(context.Background(), events, 100, false)
	require.NoError(t, err)
	require.Len(t, sent, 2)

	for _, req := range env.sent {
		if req.Signer.Address == mgrAddr {
			assert.Equal(t, registryAddr, req.Destination)
		}
	}
	assert.False(t, env.mgr.State().IsHubAuthorized)
}

func TestWorkerBelowGasCostIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)
	env.seedEligible()

	env.registry.EXPECT().BalanceOf(gomock.Any(), mgrAddr).Return(big.NewInt(0), nil)
	env.ledger.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1), nil)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(20000), nil)

	events := []relay.RegistryEvent{
		relay.HubUnauthorizedEvent{EventMeta: relay.EventMeta{Block: 99}, Relay: mgrAddr},
	}
	sent, err := env.mgr.HandlePastEvents(context.Background(), events, 100, false)
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestEventsForOtherRelaysIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)

	events := []relay.RegistryEvent{
		relay.StakedEvent{EventMeta: relay.EventMeta{Block: 90}, Relay: otherAddr, Stake: big.NewInt(2000), UnstakeDelay: big.NewInt(200)},
		relay.UnstakedEvent{EventMeta: relay.EventMeta{Block: 91}, Relay: otherAddr, Stake: big.NewInt(2000)},
		relay.HubAuthorizedEvent{EventMeta: relay.EventMeta{Block: 92}, Relay: otherAddr},
	}
	sent, err := env.mgr.HandlePastEvents(context.Background(), events, 100, false)
	require.NoError(t, err)
	assert.Empty(t, sent)
	assert.False(t, env.mgr.State().IsHubAuthorized)
	assert.False(t, env.mgr.State().IsStakeLocked)
}

type bogusEvent struct {
	relay.EventMeta
}

func (bogusEvent) EventName() string { return "Bogus" }

func TestUnknownEventIsProtocolViolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)

	_, err := env.mgr.HandlePastEvents(context.Background(), []relay.RegistryEvent{bogusEvent{}}, 100, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, relay.ErrProtocolViolation))
}

func TestRelayRemovedBlocksUntilRestaked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	env := newTestEnv(t, ctrl)
	env.seedEligible()
	env.expectGoodStakeInfo()

	removed := []relay.RegistryEvent{
		relay.RelayRemovedEvent{EventMeta: relay.EventMeta{Block: 99}, Relay: mgrAddr, UnstakeBlock: big.NewInt(300)},
	}
	sent, err := env.mgr.HandlePastEvents(context.Background(), removed, 100, false)
	require.NoError(t, err)
	assert.Empty(t, sent)

	ready, err := env.mgr.IsReadyToRelay(context.Background())
	require.NoError(t, err)
	assert.False(t, ready)

	env.registry.EXPECT().RegisterRelayData(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte{0x10}, nil)
	env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(2000), nil)

	restaked := []relay.RegistryEvent{
		relay.StakedEvent{EventMeta: relay.EventMeta{Block: 110}, Relay: mgrAddr, Stake: big.NewInt(2000), UnstakeDelay: big.NewInt(200)},
	}
	sent, err = env.mgr.HandlePastEvents(context.Background(), restaked, 120, false)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, registryAddr, env.sent[0].Destination)
}

func TestIsReadyToRelay(t *testing.T) {
	cases := map[string]struct {
		seed       func(env *testEnv)
		managerBal int64
		workerBal  int64
		ready      bool
	}{
		"eligible": {
			seed:       func(env *testEnv) { env.seedEligible() },
			managerBal: 1000,
			workerBal:  200,
			ready:      true,
		},
		"removed": {
			seed: func(env *testEnv) {
				env.seedEligible()
				env.mgr.removed = true
			},
			managerBal: 1000,
			workerBal:  200,
			ready:      false,
		},
		"stake_unlocked": {
			seed: func(env *testEnv) {
				env.seedEligible()
				env.mgr.state.IsStakeLocked = false
			},
			managerBal: 1000,
			workerBal:  200,
			ready:      false,
		},
		"not_authorized": {
			seed: func(env *testEnv) {
				env.seedEligible()
				env.mgr.state.IsHubAuthorized = false
			},
			managerBal: 1000,
			workerBal:  200,
			ready:      false,
		},
		"manager_balance_low": {
			seed:       func(env *testEnv) { env.seedEligible() },
			managerBal: 100,
			workerBal:  200,
			ready:      false,
		},
		"worker_balance_low": {
			seed:       func(env *testEnv) { env.seedEligible() },
			managerBal: 1000,
			workerBal:  50,
			ready:      false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			env := newTestEnv(t, ctrl)
			tc.seed(env)

			env.ledger.EXPECT().BalanceAt(gomock.Any(), mgrAddr).Return(big.NewInt(tc.managerBal), nil).AnyTimes()
			env.ledger.EXPECT().BalanceAt(gomock.Any(), workerAddr).Return(big.NewInt(tc.workerBal), nil).AnyTimes()

			ready, err := env.mgr.IsReadyToRelay(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.ready, ready)
		})
	}
}

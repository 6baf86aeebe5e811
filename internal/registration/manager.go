package registration

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/config"
	"github.com/relaynet-org/relay-daemon/internal/relay"
)

const (
	transferGasLimit     = 21000
	registryCallGasLimit = 300000
)

// announcement remembers what was last declared to the registry, so a config
// change can be detected and re-announced.
type announcement struct {
	baseFee *big.Int
	pctFee  *big.Int
	url     string
	block   uint64
}

// Manager owns the staking/authorization state machine. It decides which
// registration-related transactions must be sent and routes them through the
// TxManager. All state mutation happens inside a reconciliation tick, so a
// single mutex protecting reads from the status surface is enough.
type Manager struct {
	cfg      *config.RelayDaemonConfig
	ledger   relay.LedgerClient
	registry relay.RegistryClient
	txmgr    relay.TxManager
	keys     relay.KeyStore
	logger   *zap.Logger

	mu              sync.Mutex
	stake           relay.StakeInfo
	state           relay.RegistrationState
	params          relay.RelayParams
	lastAnnounced   *announcement
	needsReannounce bool
	removed         bool
}

func NewManager(
	cfg *config.RelayDaemonConfig,
	ledger relay.LedgerClient,
	registry relay.RegistryClient,
	txmgr relay.TxManager,
	keys relay.KeyStore,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		cfg:      cfg,
		ledger:   ledger,
		registry: registry,
		txmgr:    txmgr,
		keys:     keys,
		logger:   logger,
		stake: relay.StakeInfo{
			RequiredValue: &cfg.RequiredStake,
			CurrentValue:  new(big.Int),
		},
		params: relay.RelayParams{
			BaseFee: &cfg.BaseFee,
			PctFee:  &cfg.PctFee,
			URL:     cfg.AdvertisedURL,
		},
	}
}

// RefreshStake queries current stake, owner and unstake delay for the manager
// identity and updates StakeInfo and the owner address. Idempotent; never
// sends transactions.
func (m *Manager) RefreshStake(ctx context.Context) error {
	info, err := m.registry.GetStakeInfo(ctx, m.keys.ManagerIdentity().Address)
	if err != nil {
		return fmt.Errorf("failed to refresh stake: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stake.CurrentValue = info.Stake
	m.stake.UnstakeDelay = info.UnstakeDelay.Uint64()
	if info.WithdrawBlock.Sign() > 0 {
		withdrawBlock := info.WithdrawBlock.Uint64()
		m.stake.WithdrawBlock = &withdrawBlock
		m.state.IsStakeLocked = false
	} else {
		m.stake.WithdrawBlock = nil
		m.state.IsStakeLocked = info.Stake.Sign() > 0
	}
	if info.Owner != (common.Address{}) {
		owner := info.Owner
		m.state.OwnerAddress = &owner
	}
	return nil
}

// HandlePastEvents replays a batch of registry events in ledger order. The
// registration attempt is evaluated once after the whole batch, so the
// outcome does not depend on event ordering within the batch.
func (m *Manager) HandlePastEvents(ctx context.Context, events []relay.RegistryEvent, currentBlock uint64, forceRegistration bool) ([]*relay.PendingTransaction, error) {
	managerAddr := m.keys.ManagerIdentity().Address
	var sent []*relay.PendingTransaction

	for _, ev := range events {
		switch e := ev.(type) {
		case relay.StakedEvent:
			if e.Relay != managerAddr {
				continue
			}
			if err := m.RefreshStake(ctx); err != nil {
				return sent, err
			}
			m.mu.Lock()
			m.removed = false
			m.mu.Unlock()

		case relay.StakePenalizedEvent:
			if e.Relay != managerAddr {
				continue
			}
			m.logger.Warn("stake penalized",
				zap.String("beneficiary", e.Beneficiary.Hex()),
				zap.String("reward", e.Reward.String()))
			if err := m.RefreshStake(ctx); err != nil {
				return sent, err
			}

		case relay.UnstakedEvent:
			if e.Relay != managerAddr {
				continue
			}
			m.mu.Lock()
			m.state.IsStakeLocked = false
			m.lastAnnounced = nil
			m.mu.Unlock()
			txs, err := m.withdrawAll(ctx, currentBlock)
			sent = append(sent, txs...)
			if err != nil {
				return sent, err
			}

		case relay.HubAuthorizedEvent:
			if e.Relay != managerAddr {
				continue
			}
			m.mu.Lock()
			m.state.IsHubAuthorized = true
			m.mu.Unlock()

		case relay.HubUnauthorizedEvent:
			if e.Relay != managerAddr {
				continue
			}
			m.mu.Lock()
			m.state.IsHubAuthorized = false
			m.lastAnnounced = nil
			m.mu.Unlock()
			txs, err := m.withdrawDeposits(ctx, currentBlock)
			sent = append(sent, txs...)
			if err != nil {
				return sent, err
			}

		case relay.RelayRemovedEvent:
			if e.Relay != managerAddr {
				continue
			}
			m.mu.Lock()
			m.removed = true
			m.lastAnnounced = nil
			m.mu.Unlock()
			m.logger.Warn("relay removed from registry", zap.Uint64("block", e.Block))

		default:
			return sent, fmt.Errorf("unhandled registry event %q: %w", ev.EventName(), relay.ErrProtocolViolation)
		}
	}

	txs, err := m.attemptRegistration(ctx, currentBlock, forceRegistration)
	sent = append(sent, txs...)
	return sent, err
}

// AttemptRegistration emits the registration announcement and worker funding
// transfers when the staking and authorization preconditions hold. Idempotent
// for unchanged config and already-sufficient funding.
func (m *Manager) AttemptRegistration(ctx context.Context, currentBlock uint64) ([]*relay.PendingTransaction, error) {
	return m.attemptRegistration(ctx, currentBlock, false)
}

func (m *Manager) attemptRegistration(ctx context.Context, currentBlock uint64, force bool) ([]*relay.PendingTransaction, error) {
	if !m.eligibleToRegister() {
		return nil, nil
	}

	var sent []*relay.PendingTransaction

	if m.shouldAnnounce(currentBlock, force) {
		m.mu.Lock()
		params := m.params
		m.mu.Unlock()

		data, err := m.registry.RegisterRelayData(params.BaseFee, params.PctFee, params.URL)
		if err != nil {
			return sent, err
		}
		tx, err := m.txmgr.SendTransaction(ctx, relay.TxRequest{
			Signer:              m.keys.ManagerIdentity(),
			Destination:         m.registry.Address(),
			Payload:             data,
			GasLimit:            registryCallGasLimit,
			CreationBlockNumber: currentBlock,
		})
		if err != nil {
			return sent, fmt.Errorf("failed to announce registration: %w", err)
		}
		sent = append(sent, tx)

		m.mu.Lock()
		m.lastAnnounced = &announcement{
			baseFee: new(big.Int).Set(params.BaseFee),
			pctFee:  new(big.Int).Set(params.PctFee),
			url:     params.URL,
			block:   currentBlock,
		}
		m.needsReannounce = false
		m.mu.Unlock()

		m.logger.Info("announced registration",
			zap.String("url", params.URL),
			zap.String("base_fee", params.BaseFee.String()),
			zap.String("pct_fee", params.PctFee.String()))
	}

	txs, err := m.fundWorkers(ctx, currentBlock)
	sent = append(sent, txs...)
	return sent, err
}

// fundWorkers tops up every worker below the target balance exactly to the
// target, paid by the manager.
func (m *Manager) fundWorkers(ctx context.Context, currentBlock uint64) ([]*relay.PendingTransaction, error) {
	var sent []*relay.PendingTransaction
	for i := 0; i < m.cfg.WorkersCount; i++ {
		worker, err := m.keys.WorkerIdentity(i)
		if err != nil {
			return sent, err
		}
		balance, err := m.ledger.BalanceAt(ctx, worker.Address)
		if err != nil {
			return sent, fmt.Errorf("failed to get worker %d balance: %w", i, err)
		}
		if balance.Cmp(&m.cfg.WorkerTargetBalance) >= 0 {
			continue
		}

		value := new(big.Int).Sub(&m.cfg.WorkerTargetBalance, balance)
		tx, err := m.txmgr.SendTransaction(ctx, relay.TxRequest{
			Signer:              m.keys.ManagerIdentity(),
			Destination:         worker.Address,
			Value:               value,
			GasLimit:            transferGasLimit,
			CreationBlockNumber: currentBlock,
		})
		if err != nil {
			return sent, fmt.Errorf("failed to fund worker %d: %w", i, err)
		}
		sent = append(sent, tx)
		m.logger.Info("funded worker",
			zap.Int("index", i),
			zap.String("address", worker.Address.Hex()),
			zap.String("value", value.String()))
	}
	return sent, nil
}

// withdrawAll drains the relay completely to the owner: the registry-held
// deposit first, then the manager's native balance minus the gas still owed
// by the manager's own transactions, then every worker's balance. Entered
// only on Unstaked and unconditional once triggered.
func (m *Manager) withdrawAll(ctx context.Context, currentBlock uint64) ([]*relay.PendingTransaction, error) {
	owner, err := m.ownerAddress(ctx)
	if err != nil {
		return nil, err
	}

	sent, err := m.withdrawRegistryDeposit(ctx, owner, currentBlock)
	if err != nil {
		return sent, err
	}

	gasPrice, err := m.transferGasPrice(ctx)
	if err != nil {
		return sent, err
	}

	// The manager transfer mines after the deposit withdrawal on the earlier
	// nonce, so its gas must stay reserved too or the transfer overdraws and
	// can never mine.
	reserve := new(big.Int).Mul(gasPrice, big.NewInt(transferGasLimit))
	if len(sent) > 0 {
		reserve.Add(reserve, new(big.Int).Mul(gasPrice, big.NewInt(registryCallGasLimit)))
	}

	managerAddr := m.keys.ManagerIdentity().Address
	managerBal, err := m.ledger.BalanceAt(ctx, managerAddr)
	if err != nil {
		return sent, fmt.Errorf("failed to get manager balance: %w", err)
	}
	if managerBal.Cmp(reserve) > 0 {
		value := new(big.Int).Sub(managerBal, reserve)
		tx, err := m.txmgr.SendTransaction(ctx, relay.TxRequest{
			Signer:              m.keys.ManagerIdentity(),
			Destination:         owner,
			Value:               value,
			GasLimit:            transferGasLimit,
			GasPrice:            gasPrice,
			CreationBlockNumber: currentBlock,
		})
		if err != nil {
			return sent, fmt.Errorf("failed to withdraw manager balance: %w", err)
		}
		sent = append(sent, tx)
	}

	txs, err := m.withdrawWorkerBalances(ctx, owner, gasPrice, currentBlock)
	sent = append(sent, txs...)
	return sent, err
}

// withdrawDeposits returns the registry-held deposit and the worker balances
// to the owner, but explicitly not the manager's native balance: it remains
// to pay for these withdrawals and a future re-authorization.
func (m *Manager) withdrawDeposits(ctx context.Context, currentBlock uint64) ([]*relay.PendingTransaction, error) {
	owner, err := m.ownerAddress(ctx)
	if err != nil {
		return nil, err
	}

	sent, err := m.withdrawRegistryDeposit(ctx, owner, currentBlock)
	if err != nil {
		return sent, err
	}

	gasPrice, err := m.transferGasPrice(ctx)
	if err != nil {
		return sent, err
	}

	txs, err := m.withdrawWorkerBalances(ctx, owner, gasPrice, currentBlock)
	sent = append(sent, txs...)
	return sent, err
}

func (m *Manager) withdrawRegistryDeposit(ctx context.Context, owner common.Address, currentBlock uint64) ([]*relay.PendingTransaction, error) {
	managerAddr := m.keys.ManagerIdentity().Address
	deposit, err := m.registry.BalanceOf(ctx, managerAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to get registry deposit: %w", err)
	}
	if deposit.Sign() == 0 {
		return nil, nil
	}

	data, err := m.registry.WithdrawData(deposit, owner)
	if err != nil {
		return nil, err
	}
	tx, err := m.txmgr.SendTransaction(ctx, relay.TxRequest{
		Signer:              m.keys.ManagerIdentity(),
		Destination:         m.registry.Address(),
		Payload:             data,
		GasLimit:            registryCallGasLimit,
		CreationBlockNumber: currentBlock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to withdraw registry deposit: %w", err)
	}
	m.logger.Info("withdrawing registry deposit to owner", zap.String("amount", deposit.String()))
	return []*relay.PendingTransaction{tx}, nil
}

// withdrawWorkerBalances sends each worker's balance minus its own transfer
// gas to the owner, in worker index order. Workers whose balance does not
// cover the gas are skipped rather than producing a no-op transfer.
func (m *Manager) withdrawWorkerBalances(ctx context.Context, owner common.Address, gasPrice *big.Int, currentBlock uint64) ([]*relay.PendingTransaction, error) {
	gasCost := new(big.Int).Mul(gasPrice, big.NewInt(transferGasLimit))

	var sent []*relay.PendingTransaction
	for i := 0; i < m.cfg.WorkersCount; i++ {
		worker, err := m.keys.WorkerIdentity(i)
		if err != nil {
			return sent, err
		}
		balance, err := m.ledger.BalanceAt(ctx, worker.Address)
		if err != nil {
			return sent, fmt.Errorf("failed to get worker %d balance: %w", i, err)
		}
		if balance.Cmp(gasCost) <= 0 {
			continue
		}

		value := new(big.Int).Sub(balance, gasCost)
		tx, err := m.txmgr.SendTransaction(ctx, relay.TxRequest{
			Signer:              worker,
			Destination:         owner,
			Value:               value,
			GasLimit:            transferGasLimit,
			GasPrice:            gasPrice,
			CreationBlockNumber: currentBlock,
		})
		if err != nil {
			return sent, fmt.Errorf("failed to withdraw worker %d balance: %w", i, err)
		}
		sent = append(sent, tx)
	}
	return sent, nil
}

// IsReadyToRelay reports eligibility: stake sufficient and locked, hub
// authorized, manager and worker balances above their minimums. Read-only.
func (m *Manager) IsReadyToRelay(ctx context.Context) (bool, error) {
	m.mu.Lock()
	stakeOK := m.stakeSufficientLocked()
	locked := m.state.IsStakeLocked
	authorized := m.state.IsHubAuthorized
	removed := m.removed
	m.mu.Unlock()

	if !stakeOK || !locked || !authorized || removed {
		return false, nil
	}

	managerBal, err := m.ledger.BalanceAt(ctx, m.keys.ManagerIdentity().Address)
	if err != nil {
		return false, fmt.Errorf("failed to get manager balance: %w", err)
	}
	if managerBal.Cmp(&m.cfg.ManagerMinBalance) < 0 {
		return false, nil
	}

	for i := 0; i < m.cfg.WorkersCount; i++ {
		worker, err := m.keys.WorkerIdentity(i)
		if err != nil {
			return false, err
		}
		balance, err := m.ledger.BalanceAt(ctx, worker.Address)
		if err != nil {
			return false, fmt.Errorf("failed to get worker %d balance: %w", i, err)
		}
		if balance.Cmp(&m.cfg.WorkerMinBalance) < 0 {
			return false, nil
		}
	}

	return true, nil
}

// ApplyConfig installs new relay params and flags that the registration must
// be re-announced on the next attempt.
func (m *Manager) ApplyConfig(params relay.RelayParams) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = params
	m.needsReannounce = true
}

func (m *Manager) State() relay.RegistrationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.state
	state.Ready = false // derived by the reconciliation loop, not stored here
	return state
}

func (m *Manager) StakeInfo() relay.StakeInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stake
}

func (m *Manager) eligibleToRegister() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stakeSufficientLocked() && m.state.IsStakeLocked && m.state.IsHubAuthorized && !m.removed
}

// stakeSufficientLocked requires m.mu held.
func (m *Manager) stakeSufficientLocked() bool {
	return m.stake.CurrentValue.Cmp(m.stake.RequiredValue) >= 0 &&
		m.stake.UnstakeDelay >= m.cfg.MinUnstakeDelay
}

func (m *Manager) shouldAnnounce(currentBlock uint64, force bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if force || m.needsReannounce || m.lastAnnounced == nil {
		return true
	}
	if m.lastAnnounced.baseFee.Cmp(m.params.BaseFee) != 0 ||
		m.lastAnnounced.pctFee.Cmp(m.params.PctFee) != 0 ||
		m.lastAnnounced.url != m.params.URL {
		return true
	}
	if m.cfg.RegistrationBlockRate > 0 && currentBlock >= m.lastAnnounced.block+m.cfg.RegistrationBlockRate {
		return true
	}
	return false
}

func (m *Manager) ownerAddress(ctx context.Context) (common.Address, error) {
	m.mu.Lock()
	owner := m.state.OwnerAddress
	m.mu.Unlock()

	if owner == nil {
		if err := m.RefreshStake(ctx); err != nil {
			return common.Address{}, err
		}
		m.mu.Lock()
		owner = m.state.OwnerAddress
		m.mu.Unlock()
	}
	if owner == nil {
		return common.Address{}, fmt.Errorf("owner address unknown, no stake has been observed")
	}
	return *owner, nil
}

// transferGasPrice mirrors the TxManager's pricing so "balance minus gas" is
// computed with the same price the transfer is actually sent at.
func (m *Manager) transferGasPrice(ctx context.Context) (*big.Int, error) {
	suggested, err := m.ledger.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get network gas price: %w", err)
	}
	price := new(big.Int).Mul(suggested, big.NewInt(int64(m.cfg.GasPriceFactorPercent)))
	price.Div(price, big.NewInt(100))
	if price.Cmp(&m.cfg.MinGasPrice) < 0 {
		price = new(big.Int).Set(&m.cfg.MinGasPrice)
	}
	return price, nil
}

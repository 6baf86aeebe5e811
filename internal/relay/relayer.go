package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/config"
	"github.com/relaynet-org/relay-daemon/internal/metrics"
)

// Relayer is the controller for the whole daemon:
//  1. gates each tick on the manager's balance
//  2. replays registry events since the last scanned block into the
//     registration state machine
//  3. polls pending transactions for confirmation or resubmission
//  4. judges the manager's stake and relay readiness last
//
// It owns only the lastScannedBlock watermark (persisted through TxStorage so
// restarts resume replay where they left off), the last error and the derived
// ready flag; everything else belongs to the components it sequences.
type Relayer struct {
	cfg      *config.RelayDaemonConfig
	ledger   LedgerClient
	registry RegistryClient
	regmgr   RegistrationManager
	txmgr    TxManager
	keys     KeyStore
	store    TxStorage
	logger   *zap.Logger

	inFlight atomic.Bool

	mu               sync.Mutex
	lastScannedBlock uint64
	lastError        error
	ready            bool
}

// TickResult is the outcome of one reconciliation pass.
type TickResult struct {
	Sent        []*PendingTransaction
	Confirmed   []*PendingTransaction
	Resubmitted []*PendingTransaction
	Ready       bool
}

func NewRelayer(
	cfg *config.RelayDaemonConfig,
	ledger LedgerClient,
	registry RegistryClient,
	regmgr RegistrationManager,
	txmgr TxManager,
	keys KeyStore,
	store TxStorage,
	logger *zap.Logger,
) *Relayer {
	return &Relayer{
		cfg:      cfg,
		ledger:   ledger,
		registry: registry,
		regmgr:   regmgr,
		txmgr:    txmgr,
		keys:     keys,
		store:    store,
		logger:   logger,
	}
}

// Tick runs one full reconciliation pass against currentBlock. It must never
// run concurrently with itself: a second invocation while one is in flight is
// rejected with ErrTickInProgress, not queued. On failure the watermark is not
// advanced, so the next tick retries the same block range.
//
// ErrStakeTooLow is the one exception: the stake check runs after event replay
// and the pending-tx poll, so a tick that returns it has fully processed its
// block range and the watermark advances. Stalling it would replay the very
// unstake events that explain the insufficient stake on every subsequent tick.
func (r *Relayer) Tick(ctx context.Context, currentBlock uint64) (*TickResult, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil, ErrTickInProgress
	}
	defer r.inFlight.Store(false)

	start := time.Now()
	result, err := r.tick(ctx, currentBlock)
	if err != nil && !errors.Is(err, ErrStakeTooLow) {
		metrics.AddFailedTick(time.Since(start).Seconds())
		r.setStatus(false, err)
		return result, err
	}

	metrics.AddSuccessTick(time.Since(start).Seconds())
	ready := err == nil && result.Ready
	r.mu.Lock()
	r.lastScannedBlock = currentBlock
	r.lastError = err
	r.ready = ready
	r.mu.Unlock()
	metrics.SetReady(ready)

	if persistErr := r.store.SetLastScannedBlock(currentBlock); persistErr != nil {
		r.logger.Error("failed to persist last scanned block", zap.Error(persistErr))
	}
	return result, err
}

func (r *Relayer) tick(ctx context.Context, currentBlock uint64) (*TickResult, error) {
	managerAddr := r.keys.ManagerIdentity().Address

	balance, err := r.ledger.BalanceAt(ctx, managerAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to get manager balance: %w", err)
	}
	if balance.Cmp(&r.cfg.ManagerMinBalance) < 0 {
		return nil, fmt.Errorf("manager %s balance %s below minimum %s: %w",
			managerAddr.Hex(), balance.String(), r.cfg.ManagerMinBalance.String(), ErrBalanceTooLow)
	}

	if err := r.regmgr.RefreshStake(ctx); err != nil {
		return nil, err
	}

	fromBlock := r.LastScannedBlock() + 1
	events, err := r.registry.PastEvents(ctx, managerAddr, fromBlock, currentBlock)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		r.logger.Info("replaying registry events",
			zap.Int("count", len(events)),
			zap.Uint64("from_block", fromBlock),
			zap.Uint64("to_block", currentBlock))
	}

	// Lifecycle events are replayed before any stake judgement: the drain
	// triggered by an Unstaked event must run exactly when the stake has
	// dropped away. Registration and funding stay gated inside the
	// registration manager.
	result := &TickResult{}
	sent, err := r.regmgr.HandlePastEvents(ctx, events, currentBlock, r.cfg.DevMode)
	result.Sent = sent
	if err != nil {
		return result, err
	}

	poll, err := r.txmgr.PollPendingTransactions(ctx, currentBlock)
	if poll != nil {
		result.Confirmed = poll.Confirmed
		result.Resubmitted = poll.Resubmitted
	}
	if err != nil {
		return result, err
	}

	stake := r.regmgr.StakeInfo()
	if stake.CurrentValue.Cmp(stake.RequiredValue) < 0 || stake.UnstakeDelay < r.cfg.MinUnstakeDelay {
		return result, fmt.Errorf("stake %s below required %s or unstake delay %d below minimum %d: %w",
			stake.CurrentValue.String(), stake.RequiredValue.String(), stake.UnstakeDelay, r.cfg.MinUnstakeDelay, ErrStakeTooLow)
	}

	ready, err := r.regmgr.IsReadyToRelay(ctx)
	if err != nil {
		return result, err
	}
	result.Ready = ready

	return result, nil
}

// LastScannedBlock returns the watermark of the last successful tick.
func (r *Relayer) LastScannedBlock() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastScannedBlock
}

// SetLastScannedBlock seeds the watermark, used at startup to skip history
// from before the daemon existed.
func (r *Relayer) SetLastScannedBlock(block uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastScannedBlock = block
}

// Ready reports whether the relay was eligible after the last tick.
func (r *Relayer) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// Status returns the externally visible daemon state for the status surface.
func (r *Relayer) Status() Status {
	r.mu.Lock()
	lastError := ""
	if r.lastError != nil {
		lastError = r.lastError.Error()
	}
	status := Status{
		Ready:            r.ready,
		LastError:        lastError,
		LastScannedBlock: r.lastScannedBlock,
	}
	r.mu.Unlock()

	status.ManagerAddress = r.keys.ManagerIdentity().Address
	status.WorkerAddresses = make([]common.Address, 0, r.cfg.WorkersCount)
	for i := 0; i < r.cfg.WorkersCount; i++ {
		worker, err := r.keys.WorkerIdentity(i)
		if err != nil {
			break
		}
		status.WorkerAddresses = append(status.WorkerAddresses, worker.Address)
	}
	return status
}

func (r *Relayer) setStatus(ready bool, err error) {
	r.mu.Lock()
	r.ready = ready
	r.lastError = err
	r.mu.Unlock()
	metrics.SetReady(ready)
}

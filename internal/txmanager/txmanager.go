package txmanager

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/config"
	"github.com/relaynet-org/relay-daemon/internal/metrics"
	"github.com/relaynet-org/relay-daemon/internal/relay"
)

// Manager signs, submits and tracks outbound transactions. Per-signer nonce
// counters are seeded from the ledger on first use and strictly incremented
// per send, never re-queried mid-session.
type Manager struct {
	ledger  relay.LedgerClient
	keys    relay.KeyStore
	storage relay.TxStorage
	cfg     *config.RelayDaemonConfig
	chainID *big.Int
	logger  *zap.Logger

	mu     sync.Mutex
	nonces map[common.Address]uint64
}

func NewManager(
	ledger relay.LedgerClient,
	keys relay.KeyStore,
	storage relay.TxStorage,
	cfg *config.RelayDaemonConfig,
	chainID *big.Int,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		ledger:  ledger,
		keys:    keys,
		storage: storage,
		cfg:     cfg,
		chainID: chainID,
		logger:  logger,
		nonces:  make(map[common.Address]uint64),
	}
}

// SendTransaction allocates the next nonce for the request's signer, signs and
// submits the transaction and durably records it before returning success. On
// submission failure the nonce allocation is rolled back so it can be reused.
func (m *Manager) SendTransaction(ctx context.Context, req relay.TxRequest) (*relay.PendingTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	signerAddr := req.Signer.Address
	nonce, ok := m.nonces[signerAddr]
	if !ok {
		ledgerNonce, err := m.ledger.NonceAt(ctx, signerAddr)
		if err != nil {
			metrics.IncFailedSentTxs()
			return nil, fmt.Errorf("failed to seed nonce for %s: %w", signerAddr.Hex(), err)
		}
		nonce = ledgerNonce
	}

	gasPrice := req.GasPrice
	if gasPrice == nil {
		computed, err := m.currentGasPrice(ctx)
		if err != nil {
			metrics.IncFailedSentTxs()
			return nil, err
		}
		gasPrice = computed
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	tx := ethtypes.NewTransaction(nonce, req.Destination, value, req.GasLimit, gasPrice, req.Payload)
	signed, err := m.keys.SignTx(req.Signer, tx, m.chainID)
	if err != nil {
		metrics.IncFailedSentTxs()
		return nil, fmt.Errorf("failed to sign tx for %s: %w", signerAddr.Hex(), err)
	}

	if err := m.ledger.SendTransaction(ctx, signed); err != nil {
		// Nonce stays unallocated, the next send reuses it.
		metrics.IncFailedSentTxs()
		return nil, fmt.Errorf("failed to submit tx from %s nonce %d: %w", signerAddr.Hex(), nonce, err)
	}

	// The transaction is in the mempool now, the nonce slot is taken no
	// matter what happens below.
	m.nonces[signerAddr] = nonce + 1

	pending := &relay.PendingTransaction{
		Signer:              signerAddr,
		Nonce:               nonce,
		Destination:         req.Destination,
		Payload:             req.Payload,
		Value:               value,
		GasLimit:            req.GasLimit,
		GasPrice:            gasPrice,
		CreationBlockNumber: req.CreationBlockNumber,
		Hash:                signed.Hash(),
	}

	if err := m.storage.PutPendingTx(pending); err != nil {
		metrics.IncFailedSentTxs()
		return nil, fmt.Errorf("failed to persist pending tx from %s nonce %d: %w", signerAddr.Hex(), nonce, err)
	}

	metrics.IncSuccessSentTxs()
	m.logger.Info("submitted transaction",
		zap.String("signer", signerAddr.Hex()),
		zap.Uint64("nonce", nonce),
		zap.String("hash", pending.Hash.Hex()),
		zap.String("gas_price", gasPrice.String()))

	return pending, nil
}

// PollPendingTransactions queries a receipt for every pending entry. Mined
// entries are confirmed; entries stuck longer than the configured number of
// blocks are resubmitted under the same (signer, nonce) with a strictly
// higher gas price.
func (m *Manager) PollPendingTransactions(ctx context.Context, currentBlock uint64) (*relay.PollResult, error) {
	pending, err := m.storage.GetAllPendingTxs()
	if err != nil {
		return nil, fmt.Errorf("failed to read pending txs from storage: %w", err)
	}

	result := &relay.PollResult{}
	for _, tx := range pending {
		receipt, err := m.ledger.TransactionReceipt(ctx, tx.Hash)
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return result, fmt.Errorf("failed to query receipt for %s: %w", tx.Hash.Hex(), err)
		}

		if receipt != nil {
			minedBlock := receipt.BlockNumber.Uint64()
			if err := m.storage.ConfirmTx(tx.Signer, tx.Nonce, minedBlock, receipt); err != nil {
				return result, fmt.Errorf("failed to confirm tx %s: %w", tx.Hash.Hex(), err)
			}
			tx.MinedBlock = &minedBlock
			tx.Receipt = receipt
			result.Confirmed = append(result.Confirmed, tx)
			metrics.IncConfirmedTxs()
			m.logger.Info("transaction confirmed",
				zap.String("hash", tx.Hash.Hex()),
				zap.Uint64("mined_block", minedBlock))
			continue
		}

		if currentBlock < tx.CreationBlockNumber+m.cfg.PendingTxTimeoutBlocks {
			continue
		}

		resubmitted, err := m.resubmit(ctx, tx, currentBlock)
		if err != nil {
			return result, err
		}
		result.Resubmitted = append(result.Resubmitted, resubmitted)
	}

	return result, nil
}

// resubmit replaces a stuck transaction with an identical one at a higher gas
// price. The nonce never changes, so at most one transaction can occupy the
// slot from the relay's perspective.
func (m *Manager) resubmit(ctx context.Context, tx *relay.PendingTransaction, currentBlock uint64) (*relay.PendingTransaction, error) {
	bumped := new(big.Int).Mul(tx.GasPrice, big.NewInt(int64(100+m.cfg.GasPriceBumpPercent)))
	bumped.Div(bumped, big.NewInt(100))
	if bumped.Cmp(tx.GasPrice) <= 0 {
		bumped = new(big.Int).Add(tx.GasPrice, big.NewInt(1))
	}

	identity, err := m.signerIdentity(tx.Signer)
	if err != nil {
		return nil, err
	}

	replacement := ethtypes.NewTransaction(tx.Nonce, tx.Destination, tx.Value, tx.GasLimit, bumped, tx.Payload)
	signed, err := m.keys.SignTx(identity, replacement, m.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign replacement tx for %s nonce %d: %w", tx.Signer.Hex(), tx.Nonce, err)
	}

	if err := m.ledger.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to resubmit tx from %s nonce %d: %w", tx.Signer.Hex(), tx.Nonce, err)
	}

	tx.GasPrice = bumped
	tx.Hash = signed.Hash()
	tx.CreationBlockNumber = currentBlock
	if err := m.storage.UpdatePendingTx(tx); err != nil {
		return nil, fmt.Errorf("failed to update resubmitted tx from %s nonce %d: %w", tx.Signer.Hex(), tx.Nonce, err)
	}

	metrics.IncResubmittedTxs()
	m.logger.Info("resubmitted stuck transaction",
		zap.String("signer", tx.Signer.Hex()),
		zap.Uint64("nonce", tx.Nonce),
		zap.String("hash", tx.Hash.Hex()),
		zap.String("gas_price", bumped.String()))

	return tx, nil
}

// RecoverFromStorage re-derives each signer's next nonce as max(stored)+1 so
// a restart never reuses or skips a nonce. Two pending entries under the same
// (signer, nonce) indicate external interference and halt startup.
func (m *Manager) RecoverFromStorage(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending, err := m.storage.GetAllPendingTxs()
	if err != nil {
		return fmt.Errorf("failed to read pending txs from storage: %w", err)
	}

	seen := make(map[common.Address]map[uint64]struct{})
	for _, tx := range pending {
		nonces, ok := seen[tx.Signer]
		if !ok {
			nonces = make(map[uint64]struct{})
			seen[tx.Signer] = nonces
		}
		if _, dup := nonces[tx.Nonce]; dup {
			return fmt.Errorf("signer %s nonce %d stored twice: %w", tx.Signer.Hex(), tx.Nonce, relay.ErrNonceConflict)
		}
		nonces[tx.Nonce] = struct{}{}

		if next, ok := m.nonces[tx.Signer]; !ok || tx.Nonce+1 > next {
			m.nonces[tx.Signer] = tx.Nonce + 1
		}
	}

	m.logger.Info("recovered pending transactions from storage", zap.Int("count", len(pending)))
	return nil
}

// currentGasPrice is the network-suggested price scaled by the configured
// factor, floored at the configured minimum.
func (m *Manager) currentGasPrice(ctx context.Context) (*big.Int, error) {
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

func (m *Manager) signerIdentity(addr common.Address) (relay.Identity, error) {
	if m.keys.ManagerIdentity().Address == addr {
		return m.keys.ManagerIdentity(), nil
	}
	for i := 0; ; i++ {
		identity, err := m.keys.WorkerIdentity(i)
		if err != nil {
			return relay.Identity{}, fmt.Errorf("no identity for signer %s: %w", addr.Hex(), err)
		}
		if identity.Address == addr {
			return identity, nil
		}
	}
}

package relay

import "context"

// TxManager turns a (signer, destination, payload) intent into a durable,
// eventually-confirmed on-chain effect. It allocates per-signer nonces, signs
// and submits transactions through the ledger client, persists them, and
// periodically resubmits stuck transactions at a higher price.
type TxManager interface {
	// SendTransaction allocates the next nonce for the request's signer,
	// signs, submits and durably records the resulting PendingTransaction
	// before returning success. On submission failure the nonce allocation is
	// rolled back so it can be reused.
	SendTransaction(ctx context.Context, req TxRequest) (*PendingTransaction, error)
	// PollPendingTransactions checks every pending entry for a receipt and
	// resubmits entries that have been stuck longer than the configured
	// number of blocks, with a strictly higher gas price and the same nonce.
	PollPendingTransactions(ctx context.Context, currentBlock uint64) (*PollResult, error)
	// RecoverFromStorage re-derives each signer's next nonce from the stored
	// pending entries so a restart never reuses or skips a nonce.
	RecoverFromStorage(ctx context.Context) error
}

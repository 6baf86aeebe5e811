package relay

import "errors"

var (
	// ErrTickInProgress is returned when Tick is invoked while a previous
	// invocation is still running. The second invocation is rejected, not
	// queued.
	ErrTickInProgress = errors.New("reconciliation tick already in progress")

	// ErrBalanceTooLow means the manager balance is below the minimum
	// operating threshold. Resolved only by external funding.
	ErrBalanceTooLow = errors.New("manager balance too low")

	// ErrStakeTooLow means the observed stake is below the required value or
	// its unstake delay is shorter than the configured minimum.
	ErrStakeTooLow = errors.New("stake too low")

	// ErrNonceConflict means the storage holds two pending entries for the
	// same (signer, nonce). This indicates a bug or external interference and
	// must halt processing rather than silently pick one.
	ErrNonceConflict = errors.New("pending transaction nonce conflict")

	// ErrProtocolViolation means an event or receipt had a shape the state
	// machine cannot interpret. Fatal to the current tick.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrKeyNotFound is returned for a worker index outside the configured
	// worker-pool size.
	ErrKeyNotFound = errors.New("key not found")
)

package publisher

import "errors"

var (
	// ErrEmptyBatch is returned by Queue.Enqueue when called with no messages.
	ErrEmptyBatch = errors.New("no messages to enqueue")

	// ErrLockFailure mirrors the queue-lock error kind of the wire contract.
	// A sync.Mutex cannot fail to lock, so this error is declared for callers
	// that match on error kinds but is never produced by this implementation.
	ErrLockFailure = errors.New("failed to acquire queue lock")

	// ErrNoBrokers means the broker list was empty or blank; affected workers
	// exit without connecting and the pool runs with reduced capacity.
	ErrNoBrokers = errors.New("no brokers configured")

	// ErrBatchAbandoned marks the data-loss path where a worker stops
	// mid-batch (shutdown, unsupported kind) and discards the remainder.
	// It is logged and counted, never returned to the enqueuing caller.
	ErrBatchAbandoned = errors.New("local batch abandoned with unprocessed messages")

	// ErrNoClientFactory is returned by Start when the pool is enabled but no
	// broker client factory was supplied.
	ErrNoClientFactory = errors.New("no broker client factory configured")

	// ErrMetadataUnavailable is returned by GetMetadata when no metadata
	// client factory was supplied.
	ErrMetadataUnavailable = errors.New("no metadata client factory configured")
)

// Package publisher implements a concurrent Kafka publish pool.
//
// Callers enqueue messages through a Publisher facade; a fixed pool of
// workers drains a shared in-memory queue in bounded batches and publishes
// each message through a BrokerClient connection owned by that worker.
//
// Shutdown is cooperative: a single Shutdown message acts as a poison pill
// that each worker re-enqueues before exiting, so every worker eventually
// observes one and terminates.
//
// The queue is purely in-memory and unbounded. No delivery ordering is
// guaranteed across workers, only within a single drained batch.
package publisher

package publisher

import "sync"

// DefaultDrainBatch caps how many messages a single drain removes, bounding
// how long one worker holds a chunk of work during high-throughput bursts.
const DefaultDrainBatch = 10

// Queue is the shared, mutex-guarded FIFO of pending messages.
//
// The lock is held only for the in-memory append or drain, never across
// publish I/O or sleeps. Construct with NewQueue and share by pointer.
type Queue struct {
	mu   sync.Mutex
	msgs []Message
}

func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends msgs in order and returns the new queue length.
// An empty batch fails with ErrEmptyBatch and leaves the queue unchanged.
func (q *Queue) Enqueue(msgs []Message) (int, error) {
	if len(msgs) == 0 {
		return 0, ErrEmptyBatch
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, msgs...)
	return len(q.msgs), nil
}

// Drain removes up to max messages from the front, in insertion order.
// An empty result means "nothing to do", not an error.
func (q *Queue) Drain(max int) []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.msgs) == 0 || max <= 0 {
		return nil
	}
	n := max
	if len(q.msgs) < n {
		n = len(q.msgs)
	}
	batch := make([]Message, n)
	copy(batch, q.msgs[:n])
	q.msgs = q.msgs[n:]
	return batch
}

// Len returns the number of pending messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs)
}

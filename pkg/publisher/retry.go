package publisher

import "time"

// RetryPolicy decides whether and when a failed publish is attempted again.
//
// Next receives the number of attempts made so far (starting at 1) and
// returns the delay before the next attempt. A false second return stops
// retrying; the message is then dropped and counted, never re-queued.
type RetryPolicy interface {
	Next(attempt int) (time.Duration, bool)
}

// FixedInterval retries forever at a constant interval. This is the default
// policy. A worker stuck on a permanently failing publish blocks until its
// context is canceled, so bounded policies are preferable in production.
type FixedInterval struct {
	Interval time.Duration
}

func (f FixedInterval) Next(int) (time.Duration, bool) {
	return f.Interval, true
}

// MaxAttempts retries up to Attempts times at a constant interval, then
// gives up.
type MaxAttempts struct {
	Interval time.Duration
	Attempts int
}

func (m MaxAttempts) Next(attempt int) (time.Duration, bool) {
	if attempt >= m.Attempts {
		return 0, false
	}
	return m.Interval, true
}

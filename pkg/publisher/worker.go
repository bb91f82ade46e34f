package publisher

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/streamhaus/kafka-publisher/pkg/metrics"
)

// worker is one schedulable unit of the pool. It owns its broker connection
// and a transient local batch; the queue is the only shared state it touches.
type worker struct {
	id      int
	cfg     Config
	queue   *Queue
	clients ClientFactory
	retry   RetryPolicy
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

// run is the worker loop: drain a bounded batch, process it front-to-back,
// and repeat until a Shutdown message or context cancellation.
func (w *worker) run(ctx context.Context) {
	if len(w.cfg.Brokers) == 0 || w.cfg.Brokers[0] == "" {
		w.log.Errorw("no brokers to connect to, stopping worker",
			"brokers", w.cfg.Brokers, "error", ErrNoBrokers)
		w.metrics.WorkerExited(metrics.ExitNoBrokers)
		return
	}

	if w.id == 0 {
		w.log.Infow("pool connecting",
			"brokers", w.cfg.Brokers,
			"topics", w.cfg.Topics,
			"tlsCA", w.cfg.TLSCA,
			"tlsCert", w.cfg.TLSCert,
			"tlsKey", w.cfg.TLSKey,
		)
	}

	client, err := w.clients(ctx, w.id, w.cfg)
	if err != nil {
		w.log.Errorw("failed to connect broker client, stopping worker", "error", err)
		w.metrics.WorkerExited(metrics.ExitConnectFailed)
		return
	}
	defer client.Close()

	w.metrics.WorkerStarted()
	for {
		batch := w.queue.Drain(DefaultDrainBatch)
		w.metrics.SetQueueDepth(w.queue.Len())
		if len(batch) == 0 {
			if !w.pause(ctx, w.cfg.IdleInterval) {
				w.metrics.WorkerExited(metrics.ExitCanceled)
				return
			}
			continue
		}

		terminating := w.processBatch(ctx, client, batch)
		if terminating {
			w.log.Info("worker done, exiting")
			w.metrics.WorkerExited(metrics.ExitShutdown)
			return
		}
		if ctx.Err() != nil {
			w.metrics.WorkerExited(metrics.ExitCanceled)
			return
		}
	}
}

// processBatch handles one drained batch front-to-back and reports whether
// the worker should terminate.
//
// Any path that stops mid-batch discards the remaining local messages. That
// is the historical contract: the loss is logged against ErrBatchAbandoned
// and counted per reason, but the messages are not re-queued.
func (w *worker) processBatch(ctx context.Context, client BrokerClient, batch []Message) bool {
	terminating := false
	processed := 0

batchLoop:
	for _, msg := range batch {
		switch msg.Kind {
		case KindShutdown:
			terminating = true
			processed++
			// Requeue a copy so the remaining workers racing on the queue
			// also observe a shutdown message.
			if total, err := w.queue.Enqueue([]Message{msg.Clone()}); err != nil {
				w.log.Errorw("failed to requeue shutdown message", "error", err)
			} else {
				w.log.Debugw("requeued shutdown message", "queued", total)
			}
			break batchLoop

		case KindData, KindSensitive:
			if !w.publishWithRetry(ctx, client, msg) {
				break batchLoop
			}
			processed++

		case KindLogBrokerDetails, KindLogBrokerTopicDetails:
			w.log.Infow("not supported yet", "kind", msg.Kind.String())
			processed++
			w.abandon(batch, processed, metrics.DropNotImplemented)
			return terminating

		default:
			w.log.Errorw("unsupported message kind", "kind", msg.Kind.String())
			processed++
			w.abandon(batch, processed, metrics.DropUnsupportedKind)
			return terminating
		}
	}

	if terminating {
		remainder := len(batch) - processed
		if remainder == 0 {
			w.log.Debug("local batch fully drained before shutdown")
		} else {
			w.log.Errorw("shutting down with unprocessed local messages",
				"remaining", remainder, "error", ErrBatchAbandoned)
			w.metrics.RecordDrop(metrics.DropShutdownRemainder, remainder)
		}
	}
	return terminating
}

// abandon accounts for the messages after index processed-1 that were
// dropped when batch handling stopped early.
func (w *worker) abandon(batch []Message, processed int, reason string) {
	remainder := len(batch) - processed
	if remainder == 0 {
		return
	}
	w.log.Errorw("dropping remainder of local batch",
		"remaining", remainder, "reason", reason, "error", ErrBatchAbandoned)
	w.metrics.RecordDrop(reason, remainder)
}

// publishWithRetry publishes msg, sleeping between attempts per the retry
// policy. The default policy retries forever, so a permanently failing
// publish blocks this worker until the context is canceled. Returns false
// only on context cancellation.
func (w *worker) publishWithRetry(ctx context.Context, client BrokerClient, msg Message) bool {
	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := client.Publish(ctx, msg)
		if err == nil {
			w.metrics.RecordPublish(time.Since(start).Seconds())
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		// msg.String() elides the payload for sensitive messages.
		w.log.Errorw("failed to publish, retrying",
			"topic", msg.Topic, "message", msg.String(), "attempt", attempt, "error", err)
		w.metrics.IncPublishRetry()

		delay, retry := w.retry.Next(attempt)
		if !retry {
			w.log.Errorw("retry policy exhausted, dropping message",
				"topic", msg.Topic, "attempts", attempt,
				"error", fmt.Errorf("%w: publish kept failing", ErrBatchAbandoned))
			w.metrics.RecordDrop(metrics.DropRetryExhausted, 1)
			return true
		}
		if !w.pause(ctx, delay) {
			return false
		}
	}
}

// pause sleeps for d without stalling sibling goroutines, returning false if
// the context was canceled first.
func (w *worker) pause(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

package publisher

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/streamhaus/kafka-publisher/pkg/metrics"
)

// Publisher is the facade returned by Start. It wraps the shared queue and
// the pool configuration without exposing any locking details.
//
// All methods are safe for concurrent use. On a disabled pool every
// operation is a no-op that reports success.
type Publisher struct {
	cfg      Config
	queue    *Queue
	log      *zap.SugaredLogger
	metrics  *metrics.Metrics
	metadata MetadataFactory
	group    *errgroup.Group
}

// Config returns the pool configuration snapshot.
func (p *Publisher) Config() Config {
	return p.cfg
}

// AddDataMsg builds a KindData message and enqueues it, returning the new
// queue length.
func (p *Publisher) AddDataMsg(topic, key string, headers map[string]string, payload string) (int, error) {
	if !p.cfg.Enabled {
		return 0, nil
	}
	return p.enqueue([]Message{NewDataMessage(topic, key, headers, payload)})
}

// AddMsg enqueues a single caller-built message.
func (p *Publisher) AddMsg(msg Message) (int, error) {
	if !p.cfg.Enabled {
		return 0, nil
	}
	return p.enqueue([]Message{msg})
}

// AddMsgs enqueues a batch of caller-built messages, preserving order.
func (p *Publisher) AddMsgs(msgs []Message) (int, error) {
	if !p.cfg.Enabled {
		return 0, nil
	}
	return p.enqueue(msgs)
}

// DrainMsgs removes and returns every pending message, bypassing the
// workers. Inspection helper, mainly for tests.
func (p *Publisher) DrainMsgs() []Message {
	if !p.cfg.Enabled {
		return nil
	}
	var all []Message
	for {
		batch := p.queue.Drain(DefaultDrainBatch)
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
	}
	if p.metrics != nil {
		p.metrics.SetQueueDepth(0)
	}
	return all
}

// Shutdown enqueues exactly one poison-pill message and returns as soon as
// it is queued. It does not wait for workers to terminate; use Wait for
// that.
func (p *Publisher) Shutdown() (string, error) {
	if !p.cfg.Enabled {
		return "kafka not enabled", nil
	}
	p.log.Info("sending shutdown msg")
	if _, err := p.enqueue([]Message{{Kind: KindShutdown}}); err != nil {
		return "", err
	}
	return "shutdown started", nil
}

// Wait blocks until every worker has exited or ctx is canceled.
func (p *Publisher) Wait(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- p.group.Wait()
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// GetMetadata opens a metadata connection and reports cluster state for one
// topic, or for all topics when topic is empty. When fetchOffsets is true it
// also estimates per-topic message counts from partition watermarks.
func (p *Publisher) GetMetadata(ctx context.Context, fetchOffsets bool, topic string) (*ClusterReport, error) {
	if !p.cfg.Enabled {
		p.log.Infow("kafka not enabled", "enabled", p.cfg.Enabled)
		return nil, nil
	}
	if p.metadata == nil {
		return nil, ErrMetadataUnavailable
	}
	client, err := p.metadata(p.cfg)
	if err != nil {
		return nil, err
	}
	defer client.Close()
	return FetchClusterReport(ctx, client, p.log, fetchOffsets, topic)
}

func (p *Publisher) enqueue(msgs []Message) (int, error) {
	total, err := p.queue.Enqueue(msgs)
	if err != nil {
		p.log.Errorw("failed to enqueue messages", "count", len(msgs), "error", err)
		return 0, err
	}
	if p.metrics != nil {
		p.metrics.AddEnqueued(len(msgs))
		p.metrics.SetQueueDepth(total)
	}
	return total, nil
}

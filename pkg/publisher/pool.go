package publisher

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/streamhaus/kafka-publisher/pkg/metrics"
)

// Options carries the pool's collaborators. Zero values get sane defaults
// except Clients, which is required for enabled pools.
type Options struct {
	// Logger defaults to a no-op logger.
	Logger *zap.SugaredLogger

	// Clients opens one broker connection per worker. Required when the
	// pool is enabled.
	Clients ClientFactory

	// Metadata opens metadata connections for GetMetadata. Optional.
	Metadata MetadataFactory

	// Retry defaults to FixedInterval{cfg.RetryInterval}: retry forever.
	Retry RetryPolicy

	// Metrics defaults to a fresh instance on a private registry.
	Metrics *metrics.Metrics
}

// Start builds the shared queue and spawns cfg.NumWorkers workers, each with
// its own configuration copy and broker connection. It returns immediately
// with the Publisher facade; workers connect in the background.
//
// A disabled configuration starts no workers and returns a facade whose
// operations are no-ops.
func Start(ctx context.Context, cfg Config, opts Options) (*Publisher, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log = log.With("label", cfg.Label)

	p := &Publisher{
		cfg:      cfg,
		queue:    NewQueue(),
		log:      log,
		metadata: opts.Metadata,
		group:    &errgroup.Group{},
	}

	if !cfg.Enabled {
		log.Info("kafka not enabled, starting no workers")
		return p, nil
	}

	if opts.Clients == nil {
		return nil, ErrNoClientFactory
	}

	m := opts.Metrics
	if m == nil {
		var err error
		m, err = metrics.New(prometheus.NewRegistry())
		if err != nil {
			return nil, fmt.Errorf("failed to create pool metrics: %w", err)
		}
	}
	p.metrics = m

	retry := opts.Retry
	if retry == nil {
		retry = FixedInterval{Interval: cfg.RetryInterval}
	}

	log.Infow("starting workers", "workers", cfg.NumWorkers)
	for i := 0; i < cfg.NumWorkers; i++ {
		w := &worker{
			id:      i,
			cfg:     cfg,
			queue:   p.queue,
			clients: opts.Clients,
			retry:   retry,
			metrics: m,
			log:     log.With("worker", fmt.Sprintf("%s-tid-%d", cfg.Label, i+1)),
		}
		p.group.Go(func() error {
			w.run(ctx)
			return nil
		})
	}
	return p, nil
}

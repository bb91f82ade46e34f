package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/streamhaus/kafka-publisher/pkg/kafka"
	"github.com/streamhaus/kafka-publisher/pkg/metrics"
	"github.com/streamhaus/kafka-publisher/pkg/publisher"
	"github.com/streamhaus/kafka-publisher/pkg/utils"
)

const metricsShutdownTimeout = 5 * time.Second

// run starts the pool, publishes the configured number of test messages,
// then sends the shutdown poison pill and waits for the workers to exit.
func run(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}
	topic := c.String("topic")
	count := c.Int("count")
	metricsPort := c.Int("metrics-port")
	drainTimeout := c.Duration("drain-timeout")

	sugar, err := utils.NewSugaredLogger(c.Bool("verbose"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer utils.SyncLogger(sugar)

	sugar.Infow("config", "pool", cfg.String(), "topic", topic, "count", count)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	poolMetrics, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	metricsServer := metrics.NewServer(fmt.Sprintf(":%d", metricsPort), registry)
	serverErrCh := metricsServer.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			sugar.Warnw("failed to shut down metrics server", "error", err)
		}
	}()

	pool, err := publisher.Start(ctx, cfg, publisher.Options{
		Logger:   sugar,
		Clients:  kafka.Factory(sugar),
		Metadata: kafka.MetadataFactory(sugar),
		Metrics:  poolMetrics,
	})
	if err != nil {
		return fmt.Errorf("failed to start publish pool: %w", err)
	}

	msgs := make([]publisher.Message, 0, count)
	for i := 0; i < count; i++ {
		headers := map[string]string{
			fmt.Sprintf("header %d", i): fmt.Sprintf("value %d", i),
		}
		msgs = append(msgs, publisher.NewDataMessage(
			topic, topic, headers, fmt.Sprintf("test message %d", i)))
	}

	queued, err := pool.AddMsgs(msgs)
	if err != nil {
		return fmt.Errorf("failed to enqueue test messages: %w", err)
	}
	sugar.Infow("enqueued test messages", "count", len(msgs), "queued", queued)

	status, err := pool.Shutdown()
	if err != nil {
		return fmt.Errorf("failed to send shutdown: %w", err)
	}
	sugar.Info(status)

	waitCtx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	err = pool.Wait(waitCtx)
	if errors.Is(err, context.Canceled) {
		sugar.Info("exiting due to context cancellation")
		return nil
	}
	if err != nil {
		return fmt.Errorf("workers did not terminate: %w", err)
	}

	select {
	case err := <-serverErrCh:
		if err != nil {
			return err
		}
	default:
	}

	sugar.Info("shutting down")
	return nil
}

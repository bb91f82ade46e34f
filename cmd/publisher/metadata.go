package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/streamhaus/kafka-publisher/pkg/kafka"
	"github.com/streamhaus/kafka-publisher/pkg/publisher"
	"github.com/streamhaus/kafka-publisher/pkg/utils"
)

// metadata runs the one-shot cluster report without starting any workers.
func metadata(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}
	topic := c.String("topic")

	sugar, err := utils.NewSugaredLogger(c.Bool("verbose"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer utils.SyncLogger(sugar)

	if !cfg.Enabled {
		sugar.Info("kafka not enabled")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow("getting metadata", "config", cfg.String(), "topic", topic)
	probe, err := kafka.NewMetadataProbe(cfg, sugar)
	if err != nil {
		return fmt.Errorf("failed to create metadata probe: %w", err)
	}
	defer probe.Close()

	report, err := publisher.FetchClusterReport(ctx, probe, sugar, cfg.CountOffsets, topic)
	if err != nil {
		return fmt.Errorf("failed to fetch cluster report: %w", err)
	}

	sugar.Infow("cluster report complete",
		"brokers", len(report.Brokers), "topics", len(report.Topics))
	return nil
}

package main

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/streamhaus/kafka-publisher/pkg/publisher"
)

// poolFlags configures the pool itself and is shared by every command.
func poolFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable verbose logging",
			EnvVars: []string{"VERBOSE"},
		},
		&cli.BoolFlag{
			Name:    "enabled",
			Usage:   "Toggle the pool; when disabled every operation is a no-op",
			EnvVars: []string{"KAFKA_ENABLED"},
			Value:   true,
		},
		&cli.StringFlag{
			Name:    "label",
			Aliases: []string{"L"},
			Usage:   "Tracking label included in all pool logs",
			EnvVars: []string{"KAFKA_LOG_LABEL"},
			Value:   "ktp",
		},
		&cli.StringFlag{
			Name:    "brokers",
			Aliases: []string{"b"},
			Usage:   "Comma-separated host:port broker list",
			EnvVars: []string{"KAFKA_BROKERS"},
			Value:   "localhost:9092",
		},
		&cli.StringFlag{
			Name:    "topics",
			Usage:   "Comma-separated list of topics this pool publishes to",
			EnvVars: []string{"KAFKA_TOPICS"},
			Value:   "testing",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Number of worker goroutines draining the queue",
			EnvVars: []string{"KAFKA_NUM_THREADS"},
			Value:   5,
		},
		&cli.DurationFlag{
			Name:    "retry-interval",
			Usage:   "Sleep between publish retries",
			EnvVars: []string{"KAFKA_PUBLISH_RETRY_INTERVAL"},
			Value:   time.Second,
		},
		&cli.DurationFlag{
			Name:    "idle-interval",
			Usage:   "Sleep when the queue is empty",
			EnvVars: []string{"KAFKA_PUBLISH_IDLE_INTERVAL"},
			Value:   500 * time.Millisecond,
		},
		&cli.StringFlag{
			Name:    "tls-key",
			Usage:   "Path to the mTLS client key",
			EnvVars: []string{"KAFKA_TLS_CLIENT_KEY"},
		},
		&cli.StringFlag{
			Name:    "tls-cert",
			Usage:   "Path to the mTLS client certificate",
			EnvVars: []string{"KAFKA_TLS_CLIENT_CERT"},
		},
		&cli.StringFlag{
			Name:    "tls-ca",
			Usage:   "Path to the mTLS certificate authority",
			EnvVars: []string{"KAFKA_TLS_CLIENT_CA"},
		},
	}
}

// runFlags configures the test-message publish flow.
func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "topic",
			Aliases: []string{"t"},
			Usage:   "Topic to publish the test messages to",
			EnvVars: []string{"KAFKA_TOPIC"},
			Value:   "testing",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Number of test messages to publish",
			EnvVars: []string{"MESSAGE_COUNT"},
			Value:   100,
		},
		&cli.IntFlag{
			Name:    "metrics-port",
			Aliases: []string{"m"},
			Usage:   "Port for the Prometheus metrics server",
			EnvVars: []string{"METRICS_PORT"},
			Value:   9090,
		},
		&cli.DurationFlag{
			Name:    "drain-timeout",
			Usage:   "How long to wait for workers to terminate after shutdown",
			EnvVars: []string{"DRAIN_TIMEOUT"},
			Value:   30 * time.Second,
		},
	}
}

// metadataFlags configures the one-shot cluster report.
func metadataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "topic",
			Aliases: []string{"t"},
			Usage:   "Report a single topic instead of the whole cluster",
			EnvVars: []string{"KAFKA_TOPIC"},
		},
		&cli.BoolFlag{
			Name:    "fetch-offsets",
			Aliases: []string{"o"},
			Usage:   "Fetch partition watermarks and estimate message counts",
			EnvVars: []string{"KAFKA_METADATA_COUNT_MSG_OFFSETS"},
			Value:   true,
		},
	}
}

// buildConfig builds the pool configuration from CLI flags.
func buildConfig(c *cli.Context) (publisher.Config, error) {
	cfg := publisher.Config{
		Label:         c.String("label"),
		Enabled:       c.Bool("enabled"),
		Brokers:       splitList(c.String("brokers")),
		Topics:        splitList(c.String("topics")),
		NumWorkers:    c.Int("workers"),
		RetryInterval: c.Duration("retry-interval"),
		IdleInterval:  c.Duration("idle-interval"),
		TLSKey:        c.String("tls-key"),
		TLSCert:       c.String("tls-cert"),
		TLSCA:         c.String("tls-ca"),
		CountOffsets:  c.Bool("fetch-offsets"),
	}
	if cfg.Enabled {
		if err := cfg.Validate(); err != nil {
			return publisher.Config{}, err
		}
	}
	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

package publisher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// minSleep guards against busy-spin loops from degenerate intervals.
const minSleep = time.Millisecond

var (
	ErrInvalidNumWorkers    = errors.New("invalid number of workers: must be greater than 0")
	ErrInvalidRetryInterval = errors.New("invalid retry interval: must be longer than 1ms")
	ErrInvalidIdleInterval  = errors.New("invalid idle interval: must be longer than 1ms")
)

// Config holds the static settings for the publish pool.
//
// It is constructed once, validated by the loader, and cloned read-only into
// every worker. Empty TLS paths mean an unencrypted transport.
type Config struct {
	Label         string        `env:"KAFKA_LOG_LABEL"              envDefault:"ktp"`        // Tracking label included in all pool logs
	Enabled       bool          `env:"KAFKA_ENABLED"                envDefault:"true"`       // Toggles the whole pool; disabled pools no-op
	Brokers       []string      `env:"KAFKA_BROKERS"                envSeparator:","`        // host:port broker list
	Topics        []string      `env:"KAFKA_TOPICS"                 envSeparator:","`        // Topics this pool publishes to
	NumWorkers    int           `env:"KAFKA_NUM_THREADS"            envDefault:"5"`          // Worker goroutines draining the queue
	RetryInterval time.Duration `env:"KAFKA_PUBLISH_RETRY_INTERVAL" envDefault:"1s"`         // Sleep between publish retries
	IdleInterval  time.Duration `env:"KAFKA_PUBLISH_IDLE_INTERVAL"  envDefault:"500ms"`      // Sleep when the queue is empty
	TLSKey        string        `env:"KAFKA_TLS_CLIENT_KEY"`                                 // Path to the mTLS client key
	TLSCert       string        `env:"KAFKA_TLS_CLIENT_CERT"`                                // Path to the mTLS client certificate
	TLSCA         string        `env:"KAFKA_TLS_CLIENT_CA"`                                  // Path to the mTLS certificate authority
	CountOffsets  bool          `env:"KAFKA_METADATA_COUNT_MSG_OFFSETS" envDefault:"true"`   // Fetch watermarks during metadata queries
}

// LoadConfig parses the KAFKA_* environment variables and validates the
// result. Validation is skipped for disabled pools, matching the loader
// contract that the core only ever sees usable settings.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse publisher config: %w", err)
	}
	if !cfg.Enabled {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the invariants the pool assumes.
func (c Config) Validate() error {
	if c.NumWorkers <= 0 {
		return ErrInvalidNumWorkers
	}
	if c.RetryInterval <= minSleep {
		return ErrInvalidRetryInterval
	}
	if c.IdleInterval <= minSleep {
		return ErrInvalidIdleInterval
	}
	return nil
}

// UseTLS reports whether any TLS material was configured.
func (c Config) UseTLS() bool {
	return c.TLSKey != "" || c.TLSCert != "" || c.TLSCA != ""
}

// String logs the configuration. TLS values are file paths, never key material.
func (c Config) String() string {
	return fmt.Sprintf(
		"Config label=%s enabled=%t brokers=%s topics=%s workers=%d retry=%s idle=%s tls key=%s cert=%s ca=%s",
		c.Label, c.Enabled,
		strings.Join(c.Brokers, ","), strings.Join(c.Topics, ","),
		c.NumWorkers, c.RetryInterval, c.IdleInterval,
		c.TLSKey, c.TLSCert, c.TLSCA,
	)
}

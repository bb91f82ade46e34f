package publisher_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhaus/kafka-publisher/pkg/publisher"
)

func validConfig() publisher.Config {
	return publisher.Config{
		Label:         "ktp",
		Enabled:       true,
		Brokers:       []string{"localhost:9092"},
		Topics:        []string{"testing"},
		NumWorkers:    5,
		RetryInterval: time.Second,
		IdleInterval:  500 * time.Millisecond,
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_LOG_LABEL", "mypool")
	t.Setenv("KAFKA_BROKERS", "host1:9092,host2:9092")
	t.Setenv("KAFKA_TOPICS", "testing,audit")
	t.Setenv("KAFKA_NUM_THREADS", "3")
	t.Setenv("KAFKA_PUBLISH_RETRY_INTERVAL", "2s")
	t.Setenv("KAFKA_PUBLISH_IDLE_INTERVAL", "250ms")
	t.Setenv("KAFKA_TLS_CLIENT_KEY", "/certs/client.key")
	t.Setenv("KAFKA_TLS_CLIENT_CERT", "/certs/client.crt")
	t.Setenv("KAFKA_TLS_CLIENT_CA", "/certs/ca.crt")

	cfg, err := publisher.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mypool", cfg.Label)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"host1:9092", "host2:9092"}, cfg.Brokers)
	assert.Equal(t, []string{"testing", "audit"}, cfg.Topics)
	assert.Equal(t, 3, cfg.NumWorkers)
	assert.Equal(t, 2*time.Second, cfg.RetryInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.IdleInterval)
	assert.True(t, cfg.UseTLS())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")

	cfg, err := publisher.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ktp", cfg.Label)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.NumWorkers)
	assert.Equal(t, time.Second, cfg.RetryInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.IdleInterval)
	assert.False(t, cfg.UseTLS())
}

func TestLoadConfig_DisabledSkipsValidation(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("KAFKA_NUM_THREADS", "0")

	cfg, err := publisher.LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
}

func TestLoadConfig_InvalidWorkerCount(t *testing.T) {
	t.Setenv("KAFKA_NUM_THREADS", "0")

	_, err := publisher.LoadConfig()
	require.ErrorIs(t, err, publisher.ErrInvalidNumWorkers)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*publisher.Config)
		wantErr error
	}{
		{"valid", func(c *publisher.Config) {}, nil},
		{"zero workers", func(c *publisher.Config) { c.NumWorkers = 0 }, publisher.ErrInvalidNumWorkers},
		{"negative workers", func(c *publisher.Config) { c.NumWorkers = -1 }, publisher.ErrInvalidNumWorkers},
		{"retry too short", func(c *publisher.Config) { c.RetryInterval = time.Millisecond }, publisher.ErrInvalidRetryInterval},
		{"idle too short", func(c *publisher.Config) { c.IdleInterval = 0 }, publisher.ErrInvalidIdleInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_StringShowsPathsNotSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.TLSKey = "/certs/client.key"
	s := cfg.String()
	assert.Contains(t, s, "/certs/client.key")
	assert.Contains(t, s, "ktp")
	assert.Contains(t, s, "localhost:9092")
}

package kafka_test

import (
	"testing"
	"time"

	confluentKafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhaus/kafka-publisher/pkg/kafka"
	"github.com/streamhaus/kafka-publisher/pkg/publisher"
)

func plaintextConfig() publisher.Config {
	return publisher.Config{
		Label:         "ktp",
		Enabled:       true,
		Brokers:       []string{"host1:9092", "host2:9092"},
		Topics:        []string{"testing"},
		NumWorkers:    5,
		RetryInterval: time.Second,
		IdleInterval:  500 * time.Millisecond,
	}
}

func tlsConfig() publisher.Config {
	cfg := plaintextConfig()
	cfg.TLSKey = "/certs/client.key"
	cfg.TLSCert = "/certs/client.crt"
	cfg.TLSCA = "/certs/ca.crt"
	return cfg
}

func configValue(t *testing.T, cm *confluentKafka.ConfigMap, key string) confluentKafka.ConfigValue {
	t.Helper()
	v, err := cm.Get(key, nil)
	require.NoError(t, err)
	return v
}

func TestProducerConfigMap_Plaintext(t *testing.T) {
	cm := kafka.ProducerConfigMap(plaintextConfig())

	assert.Equal(t, "host1:9092,host2:9092", configValue(t, cm, "bootstrap.servers"))
	assert.Equal(t, "ktp", configValue(t, cm, "client.id"))
	assert.Equal(t, 5000, configValue(t, cm, "message.timeout.ms"))
	assert.Equal(t, "PLAINTEXT", configValue(t, cm, "security.protocol"))
}

func TestProducerConfigMap_TLS(t *testing.T) {
	cm := kafka.ProducerConfigMap(tlsConfig())

	assert.Equal(t, "SSL", configValue(t, cm, "security.protocol"))
	assert.Equal(t, "/certs/ca.crt", configValue(t, cm, "ssl.ca.location"))
	assert.Equal(t, "/certs/client.key", configValue(t, cm, "ssl.key.location"))
	assert.Equal(t, "/certs/client.crt", configValue(t, cm, "ssl.certificate.location"))
	assert.Equal(t, true, configValue(t, cm, "enable.ssl.certificate.verification"))
}

func TestConsumerConfigMap_GroupID(t *testing.T) {
	cm := kafka.ConsumerConfigMap(plaintextConfig())

	assert.Equal(t, "ktp-metadata", configValue(t, cm, "group.id"))
	assert.Equal(t, "host1:9092,host2:9092", configValue(t, cm, "bootstrap.servers"))
	assert.Equal(t, "PLAINTEXT", configValue(t, cm, "security.protocol"))
}

package kafka

import (
	"strings"

	confluentKafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/streamhaus/kafka-publisher/pkg/publisher"
)

const messageTimeoutMs = 5000

// ProducerConfigMap builds the librdkafka producer configuration from the
// pool settings. With no TLS material the transport is PLAINTEXT, which is
// not safe for connections crossing untrusted networks; otherwise mutual
// TLS with certificate verification enabled.
func ProducerConfigMap(cfg publisher.Config) *confluentKafka.ConfigMap {
	cm := &confluentKafka.ConfigMap{
		"bootstrap.servers":  strings.Join(cfg.Brokers, ","),
		"client.id":          cfg.Label,
		"message.timeout.ms": messageTimeoutMs,
	}
	applySecurity(cm, cfg)
	return cm
}

// ConsumerConfigMap builds the configuration for metadata probe consumers.
// The consumer never joins the group; group.id is only required by the
// client library.
func ConsumerConfigMap(cfg publisher.Config) *confluentKafka.ConfigMap {
	cm := &confluentKafka.ConfigMap{
		"bootstrap.servers": strings.Join(cfg.Brokers, ","),
		"group.id":          cfg.Label + "-metadata",
	}
	applySecurity(cm, cfg)
	return cm
}

func applySecurity(cm *confluentKafka.ConfigMap, cfg publisher.Config) {
	if !cfg.UseTLS() {
		cm.SetKey("security.protocol", "PLAINTEXT") //nolint:errcheck // SetKey only fails on malformed "k=v" strings
		return
	}
	for k, v := range map[string]confluentKafka.ConfigValue{
		"security.protocol":                   "SSL",
		"ssl.ca.location":                     cfg.TLSCA,
		"ssl.key.location":                    cfg.TLSKey,
		"ssl.certificate.location":            cfg.TLSCert,
		"enable.ssl.certificate.verification": true,
	} {
		cm.SetKey(k, v) //nolint:errcheck // SetKey only fails on malformed "k=v" strings
	}
}

// Package kafka provides the confluent-kafka-go backed broker client for
// the publish pool: a synchronous producer wrapper, metadata probe, and
// ConfigMap construction for PLAINTEXT or mutual-TLS transports.
package kafka

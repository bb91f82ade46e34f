package publisher

import (
	"context"
	"time"
)

// BrokerClient is the publish connection a worker owns exclusively.
//
// Publish blocks until the broker confirms delivery or the context is
// canceled. A nil error means the broker accepted the message.
type BrokerClient interface {
	Publish(ctx context.Context, msg Message) error
	Close()
}

// ClientFactory opens one BrokerClient per worker. The worker index is
// provided so implementations can label their connection logs.
type ClientFactory func(ctx context.Context, workerID int, cfg Config) (BrokerClient, error)

// MetadataClient is the one-shot connection used by metadata queries.
type MetadataClient interface {
	// FetchMetadata returns cluster metadata for one topic, or for all
	// topics when topic is empty.
	FetchMetadata(ctx context.Context, topic string, timeout time.Duration) (*ClusterMetadata, error)

	// FetchWatermarks returns the low and high offsets of a partition.
	FetchWatermarks(ctx context.Context, topic string, partition int32, timeout time.Duration) (low, high int64, err error)

	Close()
}

// MetadataFactory opens a MetadataClient from the pool configuration.
type MetadataFactory func(cfg Config) (MetadataClient, error)

// ClusterMetadata is the raw cluster state reported by a MetadataClient.
type ClusterMetadata struct {
	Brokers []BrokerInfo
	Topics  []TopicMetadata
}

type BrokerInfo struct {
	ID   int32
	Host string
	Port int
}

type TopicMetadata struct {
	Name       string
	Err        error
	Partitions []PartitionMetadata
}

type PartitionMetadata struct {
	ID       int32
	Leader   int32
	Replicas []int32
	ISR      []int32
	Err      error
}

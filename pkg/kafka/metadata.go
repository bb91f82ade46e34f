package kafka

import (
	"context"
	"fmt"
	"time"

	confluentKafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/streamhaus/kafka-publisher/pkg/publisher"
)

// MetadataProbe implements publisher.MetadataClient over a throwaway
// consumer connection. The consumer never subscribes; it exists only for
// GetMetadata and QueryWatermarkOffsets.
type MetadataProbe struct {
	consumer *confluentKafka.Consumer
	log      *zap.SugaredLogger
}

// NewMetadataProbe opens a metadata connection from the pool settings.
func NewMetadataProbe(cfg publisher.Config, log *zap.SugaredLogger) (*MetadataProbe, error) {
	consumer, err := confluentKafka.NewConsumer(ConsumerConfigMap(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata consumer: %w", err)
	}
	return &MetadataProbe{consumer: consumer, log: log}, nil
}

// MetadataFactory returns a publisher.MetadataFactory backed by probes.
func MetadataFactory(log *zap.SugaredLogger) publisher.MetadataFactory {
	return func(cfg publisher.Config) (publisher.MetadataClient, error) {
		return NewMetadataProbe(cfg, log)
	}
}

// FetchMetadata returns cluster metadata for one topic, or all topics when
// topic is empty.
func (p *MetadataProbe) FetchMetadata(
	_ context.Context,
	topic string,
	timeout time.Duration,
) (*publisher.ClusterMetadata, error) {
	var topicPtr *string
	allTopics := true
	if topic != "" {
		topicPtr = &topic
		allTopics = false
	}

	md, err := p.consumer.GetMetadata(topicPtr, allTopics, int(timeout.Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	return translateMetadata(md), nil
}

// FetchWatermarks returns the low and high offsets of a partition.
func (p *MetadataProbe) FetchWatermarks(
	_ context.Context,
	topic string,
	partition int32,
	timeout time.Duration,
) (int64, int64, error) {
	low, high, err := p.consumer.QueryWatermarkOffsets(topic, partition, int(timeout.Milliseconds()))
	if err != nil {
		return -1, -1, fmt.Errorf("failed to query watermarks for %s[%d]: %w", topic, partition, err)
	}
	return low, high, nil
}

func (p *MetadataProbe) Close() {
	if err := p.consumer.Close(); err != nil {
		p.log.Warnw("failed to close metadata consumer", "error", err)
	}
}

func translateMetadata(md *confluentKafka.Metadata) *publisher.ClusterMetadata {
	out := &publisher.ClusterMetadata{}
	for _, b := range md.Brokers {
		out.Brokers = append(out.Brokers, publisher.BrokerInfo{
			ID:   b.ID,
			Host: b.Host,
			Port: b.Port,
		})
	}
	for _, t := range md.Topics {
		tm := publisher.TopicMetadata{
			Name: t.Topic,
			Err:  codeToError(t.Error),
		}
		for _, part := range t.Partitions {
			tm.Partitions = append(tm.Partitions, publisher.PartitionMetadata{
				ID:       part.ID,
				Leader:   part.Leader,
				Replicas: part.Replicas,
				ISR:      part.Isrs,
				Err:      codeToError(part.Error),
			})
		}
		out.Topics = append(out.Topics, tm)
	}
	return out
}

func codeToError(err confluentKafka.Error) error {
	if err.Code() == confluentKafka.ErrNoError {
		return nil
	}
	return err
}

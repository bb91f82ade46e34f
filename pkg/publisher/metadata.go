package publisher

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// metadataTimeout bounds the cluster metadata fetch.
	metadataTimeout = 30 * time.Second
	// watermarkTimeout bounds each per-partition watermark fetch.
	watermarkTimeout = time.Second
)

// ClusterReport is the result of a metadata query: cluster brokers plus the
// per-topic partition layout, and message-count estimates when watermark
// offsets were fetched.
type ClusterReport struct {
	Brokers []BrokerInfo
	Topics  []TopicReport
}

type TopicReport struct {
	Name       string
	Err        error
	Partitions []PartitionReport

	// MessageCount sums high-low watermarks across partitions. Only set
	// when offsets were fetched.
	MessageCount int64
}

type PartitionReport struct {
	ID       int32
	Leader   int32
	Replicas []int32
	ISR      []int32
	Err      error

	// Low and High are the partition watermarks, or -1 when the fetch
	// failed or was skipped.
	Low  int64
	High int64
}

// FetchClusterReport runs the one-shot metadata query against client.
// It is read-only and side-effect-free beyond logging.
func FetchClusterReport(
	ctx context.Context,
	client MetadataClient,
	log *zap.SugaredLogger,
	fetchOffsets bool,
	topic string,
) (*ClusterReport, error) {
	md, err := client.FetchMetadata(ctx, topic, metadataTimeout)
	if err != nil {
		return nil, err
	}

	log.Infow("cluster info", "brokers", len(md.Brokers), "topics", len(md.Topics))
	for _, b := range md.Brokers {
		log.Infow("broker", "id", b.ID, "host", b.Host, "port", b.Port)
	}

	report := &ClusterReport{Brokers: md.Brokers}
	for _, t := range md.Topics {
		tr := TopicReport{Name: t.Name, Err: t.Err}
		log.Infow("topic", "name", t.Name, "error", t.Err)
		for _, part := range t.Partitions {
			pr := PartitionReport{
				ID:       part.ID,
				Leader:   part.Leader,
				Replicas: part.Replicas,
				ISR:      part.ISR,
				Err:      part.Err,
				Low:      -1,
				High:     -1,
			}
			log.Infow("partition",
				"topic", t.Name,
				"partition", part.ID,
				"leader", part.Leader,
				"replicas", part.Replicas,
				"isr", part.ISR,
				"error", part.Err,
			)
			if fetchOffsets {
				low, high, err := client.FetchWatermarks(ctx, t.Name, part.ID, watermarkTimeout)
				if err != nil {
					// Best effort: a failed watermark fetch defaults to (-1, -1).
					low, high = -1, -1
				}
				pr.Low, pr.High = low, high
				log.Infow("watermarks",
					"topic", t.Name,
					"partition", part.ID,
					"low", low,
					"high", high,
					"difference", high-low,
				)
				tr.MessageCount += high - low
			}
			tr.Partitions = append(tr.Partitions, pr)
		}
		if fetchOffsets {
			log.Infow("topic message count", "topic", t.Name, "count", tr.MessageCount)
		}
		report.Topics = append(report.Topics, tr)
	}
	return report, nil
}

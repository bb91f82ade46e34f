package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhaus/kafka-publisher/pkg/metrics"
)

func newMetrics(t *testing.T) (*metrics.Metrics, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)
	return m, registry
}

func TestNew_DuplicateRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := metrics.New(registry)
	require.NoError(t, err)

	_, err = metrics.New(registry)
	require.Error(t, err)
}

func TestMetrics_PublishCounters(t *testing.T) {
	m, registry := newMetrics(t)

	m.AddEnqueued(10)
	m.RecordPublish(0.002)
	m.RecordPublish(0.004)
	m.IncPublishRetry()
	m.SetQueueDepth(7)

	families, err := registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, fam := range families {
		if len(fam.GetMetric()) == 1 && fam.GetMetric()[0].GetCounter() != nil {
			values[fam.GetName()] = fam.GetMetric()[0].GetCounter().GetValue()
		}
		if len(fam.GetMetric()) == 1 && fam.GetMetric()[0].GetGauge() != nil {
			values[fam.GetName()] = fam.GetMetric()[0].GetGauge().GetValue()
		}
	}

	assert.Equal(t, float64(10), values["kafka_publisher_messages_enqueued_total"])
	assert.Equal(t, float64(2), values["kafka_publisher_messages_published_total"])
	assert.Equal(t, float64(1), values["kafka_publisher_publish_retries_total"])
	assert.Equal(t, float64(7), values["kafka_publisher_queue_depth"])
}

func TestMetrics_DropsByReason(t *testing.T) {
	m, _ := newMetrics(t)

	m.RecordDrop(metrics.DropShutdownRemainder, 3)
	m.RecordDrop(metrics.DropRetryExhausted, 1)

	assert.Equal(t, float64(3), promtestutil.ToFloat64(m.Dropped(metrics.DropShutdownRemainder)))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(m.Dropped(metrics.DropRetryExhausted)))
	assert.Zero(t, promtestutil.ToFloat64(m.Dropped(metrics.DropNotImplemented)))
}

func TestMetrics_WorkerLifecycle(t *testing.T) {
	m, registry := newMetrics(t)

	m.WorkerStarted()
	m.WorkerStarted()
	m.WorkerExited(metrics.ExitShutdown)

	families, err := registry.Gather()
	require.NoError(t, err)

	var live float64
	for _, fam := range families {
		if fam.GetName() == "kafka_publisher_workers_live" {
			live = fam.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, float64(1), live)

	// A worker that never connected was never counted live, so its exit
	// must not push the gauge negative.
	m.WorkerExited(metrics.ExitNoBrokers)

	families, err = registry.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() == "kafka_publisher_workers_live" {
			assert.Equal(t, float64(1), fam.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

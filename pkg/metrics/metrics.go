package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "kafka_publisher"

// Drop reasons for messages discarded without being published. These paths
// are invisible to the enqueuing caller, so the counter is the only signal
// that data was lost.
const (
	DropShutdownRemainder = "shutdown_remainder"
	DropNotImplemented    = "not_implemented"
	DropUnsupportedKind   = "unsupported_kind"
	DropRetryExhausted    = "retry_exhausted"
)

// Worker exit reasons.
const (
	ExitShutdown      = "shutdown"
	ExitNoBrokers     = "no_brokers"
	ExitConnectFailed = "connect_failed"
	ExitCanceled      = "canceled"
)

// Metrics instruments the publish pool.
type Metrics struct {
	enqueued        prometheus.Counter
	published       prometheus.Counter
	publishRetries  prometheus.Counter
	dropped         *prometheus.CounterVec
	queueDepth      prometheus.Gauge
	publishDuration prometheus.Histogram
	workersLive     prometheus.Gauge
	workerExits     *prometheus.CounterVec
}

// New creates a Metrics instance and registers everything with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_enqueued_total",
			Help:      "Total messages appended to the shared work queue",
		}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_published_total",
			Help:      "Total messages successfully delivered to the broker",
		}),
		publishRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "publish_retries_total",
			Help:      "Total publish attempts that failed and were retried",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_dropped_total",
			Help:      "Total messages discarded without being published, by reason",
		}, []string{"reason"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "queue_depth",
			Help:      "Messages currently pending in the shared work queue",
		}),
		publishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "publish_duration_seconds",
			Help:      "Time to publish one message including broker acknowledgement",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		workersLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "workers_live",
			Help:      "Workers currently draining the queue",
		}),
		workerExits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "worker_exits_total",
			Help:      "Total worker terminations, by reason",
		}, []string{"reason"}),
	}

	err := errors.Join(
		reg.Register(m.enqueued),
		reg.Register(m.published),
		reg.Register(m.publishRetries),
		reg.Register(m.dropped),
		reg.Register(m.queueDepth),
		reg.Register(m.publishDuration),
		reg.Register(m.workersLive),
		reg.Register(m.workerExits),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// AddEnqueued records count messages appended to the queue.
func (m *Metrics) AddEnqueued(count int) {
	m.enqueued.Add(float64(count))
}

// SetQueueDepth records the current queue length.
func (m *Metrics) SetQueueDepth(depth int) {
	m.queueDepth.Set(float64(depth))
}

// RecordPublish records one successful delivery and its duration.
func (m *Metrics) RecordPublish(durationSeconds float64) {
	m.published.Inc()
	m.publishDuration.Observe(durationSeconds)
}

// IncPublishRetry records one failed publish attempt that will be retried.
func (m *Metrics) IncPublishRetry() {
	m.publishRetries.Inc()
}

// RecordDrop records count messages discarded for the given reason.
func (m *Metrics) RecordDrop(reason string, count int) {
	m.dropped.WithLabelValues(reason).Add(float64(count))
}

// WorkerStarted marks a worker as live after it connected.
func (m *Metrics) WorkerStarted() {
	m.workersLive.Inc()
}

// WorkerExited records a worker termination. Workers that never connected
// were never marked live, so the gauge only decrements for started workers.
func (m *Metrics) WorkerExited(reason string) {
	if reason == ExitShutdown || reason == ExitCanceled {
		m.workersLive.Dec()
	}
	m.workerExits.WithLabelValues(reason).Inc()
}

// Dropped returns the drop counter for reason, for tests and health checks.
func (m *Metrics) Dropped(reason string) prometheus.Counter {
	return m.dropped.WithLabelValues(reason)
}

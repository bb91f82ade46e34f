package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/streamhaus/kafka-publisher/pkg/publisher"
)

// MockBrokerClient is a testify mock of publisher.BrokerClient.
type MockBrokerClient struct {
	mock.Mock
}

func (m *MockBrokerClient) Publish(ctx context.Context, msg publisher.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockBrokerClient) Close() {
	m.Called()
}

// MockMetadataClient is a testify mock of publisher.MetadataClient.
type MockMetadataClient struct {
	mock.Mock
}

func (m *MockMetadataClient) FetchMetadata(ctx context.Context, topic string, timeout time.Duration) (*publisher.ClusterMetadata, error) {
	args := m.Called(ctx, topic, timeout)
	md, _ := args.Get(0).(*publisher.ClusterMetadata)
	return md, args.Error(1)
}

func (m *MockMetadataClient) FetchWatermarks(ctx context.Context, topic string, partition int32, timeout time.Duration) (int64, int64, error) {
	args := m.Called(ctx, topic, partition, timeout)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockMetadataClient) Close() {
	m.Called()
}

// RecordingClient is a BrokerClient that records every published message
// and reports a configurable number of failures per message before
// succeeding. The zero value publishes everything on the first attempt.
type RecordingClient struct {
	mu        sync.Mutex
	published []publisher.Message
	attempts  map[string]int

	// FailuresPerMessage is how many times Publish fails for each payload
	// before succeeding.
	FailuresPerMessage int

	// Err is returned on failing attempts. Defaults to ErrPublishRejected.
	Err error

	closed bool
}

// ErrPublishRejected is the default failure for RecordingClient.
var ErrPublishRejected = errPublishRejected{}

type errPublishRejected struct{}

func (errPublishRejected) Error() string { return "publish rejected" }

func (r *RecordingClient) Publish(_ context.Context, msg publisher.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attempts == nil {
		r.attempts = make(map[string]int)
	}
	r.attempts[msg.Payload]++
	if r.attempts[msg.Payload] <= r.FailuresPerMessage {
		if r.Err != nil {
			return r.Err
		}
		return ErrPublishRejected
	}
	r.published = append(r.published, msg)
	return nil
}

func (r *RecordingClient) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// Published returns a copy of the successfully published messages.
func (r *RecordingClient) Published() []publisher.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]publisher.Message, len(r.published))
	copy(out, r.published)
	return out
}

// Attempts returns how many publish attempts were made for payload.
func (r *RecordingClient) Attempts(payload string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts[payload]
}

// Closed reports whether Close was called.
func (r *RecordingClient) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

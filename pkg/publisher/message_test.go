package publisher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhaus/kafka-publisher/pkg/publisher"
)

func TestMessage_StringIncludesDataPayload(t *testing.T) {
	msg := publisher.NewDataMessage("orders", "k1", map[string]string{"h": "v"}, "hello world")
	s := msg.String()
	assert.Contains(t, s, "hello world")
	assert.Contains(t, s, "orders")
	assert.Contains(t, s, "Data")
}

func TestMessage_StringElidesSensitivePayload(t *testing.T) {
	msg := publisher.NewMessage(publisher.KindSensitive, "orders", "k1", nil, "super-secret-token")
	s := msg.String()
	assert.NotContains(t, s, "super-secret-token")
	assert.Contains(t, s, "SENSITIVE")
	assert.Contains(t, s, "orders")
}

func TestMessage_CloneDeepCopiesHeaders(t *testing.T) {
	orig := publisher.NewDataMessage("t", "k", map[string]string{"a": "1"}, "p")
	clone := orig.Clone()

	clone.Headers["a"] = "changed"
	clone.Headers["b"] = "2"

	assert.Equal(t, "1", orig.Headers["a"])
	require.NotContains(t, orig.Headers, "b")
}

func TestMessage_CloneNilHeaders(t *testing.T) {
	orig := publisher.Message{Kind: publisher.KindShutdown}
	clone := orig.Clone()
	assert.Nil(t, clone.Headers)
	assert.Equal(t, publisher.KindShutdown, clone.Kind)
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind publisher.Kind
		want string
	}{
		{publisher.KindData, "Data"},
		{publisher.KindSensitive, "Sensitive"},
		{publisher.KindShutdown, "Shutdown"},
		{publisher.KindLogBrokerDetails, "LogBrokerDetails"},
		{publisher.KindLogBrokerTopicDetails, "LogBrokerTopicDetails"},
		{publisher.Kind(42), "Kind(42)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

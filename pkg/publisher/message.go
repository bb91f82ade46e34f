package publisher

import "fmt"

// Kind identifies how a worker handles a queued message.
type Kind int

const (
	// KindData is a normal publishable message with no logging restrictions.
	KindData Kind = iota
	// KindSensitive is published like KindData but its payload is never logged.
	KindSensitive
	// KindShutdown signals cooperative worker termination.
	KindShutdown
	// KindLogBrokerDetails requests logging of cluster connectivity details.
	// Accepted but not implemented yet.
	KindLogBrokerDetails
	// KindLogBrokerTopicDetails requests logging of per-topic details.
	// Accepted but not implemented yet.
	KindLogBrokerTopicDetails
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "Data"
	case KindSensitive:
		return "Sensitive"
	case KindShutdown:
		return "Shutdown"
	case KindLogBrokerDetails:
		return "LogBrokerDetails"
	case KindLogBrokerTopicDetails:
		return "LogBrokerTopicDetails"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Message is the unit of work carried by the queue.
//
// Topic and Key route the message; Headers are optional string pairs copied
// into the broker envelope at publish time. Payload is opaque.
type Message struct {
	Kind    Kind
	Topic   string
	Key     string
	Headers map[string]string
	Payload string
}

// NewMessage builds a message of the given kind.
func NewMessage(kind Kind, topic, key string, headers map[string]string, payload string) Message {
	return Message{
		Kind:    kind,
		Topic:   topic,
		Key:     key,
		Headers: headers,
		Payload: payload,
	}
}

// NewDataMessage builds a KindData message.
func NewDataMessage(topic, key string, headers map[string]string, payload string) Message {
	return NewMessage(KindData, topic, key, headers, payload)
}

// Clone returns a deep copy, including the headers map.
func (m Message) Clone() Message {
	out := m
	if m.Headers != nil {
		out.Headers = make(map[string]string, len(m.Headers))
		for k, v := range m.Headers {
			out.Headers[k] = v
		}
	}
	return out
}

// String renders the message for logging. Sensitive payloads are elided.
func (m Message) String() string {
	if m.Kind == KindSensitive {
		return fmt.Sprintf("SENSITIVE Message kind=%s topic=%s key=%s headers=%v",
			m.Kind, m.Topic, m.Key, m.Headers)
	}
	return fmt.Sprintf("Message kind=%s topic=%s key=%s headers=%v payload=%s",
		m.Kind, m.Topic, m.Key, m.Headers, m.Payload)
}

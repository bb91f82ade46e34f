package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	confluentKafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/streamhaus/kafka-publisher/pkg/publisher"
)

const (
	queueFullRetryDelay = time.Second
	flushTimeoutMs      = 10000
)

// Client is a synchronous Kafka implementation of publisher.BrokerClient.
//
// Publish blocks until a delivery confirmation is received from Kafka. A
// background goroutine drains producer events so fatal errors are logged.
//
// Close MUST be called at least once to stop the background goroutine and
// flush all in-flight messages.
type Client struct {
	producer   *confluentKafka.Producer
	log        *zap.SugaredLogger
	eventsDone chan struct{}
	closedCh   chan struct{}
	once       sync.Once
}

// NewClient creates a Kafka-backed broker client from the pool settings.
// The context controls the lifetime of the event-monitoring goroutine.
func NewClient(ctx context.Context, cfg publisher.Config, log *zap.SugaredLogger) (*Client, error) {
	p, err := confluentKafka.NewProducer(ProducerConfigMap(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	c := &Client{
		producer:   p,
		log:        log,
		eventsDone: make(chan struct{}),
		closedCh:   make(chan struct{}),
	}
	go c.monitorProducerEvents(ctx)
	return c, nil
}

// Factory returns a publisher.ClientFactory opening one Client per worker.
func Factory(log *zap.SugaredLogger) publisher.ClientFactory {
	return func(ctx context.Context, workerID int, cfg publisher.Config) (publisher.BrokerClient, error) {
		return NewClient(ctx, cfg, log.With("worker", workerID))
	}
}

// Publish synchronously publishes msg and waits for the delivery receipt.
//
// If the producer queue is full the produce call is retried internally with
// a 1 second delay. If the context is canceled before confirmation, Publish
// returns ctx.Err(); the message MAY still be delivered afterwards, so
// retrying callers should tolerate duplicates.
func (c *Client) Publish(ctx context.Context, msg publisher.Message) error {
	deliveryCh := make(chan confluentKafka.Event, 1)
	defer close(deliveryCh)

	topic := msg.Topic
	kMsg := &confluentKafka.Message{
		TopicPartition: confluentKafka.TopicPartition{
			Topic:     &topic,
			Partition: confluentKafka.PartitionAny,
		},
		Key:     []byte(msg.Key),
		Value:   []byte(msg.Payload),
		Headers: convertHeaders(msg.Headers),
	}

	if err := c.produceWithRetry(ctx, kMsg, deliveryCh); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-deliveryCh:
		return c.handleDeliveryEvent(kMsg, e)
	}
}

// Close stops the event goroutine and flushes all pending messages.
// Reaching the flush timeout may result in message loss.
// Calling Close multiple times does nothing.
func (c *Client) Close() {
	c.once.Do(func() {
		c.log.Info("closing kafka client")
		close(c.closedCh)
		<-c.eventsDone

		pending := c.producer.Flush(flushTimeoutMs)
		if pending > 0 {
			c.log.Warnw("flush incomplete, messages will be lost", "pending", pending)
		}
		c.producer.Close()
		c.log.Info("kafka client closed")
	})
}

// produceWithRetry hands the message to librdkafka, retrying only when the
// local producer queue is full. All other produce errors are returned.
func (c *Client) produceWithRetry(
	ctx context.Context,
	msg *confluentKafka.Message,
	deliveryCh chan confluentKafka.Event,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := c.producer.Produce(msg, deliveryCh)
		if err == nil {
			return nil
		}

		kafkaErr, ok := err.(confluentKafka.Error)
		if !ok {
			return fmt.Errorf("failed to produce: %w", err)
		}

		switch kafkaErr.Code() {
		case confluentKafka.ErrQueueFull:
			c.log.Warnw("producer queue full, retrying", "delay", queueFullRetryDelay)
			time.Sleep(queueFullRetryDelay)
			continue
		case confluentKafka.ErrBrokerNotAvailable:
			return fmt.Errorf("broker not available: %w", err)
		case confluentKafka.ErrInvalidMsgSize:
			return fmt.Errorf("invalid message size: %w", err)
		case confluentKafka.ErrInvalidMsg:
			return fmt.Errorf("invalid message: %w", err)
		case confluentKafka.ErrUnknownTopicOrPart:
			return fmt.Errorf("unknown topic or partition: %w", err)
		case confluentKafka.ErrAuthentication:
			return fmt.Errorf("authentication error: %w", err)
		default:
			return fmt.Errorf("failed to produce: %w", err)
		}
	}
}

func (c *Client) handleDeliveryEvent(msg *confluentKafka.Message, ev confluentKafka.Event) error {
	e, ok := ev.(*confluentKafka.Message)
	if !ok {
		// Per-message delivery channels only carry *kafka.Message events.
		return fmt.Errorf("unexpected delivery event: %T", ev)
	}

	if err := e.TopicPartition.Error; err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}

	c.log.Debugw("delivered",
		"topic", *msg.TopicPartition.Topic,
		"partition", e.TopicPartition.Partition,
		"offset", e.TopicPartition.Offset,
	)
	return nil
}

func (c *Client) monitorProducerEvents(ctx context.Context) {
	defer close(c.eventsDone)
	for {
		select {
		case <-ctx.Done():
			c.log.Info("stopping kafka event monitoring, context done")
			return
		case <-c.closedCh:
			c.log.Info("stopping kafka event monitoring, client closed")
			return
		case ev, ok := <-c.producer.Events():
			if !ok {
				c.log.Info("kafka event monitoring, event channel closed")
				return
			}
			switch e := ev.(type) {
			case *confluentKafka.Message:
				// Delivery receipts are handled on per-message channels;
				// anything arriving here was produced without one.
				if e.TopicPartition.Error != nil {
					c.log.Errorw("failed to deliver message", "topicPartition", e.TopicPartition)
				}
			case confluentKafka.Error:
				if e.IsFatal() || e.Code() == confluentKafka.ErrAllBrokersDown {
					c.log.Errorw("fatal kafka error", "code", e.Code(), "error", e)
				} else {
					c.log.Warnw("ignoring kafka error", "code", e.Code(), "error", e)
				}
			default:
				c.log.Warnw("unknown kafka event", "event", e)
			}
		}
	}
}

func convertHeaders(headers map[string]string) []confluentKafka.Header {
	if len(headers) == 0 {
		return nil
	}
	out := make([]confluentKafka.Header, 0, len(headers))
	for k, v := range headers {
		out = append(out, confluentKafka.Header{Key: k, Value: []byte(v)})
	}
	return out
}

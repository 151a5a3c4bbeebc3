package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/shandysiswandi/gocrm/internal/pkg/stacktrace"
)

var (
	// ErrTopicRequired is returned when the topic is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrGroupRequired is returned by drivers that need a consumer group.
	ErrGroupRequired = errors.New("messaging: consumer group is required")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("messaging: client is closed")
)

// HeaderCorrelationID carries the request correlation id across services.
const HeaderCorrelationID = "cID"

// Messaging publishes messages to topics and consumes them.
type Messaging interface {
	io.Closer

	// Publish sends msg to topic.
	Publish(ctx context.Context, topic string, msg Message) error

	// Consume delivers messages from topic to handler until ctx is canceled
	// or the client is closed. It blocks.
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// Message is a broker-agnostic message.
type Message struct {
	// ID is assigned by the broker on receipt when it has one.
	ID string
	// Topic the message was published to.
	Topic string
	// Key is used by Kafka for partitioning. Other drivers ignore it.
	Key []byte
	// Body is the payload.
	Body []byte
	// Headers are string attributes. NSQ has no native headers, they are
	// carried in an envelope.
	Headers map[string]string
	// Timestamp is when the message was published or received.
	Timestamp time.Time
}

// Header returns the header value for key or "".
func (m Message) Header(key string) string {
	return m.Headers[key]
}

type consumeOptions struct {
	group        string
	subscription string
	concurrency  int
	maxInFlight  int
}

// ConsumeOption configures Consume.
type ConsumeOption func(*consumeOptions)

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	co := consumeOptions{concurrency: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	if co.concurrency < 1 {
		co.concurrency = 1
	}
	return co
}

// WithGroup sets the consumer group. It maps to the NATS queue group, the
// Kafka group id, the NSQ channel and, unless WithSubscription is used, the
// Pub/Sub subscription "<topic>-<group>".
func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

// WithSubscription sets the Google Pub/Sub subscription explicitly.
func WithSubscription(subscription string) ConsumeOption {
	return func(o *consumeOptions) { o.subscription = subscription }
}

// WithConcurrency sets how many handler goroutines process messages in parallel.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}

// WithMaxInFlight limits unacknowledged messages (NSQ, Pub/Sub).
func WithMaxInFlight(n int) ConsumeOption {
	return func(o *consumeOptions) { o.maxInFlight = n }
}

func validateConsume(ctx context.Context, topic string, handler Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}

func callHandlerWithRecover(ctx context.Context, driver string, handler Handler, msg Message) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "topic", msg.Topic, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "topic", msg.Topic, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}
	}()

	return handler(ctx, msg)
}

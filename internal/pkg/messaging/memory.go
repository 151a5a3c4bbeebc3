package messaging

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryConfig configures the in-process broker.
type MemoryConfig struct {
	// Buffer is the per group queue length. Publish blocks when it is full.
	Buffer int
}

// Memory is an in-process broker. Every consumer group of a topic receives
// each message once; consumers sharing a group split the messages.
// Messages published to a topic with no consumer are dropped, as with core
// NATS. Failed messages are logged and not redelivered.
type Memory struct {
	buffer int
	seq    atomic.Uint64

	mu     sync.RWMutex
	queues map[string]map[string]chan Message
	done   chan struct{}
	closed bool
}

// NewMemory returns an in-process broker.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 64
	}
	return &Memory{
		buffer: cfg.Buffer,
		queues: make(map[string]map[string]chan Message),
		done:   make(chan struct{}),
	}
}

// Close stops all consumers.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

// Publish fans msg out to every consumer group of topic.
func (m *Memory) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	targets := make([]chan Message, 0, len(m.queues[topic]))
	for _, q := range m.queues[topic] {
		targets = append(targets, q)
	}
	m.mu.RUnlock()

	msg.ID = strconv.FormatUint(m.seq.Add(1), 10)
	msg.Topic = topic
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	for _, q := range targets {
		select {
		case q <- msg:
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return ErrClosed
		}
	}
	return nil
}

func (m *Memory) queue(topic, group string) (chan Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.queues[topic] == nil {
		m.queues[topic] = make(map[string]chan Message)
	}
	q, ok := m.queues[topic][group]
	if !ok {
		q = make(chan Message, m.buffer)
		m.queues[topic][group] = q
	}
	return q, nil
}

// Consume registers the consumer and processes messages until ctx is done or
// the broker is closed. It returns nil on Close and ctx.Err() on cancel.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}

	co := newConsumeOptions(opts...)
	q, err := m.queue(topic, co.group)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case msg := <-q:
					if herr := callHandlerWithRecover(ctx, DriverMemory, handler, msg); herr != nil {
						slog.WarnContext(ctx, "memory message handler failed", "topic", topic, "id", msg.ID, "error", herr)
					}
				}
			}
		})
	}
	wg.Wait()

	select {
	case <-m.done:
		return nil
	default:
		return ctx.Err()
	}
}

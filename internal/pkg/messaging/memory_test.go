package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func waitForGroup(t *testing.T, m *Memory, topic, group string) {
	t.Helper()

	require.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		_, ok := m.queues[topic][group]
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestMemory_PublishConsume(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewMemory(MemoryConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- m.Consume(ctx, "account_created", func(_ context.Context, msg Message) error {
			got <- msg
			return nil
		}, WithGroup("activity"))
	}()
	waitForGroup(t, m, "account_created", "activity")

	err := m.Publish(ctx, "account_created", Message{
		Body:    []byte(`{"id":1}`),
		Headers: map[string]string{HeaderCorrelationID: "cid-1"},
	})
	require.NoError(t, err)

	select {
	case msg := <-got:
		assert.Equal(t, "account_created", msg.Topic)
		assert.Equal(t, "1", msg.ID)
		assert.Equal(t, "cid-1", msg.Header(HeaderCorrelationID))
		assert.JSONEq(t, `{"id":1}`, string(msg.Body))
		assert.False(t, msg.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	require.NoError(t, m.Close())
	require.NoError(t, <-done)
}

func TestMemory_GroupsFanOut(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewMemory(MemoryConfig{Buffer: 4})
	ctx := context.Background()

	var mu sync.Mutex
	seen := map[string]int{}
	var wg sync.WaitGroup
	for _, group := range []string{"a", "b"} {
		wg.Go(func() {
			_ = m.Consume(ctx, "t", func(context.Context, Message) error {
				mu.Lock()
				seen[group]++
				mu.Unlock()
				return nil
			}, WithGroup(group), WithConcurrency(2))
		})
		waitForGroup(t, m, "t", group)
	}

	for range 3 {
		require.NoError(t, m.Publish(ctx, "t", Message{Body: []byte("x")}))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["a"] == 3 && seen["b"] == 3
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Close())
	wg.Wait()
}

func TestMemory_HandlerPanicDoesNotStopConsumer(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewMemory(MemoryConfig{})
	ctx, cancel := context.WithCancel(context.Background())

	calls := make(chan struct{}, 2)
	done := make(chan error, 1)
	go func() {
		done <- m.Consume(ctx, "t", func(context.Context, Message) error {
			calls <- struct{}{}
			panic("boom")
		})
	}()
	waitForGroup(t, m, "t", "")

	require.NoError(t, m.Publish(ctx, "t", Message{}))
	require.NoError(t, m.Publish(ctx, "t", Message{}))

	for range 2 {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("handler not called")
		}
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.NoError(t, m.Close())
}

func TestMemory_Validation(t *testing.T) {
	t.Parallel()

	m := NewMemory(MemoryConfig{})
	ctx := context.Background()
	noop := func(context.Context, Message) error { return nil }

	assert.ErrorIs(t, m.Publish(ctx, "", Message{}), ErrTopicRequired)
	assert.ErrorIs(t, m.Consume(ctx, "", noop), ErrTopicRequired)
	assert.ErrorIs(t, m.Consume(ctx, "t", nil), ErrHandlerRequired)

	// no consumer, dropped
	assert.NoError(t, m.Publish(ctx, "nobody", Message{}))

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Publish(ctx, "t", Message{}), ErrClosed)
	assert.ErrorIs(t, m.Consume(ctx, "t", noop), ErrClosed)
}

func TestCallHandlerWithRecover(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := callHandlerWithRecover(context.Background(), DriverMemory, func(context.Context, Message) error {
		return boom
	}, Message{Topic: "t"})
	assert.ErrorIs(t, err, boom)

	err = callHandlerWithRecover(context.Background(), DriverMemory, func(context.Context, Message) error {
		panic("kaboom")
	}, Message{Topic: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestNewFromDriver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantErr error
	}{
		{name: "memory", driver: " Memory "},
		{name: "unknown", driver: "rabbit", wantErr: ErrUnknownDriver},
		{name: "nats without url", driver: DriverNATS, wantErr: ErrNATSURLRequired},
		{name: "nsq without addr", driver: DriverNSQ, wantErr: ErrNSQProducerAddrRequired},
		{name: "kafka without brokers", driver: DriverKafka, wantErr: ErrKafkaBrokersRequired},
		{name: "pubsub without project", driver: DriverGooglePubSub, wantErr: ErrPubSubProjectIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mq, err := NewFromDriver(context.Background(), tt.driver, tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mq.Close())
		})
	}
}

func TestSubscriptionName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "explicit", subscriptionName("t", consumeOptions{group: "g", subscription: "explicit"}))
	assert.Equal(t, "t-g", subscriptionName("t", consumeOptions{group: "g"}))
	assert.Equal(t, "t", subscriptionName("t", consumeOptions{}))
}

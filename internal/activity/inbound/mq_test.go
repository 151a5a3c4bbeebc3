package inbound_test

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/gocrm/internal/activity/inbound"
	"github.com/shandysiswandi/gocrm/internal/activity/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/shandysiswandi/gocrm/internal/pkg/goroutine"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/messaging"
	"github.com/shandysiswandi/gocrm/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubStringID string

func (s stubStringID) Generate() string { return string(s) }

type consumed struct {
	in  usecase.ConsumeAccountEventInput
	cID string
}

func startConsumers(t *testing.T, names string) (messaging.Messaging, chan consumed) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  activity:
    consumer_names: "`+names+`"
    consumer_concurrency: 2
`))
	require.NoError(t, err)

	broker := messaging.NewMemory(messaging.MemoryConfig{})
	routine := goroutine.NewManager(10)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = broker.Close()
		_ = routine.Wait()
	})

	got := make(chan consumed, 64)
	uc := new(mockUsecase)
	uc.On("ConsumeAccountEvent", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		got <- consumed{
			in:  args.Get(1).(usecase.ConsumeAccountEventInput),
			cID: instrument.GetCorrelationID(ctx),
		}
	}).Return(nil).Maybe()

	err = inbound.RegisterMQConsumer(ctx, cfg, routine, broker, stubStringID("generated-cid"), uc, instrument.NewNoop())
	require.NoError(t, err)

	return broker, got
}

// publishUntilConsumed retries because consumers register asynchronously and
// the in-memory broker drops messages for topics without one.
func publishUntilConsumed(t *testing.T, broker messaging.Messaging, topic string, msg messaging.Message, got chan consumed) consumed {
	t.Helper()

	var out consumed
	require.Eventually(t, func() bool {
		if err := broker.Publish(context.Background(), topic, msg); err != nil {
			return false
		}
		select {
		case out = <-got:
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	return out
}

func TestMQ_AccountEventBecomesActivity(t *testing.T) {
	t.Parallel()

	broker, got := startConsumers(t, event.AccountCreatedConsumerActivity+","+event.AccountUpdatedConsumerActivity)

	out := publishUntilConsumed(t, broker, event.AccountUpdatedDestination, messaging.Message{
		Body: []byte(`{
			"account_id": "10",
			"account_name": "Acme",
			"actor_id": "7",
			"actor_email": "rep@crm.test",
			"occurred_at": "2026-03-04T03:00:00Z"
		}`),
		Headers: map[string]string{messaging.HeaderCorrelationID: "cid-1"},
	}, got)

	assert.Equal(t, "cid-1", out.cID)
	assert.Equal(t, usecase.ConsumeAccountEventInput{
		Event:       event.AccountUpdatedDestination,
		AccountID:   10,
		AccountName: "Acme",
		ActorID:     7,
		ActorEmail:  "rep@crm.test",
		OccurredAt:  time.Date(2026, 3, 4, 3, 0, 0, 0, time.UTC),
	}, out.in)
}

func TestMQ_MissingCorrelationAndTime(t *testing.T) {
	t.Parallel()

	broker, got := startConsumers(t, event.AccountCreatedConsumerActivity)

	out := publishUntilConsumed(t, broker, event.AccountCreatedDestination, messaging.Message{
		Body: []byte(`{"account_id":"11","account_name":"Globex","occurred_at":"yesterday"}`),
	}, got)

	assert.Equal(t, "generated-cid", out.cID)
	assert.Equal(t, int64(11), out.in.AccountID)
	assert.True(t, out.in.OccurredAt.IsZero())
}

func TestMQ_MalformedBodyIsSkipped(t *testing.T) {
	t.Parallel()

	broker, got := startConsumers(t, event.AccountDeletedConsumerActivity)

	first := publishUntilConsumed(t, broker, event.AccountDeletedDestination, messaging.Message{Body: []byte(`{"account_id":"12"}`)}, got)
	assert.Equal(t, int64(12), first.in.AccountID)

	ctx := context.Background()
	require.NoError(t, broker.Publish(ctx, event.AccountDeletedDestination, messaging.Message{Body: []byte(`{"account_id":`)}))
	require.NoError(t, broker.Publish(ctx, event.AccountDeletedDestination, messaging.Message{Body: []byte(`{"account_id":"13"}`)}))

	timeout := time.After(2 * time.Second)
	for {
		select {
		case out := <-got:
			// late duplicates of the retried first message may still arrive
			if out.in.AccountID == 12 {
				continue
			}
			assert.Equal(t, int64(13), out.in.AccountID)
			return
		case <-timeout:
			t.Fatal("well formed message after a malformed one was not consumed")
		}
	}
}

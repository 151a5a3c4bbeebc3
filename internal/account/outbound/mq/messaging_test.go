package mq_test

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/gocrm/internal/account/outbound/mq"
	"github.com/shandysiswandi/gocrm/internal/account/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/messaging"
	"github.com/shandysiswandi/gocrm/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessaging_Publish(t *testing.T) {
	t.Parallel()

	broker := messaging.NewMemory(messaging.MemoryConfig{})
	t.Cleanup(func() { _ = broker.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	got := make(chan messaging.Message, 64)
	for _, topic := range []string{event.AccountCreatedDestination, event.AccountUpdatedDestination, event.AccountDeletedDestination} {
		ready := make(chan struct{})
		go func() {
			close(ready)
			_ = broker.Consume(ctx, topic, func(_ context.Context, msg messaging.Message) error {
				got <- msg
				return nil
			}, messaging.WithGroup("test"))
		}()
		<-ready
	}

	pub := mq.NewMessaging(broker, instrument.NewNoop())
	ev := usecase.AccountEvent{
		AccountID:   1844674407370955161,
		AccountName: "Acme",
		ActorID:     7,
		ActorEmail:  "rep@crm.test",
		OccurredAt:  time.Date(2026, 3, 4, 10, 0, 0, 0, time.FixedZone("WIB", 7*3600)),
	}
	cctx := instrument.SetCorrelationID(context.Background(), "cid-1")

	// consumers register asynchronously, the in-memory broker drops
	// messages for topics without one
	require.Eventually(t, func() bool {
		if err := pub.PublishAccountCreated(cctx, ev); err != nil {
			return false
		}
		select {
		case msg := <-got:
			assert.Equal(t, event.AccountCreatedDestination, msg.Topic)
			assert.Equal(t, "cid-1", msg.Header(messaging.HeaderCorrelationID))
			assert.Equal(t, "1844674407370955161", string(msg.Key))
			assert.JSONEq(t, `{
				"account_id": "1844674407370955161",
				"account_name": "Acme",
				"actor_id": "7",
				"actor_email": "rep@crm.test",
				"occurred_at": "2026-03-04T03:00:00Z"
			}`, string(msg.Body))
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, pub.PublishAccountUpdated(cctx, ev))
	require.NoError(t, pub.PublishAccountDeleted(cctx, ev))
}

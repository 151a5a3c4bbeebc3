package messaging

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startNATS(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	port := nat.Port("4222/tcp")
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			ExposedPorts: []string{string(port)},
			WaitingFor:   wait.ForLog("Server is ready"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	mapped, err := ctr.MappedPort(ctx, port)
	require.NoError(t, err)

	return fmt.Sprintf("nats://%s:%s", host, mapped.Port())
}

func TestNATS_PublishConsume(t *testing.T) {
	url := startNATS(t)

	mq, err := NewNATS(NATSConfig{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mq.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- mq.Consume(ctx, "account_updated", func(_ context.Context, msg Message) error {
			got <- msg
			return nil
		}, WithGroup("activity"))
	}()

	// the subscription is asynchronous, keep publishing until one lands
	require.Eventually(t, func() bool {
		perr := mq.Publish(ctx, "account_updated", Message{
			Body:    []byte(`{"id":7}`),
			Headers: map[string]string{HeaderCorrelationID: "cid-7"},
		})
		if perr != nil {
			return false
		}
		select {
		case msg := <-got:
			assert.Equal(t, "cid-7", msg.Header(HeaderCorrelationID))
			assert.JSONEq(t, `{"id":7}`, string(msg.Body))
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 10*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

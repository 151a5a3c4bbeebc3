package idempotency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocrm/internal/pkg/idempotency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStateTracker_Exec(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}

	ctx := context.Background()
	tracker := idempotency.New(newRedis(t))

	t.Run("first call runs and later calls replay", func(t *testing.T) {
		calls := 0
		fn := func(context.Context) (string, error) {
			calls++
			return "1001", nil
		}

		got, err := tracker.Exec(ctx, "create-1", fn)
		require.NoError(t, err)
		assert.Equal(t, "1001", got)

		got, err = tracker.Exec(ctx, "create-1", fn)
		require.ErrorIs(t, err, idempotency.ErrAlreadyCompleted)
		assert.Equal(t, "1001", got)
		assert.Equal(t, 1, calls)
	})

	t.Run("failure releases the key", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := tracker.Exec(ctx, "create-2", func(context.Context) (string, error) { return "", boom })
		require.ErrorIs(t, err, boom)

		got, err := tracker.Exec(ctx, "create-2", func(context.Context) (string, error) { return "2002", nil })
		require.NoError(t, err)
		assert.Equal(t, "2002", got)
	})

	t.Run("concurrent holder is reported", func(t *testing.T) {
		state, _, err := tracker.Acquire(ctx, "create-3", time.Minute)
		require.NoError(t, err)
		require.Equal(t, idempotency.StateNone, state)

		_, err = tracker.Exec(ctx, "create-3", func(context.Context) (string, error) { return "x", nil })
		require.ErrorIs(t, err, idempotency.ErrAlreadyInProgress)
	})
}

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/region/entity"
	"github.com/shandysiswandi/gocrm/internal/region/outbound/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "region:states:US", cache.Key("US"))
	assert.Equal(t, "region:states:all", cache.Key(""))
}

func TestCache_States(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
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

	c := cache.New(client, instrument.NewNoop())

	_, found, err := c.GetStates(ctx, "US")
	require.NoError(t, err)
	assert.False(t, found)

	states := []entity.State{
		{ID: 1, Code: "AL", Name: "Alabama", CountryCode: "US"},
		{ID: 2, Code: "AK", Name: "Alaska", CountryCode: "US"},
	}
	require.NoError(t, c.SetStates(ctx, "US", states, time.Minute))

	got, found, err := c.GetStates(ctx, "US")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, states, got)

	ttl, err := client.TTL(ctx, "region:states:US").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, client.Set(ctx, "region:states:CA", "not json", 0).Err())
	_, _, err = c.GetStates(ctx, "CA")
	require.Error(t, err)
}

package uid_test

import (
	"slices"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shandysiswandi/gocrm/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_UniqueAndOrdered(t *testing.T) {
	t.Parallel()

	gen, err := uid.NewSnowflake(1)
	require.NoError(t, err)

	prev := gen.Generate()
	for range 1000 {
		next := gen.Generate()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestSnowflake_Concurrent(t *testing.T) {
	t.Parallel()

	gen, err := uid.NewSnowflake(2)
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{})
		wg   sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				id := gen.Generate()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1600)
}

func TestNewSnowflake_InvalidNode(t *testing.T) {
	t.Parallel()

	_, err := uid.NewSnowflake(4096)
	require.Error(t, err)
}

func TestUUID_Generate(t *testing.T) {
	t.Parallel()

	var gen uid.StringID = uid.NewUUID()
	id, err := uuid.Parse(gen.Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, gen.Generate(), gen.Generate())
}

func TestUUID_SortsByCreation(t *testing.T) {
	t.Parallel()

	gen := uid.NewUUID()
	ids := make([]string, 0, 100)
	for range 100 {
		ids = append(ids, gen.Generate())
	}

	assert.True(t, slices.IsSorted(ids))
}

package clock_test

import (
	"testing"
	"time"

	"github.com/shandysiswandi/gocrm/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
)

func TestTimeClocker_UTC(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.UTC, clock.New().Now().Location())
}

func TestFixed(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := clock.NewFixed(start)
	assert.Equal(t, start, c.Now())

	c.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), c.Now())
}

package entity_test

import (
	"testing"
	"time"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want entity.Kind
		ok   bool
	}{
		{in: "call", want: entity.KindCall, ok: true},
		{in: " Meeting ", want: entity.KindMeeting, ok: true},
		{in: "NOTE", want: entity.KindNote, ok: true},
		{in: "email", want: entity.KindEmail, ok: true},
		{in: "system", ok: false},
		{in: "", ok: false},
		{in: "fax", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := entity.ParseKind(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActivity_Completed(t *testing.T) {
	t.Parallel()

	now := time.Now()
	assert.False(t, entity.Activity{}.Completed())
	assert.True(t, entity.Activity{CompletedAt: &now}.Completed())
}

package authz_test

import (
	"context"
	"testing"

	"github.com/shandysiswandi/gocrm/internal/pkg/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		entries   []string
		policies  [][]string
		groupings [][]string
		wantErr   bool
	}{
		{
			name:      "policies and groupings",
			entries:   []string{"viewer:account:read", " admin : * : * ", "g:manager:viewer", "viewer:account:read", ""},
			policies:  [][]string{{"viewer", "account", "read"}, {"admin", "*", "*"}},
			groupings: [][]string{{"manager", "viewer"}},
		},
		{name: "too few parts", entries: []string{"viewer:account"}, wantErr: true},
		{name: "empty part", entries: []string{"viewer::read"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, g, err := authz.ParsePolicies(tt.entries)
			if tt.wantErr {
				require.ErrorIs(t, err, authz.ErrInvalidPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.policies, p)
			assert.Equal(t, tt.groupings, g)
		})
	}
}

func TestNew_Enforce(t *testing.T) {
	t.Parallel()

	e, err := authz.New(context.Background(), authz.Config{Policies: []string{
		"admin:*:*",
		"viewer:account:read",
		"viewer:activity:read",
		"g:manager:viewer",
		"manager:account:write",
	}})
	require.NoError(t, err)

	tests := []struct {
		sub, obj, act string
		want          bool
	}{
		{"admin", "account", "delete", true},
		{"viewer", "account", "read", true},
		{"viewer", "account", "write", false},
		{"manager", "account", "write", true},
		{"manager", "activity", "read", true},
		{"manager", "account", "delete", false},
		{"", "account", "read", false},
		{"stranger", "account", "read", false},
	}
	for _, tt := range tests {
		ok, err := e.Enforce(tt.sub, tt.obj, tt.act)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "%s %s %s", tt.sub, tt.obj, tt.act)
	}
}

func TestNew_InvalidPolicy(t *testing.T) {
	t.Parallel()

	_, err := authz.New(context.Background(), authz.Config{Policies: []string{"nope"}})
	require.ErrorIs(t, err, authz.ErrInvalidPolicy)
}

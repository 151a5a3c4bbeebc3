package jwt_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/gocrm/internal/pkg/clock"
	"github.com/shandysiswandi/gocrm/internal/pkg/jwt"
	"github.com/shandysiswandi/gocrm/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte(strings.Repeat("k", 64))

func newSigner(t *testing.T, c *clock.Fixed) *jwt.Symmetric {
	t.Helper()

	s, err := jwt.NewHS512(jwt.Config{
		Secret:    secret,
		Issuer:    "gocrm",
		Audiences: []string{"gocrm-dashboard"},
		TTL:       15 * time.Minute,
		Clock:     c,
		UUID:      uid.NewUUID(),
	})
	require.NoError(t, err)
	return s
}

func TestSymmetric_RoundTrip(t *testing.T) {
	t.Parallel()

	c := clock.NewFixed(time.Now().Truncate(time.Second))
	s := newSigner(t, c)

	token, err := s.Generate(jwt.Subject{UserID: 42, Email: "ops@example.com", Role: "admin"})
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ops@example.com", claims.UserEmail)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestSymmetric_Expired(t *testing.T) {
	t.Parallel()

	c := clock.NewFixed(time.Now().Truncate(time.Second))
	s := newSigner(t, c)

	token, err := s.Generate(jwt.Subject{UserID: 1, Role: "viewer"})
	require.NoError(t, err)

	c.Advance(time.Hour)
	_, err = s.Verify(token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSymmetric_Tampered(t *testing.T) {
	t.Parallel()

	s := newSigner(t, clock.NewFixed(time.Now()))
	_, err := s.Verify("not.a.token")
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestNewHS512_ShortSecret(t *testing.T) {
	t.Parallel()

	_, err := jwt.NewHS512(jwt.Config{Secret: []byte("short")})
	require.ErrorIs(t, err, jwt.ErrSigningKeyTooShort)
}

func TestAuthContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Nil(t, jwt.GetAuth(ctx))

	ctx = jwt.SetAuth(ctx, jwt.Claims{UserID: 7, Role: "sales"})
	got := jwt.GetAuth(ctx)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "sales", got.Role)
}

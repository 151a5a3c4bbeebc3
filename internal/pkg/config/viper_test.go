package config_test

import (
	"testing"
	"time"

	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: gocrm
  shutdown_timeout: 15
database:
  max_conns: 8
  migrate: true
instrument:
  log_mask_fields: "authorization, password,,token"
authz:
  policies:
    - admin:account:write
    - " viewer:account:read "
jwt:
  secret: c2VjcmV0
labels: "env:dev,team: crm"
tags:
  tier: gold
  weight: 3
`

func newSample(t *testing.T) *config.Viper {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(sample))
	require.NoError(t, err)
	return cfg
}

func TestViper_Scalars(t *testing.T) {
	t.Parallel()

	cfg := newSample(t)
	assert.Equal(t, "gocrm", cfg.GetString("app.name"))
	assert.Equal(t, 8, cfg.GetInt("database.max_conns"))
	assert.Equal(t, int32(8), cfg.GetInt32("database.max_conns"))
	assert.True(t, cfg.GetBool("database.migrate"))
	assert.Equal(t, 15*time.Second, cfg.GetSecond("app.shutdown_timeout"))
	assert.Equal(t, 15*time.Minute, cfg.GetMinute("app.shutdown_timeout"))
	assert.Equal(t, []byte("secret"), cfg.GetBinary("jwt.secret"))
	assert.True(t, cfg.IsSet("app.name"))
	assert.False(t, cfg.IsSet("app.missing"))
	require.NoError(t, cfg.Close())
}

func TestViper_GetArray(t *testing.T) {
	t.Parallel()

	cfg := newSample(t)
	assert.Equal(t, []string{"authorization", "password", "token"}, cfg.GetArray("instrument.log_mask_fields"))
	assert.Equal(t, []string{"admin:account:write", "viewer:account:read"}, cfg.GetArray("authz.policies"))
	assert.Empty(t, cfg.GetArray("does.not.exist"))
}

func TestViper_GetMap(t *testing.T) {
	t.Parallel()

	cfg := newSample(t)
	assert.Equal(t, map[string]string{"env": "dev", "team": "crm"}, cfg.GetMap("labels"))
	assert.Equal(t, map[string]string{"tier": "gold", "weight": "3"}, cfg.GetMap("tags"))
}

func TestViper_EnvOverride(t *testing.T) {
	t.Setenv("GOCRM_APP_NAME", "from-env")

	cfg, err := config.NewViperFromBytes("yaml", []byte(sample), config.WithEnvPrefix("GOCRM"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GetString("app.name"))
}

func TestNewViperFromBytes_RequiresType(t *testing.T) {
	t.Parallel()

	_, err := config.NewViperFromBytes(" ", []byte(sample))
	require.ErrorIs(t, err, config.ErrConfigType)
}

func TestNewViper_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.NewViper(t.TempDir() + "/absent.yaml")
	require.Error(t, err)
}

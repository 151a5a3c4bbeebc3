package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/shandysiswandi/gocrm/internal/activity/outbound/db"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/migration/migrationtest"
	"github.com/shandysiswandi/gocrm/internal/pkg/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Activities(t *testing.T) {
	pool := migrationtest.NewPool(t)
	repo := db.NewDB(pool, instrument.NewNoop())
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO accounts (id, account_name) VALUES (10, 'Acme'), (11, 'Gone')`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE accounts SET deleted_at = NOW() WHERE id = 11`)
	require.NoError(t, err)

	t.Run("account exists ignores deleted accounts", func(t *testing.T) {
		ok, err := repo.AccountExists(ctx, 10)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.AccountExists(ctx, 11)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	due := base.Add(48 * time.Hour)

	t.Run("create and read back", func(t *testing.T) {
		require.NoError(t, repo.CreateActivity(ctx, entity.Activity{
			ID: 1, AccountID: 10, Kind: entity.KindCall, Subject: "Intro call",
			ContactPhone: "+1 555 123 4567", DueAt: &due, CreatedBy: 7, CreatedAt: base,
		}))
		require.NoError(t, repo.CreateActivity(ctx, entity.Activity{
			ID: 2, AccountID: 10, Kind: entity.KindSystem, Subject: "Account created",
			Metadata: valueobject.Metadata{"event": "account_created", "actor_id": "7"}, CreatedBy: 7, CreatedAt: base.Add(time.Hour),
		}))

		got, err := repo.GetActivityByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, entity.KindCall, got.Kind)
		require.NotNil(t, got.DueAt)
		assert.True(t, due.Equal(*got.DueAt))
		assert.Nil(t, got.CompletedAt)
		assert.Empty(t, got.Metadata)

		got, err = repo.GetActivityByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "account_created", got.Metadata.String("event"))

		_, err = repo.GetActivityByID(ctx, 99)
		require.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("unknown account", func(t *testing.T) {
		err := repo.CreateActivity(ctx, entity.Activity{ID: 3, AccountID: 404, Kind: entity.KindNote, Subject: "x", CreatedAt: base})
		require.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("list newest first with kind filter", func(t *testing.T) {
		got, total, err := repo.GetActivityList(ctx, entity.ActivityListFilter{AccountID: 10, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)

		got, total, err = repo.GetActivityList(ctx, entity.ActivityListFilter{AccountID: 10, Kind: entity.KindCall, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
	})

	t.Run("complete once", func(t *testing.T) {
		require.NoError(t, repo.MarkActivityCompleted(ctx, 1, base.Add(2*time.Hour)))
		require.ErrorIs(t, repo.MarkActivityCompleted(ctx, 1, base.Add(3*time.Hour)), goerror.ErrConflict)
		require.ErrorIs(t, repo.MarkActivityCompleted(ctx, 99, base), goerror.ErrNotFound)

		got, err := repo.GetActivityByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, base.Add(2*time.Hour).Equal(*got.CompletedAt))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteActivity(ctx, 2))
		require.ErrorIs(t, repo.DeleteActivity(ctx, 2), goerror.ErrNotFound)
	})
}

package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
)

// MarkActivityCompleted sets completed_at when it is still empty. It returns
// goerror.ErrConflict when the activity was completed already.
func (s *DB) MarkActivityCompleted(ctx context.Context, id int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkActivityCompleted")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE activities SET completed_at = $2 WHERE id = $1 AND completed_at IS NULL`, id, at)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := s.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM activities WHERE id = $1)`, id).Scan(&exists); err != nil {
		return s.mapError(err)
	}
	if exists {
		return goerror.ErrConflict
	}
	return goerror.ErrNotFound
}

func (s *DB) DeleteActivity(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteActivity")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

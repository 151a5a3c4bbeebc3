package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gocrm/internal/activity/entity"
)

const activityColumns = `id, account_id, kind, subject, notes, contact_email, contact_phone,
	due_at, completed_at, metadata, created_by, created_at`

func scanActivity(row pgx.Row) (entity.Activity, error) {
	var (
		act  entity.Activity
		kind string
	)
	err := row.Scan(
		&act.ID, &act.AccountID, &kind, &act.Subject, &act.Notes, &act.ContactEmail, &act.ContactPhone,
		&act.DueAt, &act.CompletedAt, &act.Metadata, &act.CreatedBy, &act.CreatedAt,
	)
	act.Kind = entity.Kind(kind)
	return act, err
}

func (s *DB) AccountExists(ctx context.Context, accountID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "AccountExists")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	err = s.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1 AND deleted_at IS NULL)`, accountID).Scan(&exists)
	if err != nil {
		return false, s.mapError(err)
	}

	return exists, nil
}

func (s *DB) GetActivityByID(ctx context.Context, id int64) (_ *entity.Activity, err error) {
	ctx, span := s.startSpan(ctx, "GetActivityByID")
	defer func() { s.endSpan(span, err) }()

	act, err := scanActivity(s.conn.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return &act, nil
}

func (s *DB) GetActivityList(ctx context.Context, filter entity.ActivityListFilter) (_ []entity.Activity, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetActivityList")
	defer func() { s.endSpan(span, err) }()

	// an empty kind matches every kind
	const where = ` FROM activities WHERE account_id = $1 AND ($2::text = '' OR kind = $2::text)`
	args := []any{filter.AccountID, string(filter.Kind)}

	var total int64
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	rows, err := s.conn.Query(ctx, `SELECT `+activityColumns+where+` ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		append(args, filter.Size, filter.Offset)...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	activities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Activity, error) {
		return scanActivity(row)
	})
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	return activities, total, nil
}

package db

import (
	"context"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
)

func (s *DB) CreateActivity(ctx context.Context, act entity.Activity) (err error) {
	ctx, span := s.startSpan(ctx, "CreateActivity")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `INSERT INTO activities (`+activityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		act.ID, act.AccountID, string(act.Kind), act.Subject, act.Notes, act.ContactEmail, act.ContactPhone,
		act.DueAt, act.CompletedAt, act.Metadata, act.CreatedBy, act.CreatedAt,
	)
	err = s.mapError(err)
	return err
}

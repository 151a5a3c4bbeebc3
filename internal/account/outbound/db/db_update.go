package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
)

func (s *DB) UpdateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccount")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE accounts SET
		account_name = $2, email = $3, primary_phone = $4, website = $5, industry = $6, account_type = $7,
		city = $8, state_id = $9, country = $10, description = $11, number_of_employees = $12,
		annual_revenue = $13, number_of_venues = $14, number_of_releases = $15,
		number_of_events_per_year = $16, updated_by = $17, updated_at = $18
		WHERE id = $1 AND deleted_at IS NULL`,
		acc.ID, acc.AccountName, acc.Email, acc.PrimaryPhone, acc.Website, acc.Industry, string(acc.AccountType),
		acc.City, acc.StateID, acc.Country, acc.Description, acc.NumberOfEmployees,
		acc.AnnualRevenue, acc.NumberOfVenues, acc.NumberOfReleases,
		acc.NumberOfEventsPerYear, acc.UpdatedBy, acc.UpdatedAt,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) MarkAccountDeleted(ctx context.Context, id, byID int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkAccountDeleted")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE accounts SET deleted_at = $3, updated_by = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, byID, at)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

package db

import (
	"context"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
)

func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		acc.ID, acc.AccountName, acc.Email, acc.PrimaryPhone, acc.Website, acc.Industry, string(acc.AccountType),
		acc.City, acc.StateID, acc.Country, acc.Description, acc.NumberOfEmployees, acc.AnnualRevenue,
		acc.NumberOfVenues, acc.NumberOfReleases, acc.NumberOfEventsPerYear,
		acc.CreatedBy, acc.UpdatedBy, acc.CreatedAt, acc.UpdatedAt,
	)
	err = s.mapError(err)
	return err
}

package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gocrm/internal/account/entity"
)

const accountColumns = `id, account_name, email, primary_phone, website, industry, account_type,
	city, state_id, country, description, number_of_employees, annual_revenue,
	number_of_venues, number_of_releases, number_of_events_per_year,
	created_by, updated_by, created_at, updated_at`

func scanAccount(row pgx.Row) (entity.Account, error) {
	var (
		acc         entity.Account
		accountType string
	)
	err := row.Scan(
		&acc.ID, &acc.AccountName, &acc.Email, &acc.PrimaryPhone, &acc.Website, &acc.Industry, &accountType,
		&acc.City, &acc.StateID, &acc.Country, &acc.Description, &acc.NumberOfEmployees, &acc.AnnualRevenue,
		&acc.NumberOfVenues, &acc.NumberOfReleases, &acc.NumberOfEventsPerYear,
		&acc.CreatedBy, &acc.UpdatedBy, &acc.CreatedAt, &acc.UpdatedAt,
	)
	acc.AccountType = entity.AccountType(accountType)
	return acc, err
}

func (s *DB) GetAccountByID(ctx context.Context, id int64) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByID")
	defer func() { s.endSpan(span, err) }()

	acc, err := scanAccount(s.conn.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return &acc, nil
}

// listWhere renders the filter as a WHERE clause over live accounts.
func listWhere(filter entity.AccountListFilter) (string, []any) {
	conds := []string{"deleted_at IS NULL"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, "(account_name ILIKE "+p+" OR email ILIKE "+p+")")
	}
	if filter.Industry != "" {
		conds = append(conds, "LOWER(industry) = LOWER("+arg(filter.Industry)+")")
	}
	if filter.StateID > 0 {
		conds = append(conds, "state_id = "+arg(filter.StateID))
	}
	if filter.AccountType != "" {
		conds = append(conds, "account_type = "+arg(string(filter.AccountType)))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *DB) GetAccountList(ctx context.Context, filter entity.AccountListFilter) (_ []entity.Account, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountList")
	defer func() { s.endSpan(span, err) }()

	where, args := listWhere(filter)

	var total int64
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`+where, args...).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	// the sort column and direction come from fixed sets, never from input
	order := " ORDER BY " + entity.SortColumn(filter.SortBy) + " " + entity.SortDirection(filter.SortOrder) +
		" NULLS LAST, id " + entity.SortDirection(filter.SortOrder)
	page := " LIMIT " + strconv.Itoa(int(filter.Size)) + " OFFSET " + strconv.Itoa(int(filter.Offset))

	rows, err := s.conn.Query(ctx, `SELECT `+accountColumns+` FROM accounts`+where+order+page, args...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	return accounts, total, nil
}

func (s *DB) GetAccountSummary(ctx context.Context) (_ *entity.AccountSummary, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountSummary")
	defer func() { s.endSpan(span, err) }()

	batch := &pgx.Batch{}
	batch.Queue(`SELECT COUNT(*), COALESCE(SUM(annual_revenue), 0)::BIGINT, COALESCE(SUM(number_of_employees), 0)::BIGINT
		FROM accounts WHERE deleted_at IS NULL`)
	batch.Queue(`SELECT COALESCE(NULLIF(industry, ''), 'Unspecified') AS k, COUNT(*)
		FROM accounts WHERE deleted_at IS NULL GROUP BY k ORDER BY COUNT(*) DESC, k`)
	batch.Queue(`SELECT account_type, COUNT(*)
		FROM accounts WHERE deleted_at IS NULL GROUP BY account_type ORDER BY COUNT(*) DESC, account_type`)
	batch.Queue(`SELECT COALESCE(st.name, 'Unspecified') AS k, COUNT(*)
		FROM accounts a LEFT JOIN states st ON st.id = a.state_id
		WHERE a.deleted_at IS NULL GROUP BY k ORDER BY COUNT(*) DESC, k`)

	br := s.conn.SendBatch(ctx, batch)
	defer func() {
		if cerr := br.Close(); cerr != nil && err == nil {
			err = s.mapError(cerr)
		}
	}()

	var summary entity.AccountSummary
	if err := br.QueryRow().Scan(&summary.TotalAccounts, &summary.TotalRevenue, &summary.TotalEmployees); err != nil {
		return nil, s.mapError(err)
	}

	for _, dst := range []*[]entity.Bucket{&summary.ByIndustry, &summary.ByAccountType, &summary.ByState} {
		rows, err := br.Query()
		if err != nil {
			return nil, s.mapError(err)
		}
		buckets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Bucket, error) {
			var b entity.Bucket
			err := row.Scan(&b.Key, &b.Count)
			return b, err
		})
		if err != nil {
			return nil, s.mapError(err)
		}
		*dst = buckets
	}

	return &summary, nil
}

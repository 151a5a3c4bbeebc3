package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gocrm/internal/region/entity"
)

func scanState(row pgx.CollectableRow) (entity.State, error) {
	var st entity.State
	err := row.Scan(&st.ID, &st.Code, &st.Name, &st.CountryCode)
	return st, err
}

func (s *DB) GetStateByID(ctx context.Context, id int64) (_ *entity.State, err error) {
	ctx, span := s.startSpan(ctx, "GetStateByID")
	defer func() { s.endSpan(span, err) }()

	var st entity.State
	err = s.conn.QueryRow(ctx,
		`SELECT id, code, name, country_code FROM states WHERE id = $1`, id).
		Scan(&st.ID, &st.Code, &st.Name, &st.CountryCode)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &st, nil
}

// GetStateList returns the states of country ordered by name. An empty
// country returns every state.
func (s *DB) GetStateList(ctx context.Context, country string) (_ []entity.State, err error) {
	ctx, span := s.startSpan(ctx, "GetStateList")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT id, code, name, country_code FROM states
		WHERE ($1::text = '' OR country_code = $1::text)
		ORDER BY country_code, name`, country)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanState)
}

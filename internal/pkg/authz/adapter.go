package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
	"github.com/jackc/pgx/v5"
)

// ErrReadOnly is returned by the mutating adapter methods. Rules are managed
// through migrations.
var ErrReadOnly = errors.New("authz: adapter is read only")

const selectRules = "SELECT ptype, v0, v1, v2 FROM authz_rules ORDER BY id"

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Adapter loads casbin rules from the authz_rules table.
type Adapter struct {
	db Querier
}

var _ persist.Adapter = (*Adapter)(nil)

// NewAdapter returns a read-only adapter over db.
func NewAdapter(db Querier) *Adapter {
	return &Adapter{db: db}
}

// LoadPolicy loads every row into m.
func (a *Adapter) LoadPolicy(m model.Model) error {
	return a.LoadPolicyCtx(context.Background(), m)
}

// LoadPolicyCtx loads every row into m.
func (a *Adapter) LoadPolicyCtx(ctx context.Context, m model.Model) error {
	rows, err := a.db.Query(ctx, selectRules)
	if err != nil {
		return fmt.Errorf("authz: select rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ptype, v0, v1, v2 string
		if err := rows.Scan(&ptype, &v0, &v1, &v2); err != nil {
			return fmt.Errorf("authz: scan rule: %w", err)
		}

		rule := []string{ptype, v0, v1}
		if ptype != "g" {
			rule = append(rule, v2)
		}
		if err := persist.LoadPolicyArray(rule, m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (a *Adapter) SavePolicy(model.Model) error {
	return ErrReadOnly
}

func (a *Adapter) AddPolicy(string, string, []string) error {
	return ErrReadOnly
}

func (a *Adapter) RemovePolicy(string, string, []string) error {
	return ErrReadOnly
}

func (a *Adapter) RemoveFilteredPolicy(string, string, int, ...string) error {
	return ErrReadOnly
}

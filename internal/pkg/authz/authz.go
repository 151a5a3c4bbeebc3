// Package authz builds the casbin RBAC enforcer used by the usecases.
//
// Requests are (role, object, action). Policies come from two places: rows
// of the authz_rules table and "role:object:action" entries in config.
// Entries of the form "g:role:parent" make role inherit parent.
package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
)

// Wildcard matches any object or action.
const Wildcard = "*"

// ErrInvalidPolicy is returned for config entries that cannot be parsed.
var ErrInvalidPolicy = errors.New("authz: invalid policy")

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Enforcer is the part of *casbin.Enforcer the usecases need.
type Enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

// Config configures New.
type Config struct {
	// Policies are "role:object:action" or "g:role:parent" entries.
	Policies []string
	// Adapter loads stored policies. Nil means config only.
	Adapter persist.Adapter
}

// New returns an enforcer holding the stored and configured policies.
// Policies added from config are kept in memory only.
func New(_ context.Context, cfg Config) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz: model: %w", err)
	}

	var e *casbin.Enforcer
	if cfg.Adapter != nil {
		e, err = casbin.NewEnforcer(m, cfg.Adapter)
	} else {
		e, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("authz: enforcer: %w", err)
	}
	e.EnableAutoSave(false)

	policies, groupings, err := ParsePolicies(cfg.Policies)
	if err != nil {
		return nil, err
	}
	if len(policies) > 0 {
		if _, err := e.AddPolicies(policies); err != nil {
			return nil, fmt.Errorf("authz: add policies: %w", err)
		}
	}
	if len(groupings) > 0 {
		if _, err := e.AddGroupingPolicies(groupings); err != nil {
			return nil, fmt.Errorf("authz: add groupings: %w", err)
		}
	}

	return e, nil
}

// ParsePolicies splits config entries into policy and grouping rules.
// Duplicates are dropped.
func ParsePolicies(entries []string) (policies, groupings [][]string, err error) {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, entry)
		}

		key := strings.Join(parts, ":")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if parts[0] == "g" {
			groupings = append(groupings, parts[1:])
			continue
		}
		policies = append(policies, parts)
	}
	return policies, groupings, nil
}

package region

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocrm/internal/pkg/authz"
	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/router"
	"github.com/shandysiswandi/gocrm/internal/pkg/validator"
	"github.com/shandysiswandi/gocrm/internal/region/inbound"
	"github.com/shandysiswandi/gocrm/internal/region/outbound/cache"
	"github.com/shandysiswandi/gocrm/internal/region/outbound/db"
	"github.com/shandysiswandi/gocrm/internal/region/usecase"
)

// StateChecker is what other modules get from region.
type StateChecker interface {
	StateExists(ctx context.Context, id int64) (bool, error)
}

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Redis      redis.UniversalClient      `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Enforcer   authz.Enforcer             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	// ServeHTTP registers the /api/v1/states endpoints. The state checker is
	// returned either way since accounts depend on it.
	ServeHTTP bool
}

func New(dep Dependency) (StateChecker, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		RepoCache:  cache.New(dep.Redis, dep.Instrument),
		Validator:  dep.Validator,
		Config:     dep.Config,
		Instrument: dep.Instrument,
		Enforcer:   dep.Enforcer,
	})

	if dep.ServeHTTP {
		inbound.RegisterHTTPEndpoint(dep.Router, uc)
	}

	return uc, nil
}

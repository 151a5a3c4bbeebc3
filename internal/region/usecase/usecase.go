package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gocrm/internal/pkg/authz"
	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/jwt"
	"github.com/shandysiswandi/gocrm/internal/pkg/validator"
	"github.com/shandysiswandi/gocrm/internal/region/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetStateByID(ctx context.Context, id int64) (*entity.State, error)
	GetStateList(ctx context.Context, country string) ([]entity.State, error)
}

type repoCache interface {
	GetStates(ctx context.Context, country string) ([]entity.State, bool, error)
	SetStates(ctx context.Context, country string, states []entity.State, ttl time.Duration) error
}

type Usecase struct {
	repoDB    repoDB
	repoCache repoCache
	validator validator.Validator
	cfg       config.Config
	ins       instrument.Instrumentation
	enforcer  authz.Enforcer
}

type Dependency struct {
	RepoDB     repoDB
	RepoCache  repoCache
	Validator  validator.Validator
	Config     config.Config
	Instrument instrument.Instrumentation
	Enforcer   authz.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		repoCache: dep.RepoCache,
		validator: dep.Validator,
		cfg:       dep.Config,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("region.usecase").Start(ctx, name)
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce(clm.Role, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.UserID, "role", clm.Role, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("Region not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

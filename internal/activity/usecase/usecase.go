package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/authz"
	"github.com/shandysiswandi/gocrm/internal/pkg/clock"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/jwt"
	"github.com/shandysiswandi/gocrm/internal/pkg/uid"
	"github.com/shandysiswandi/gocrm/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	AccountExists(ctx context.Context, accountID int64) (bool, error)

	GetActivityByID(ctx context.Context, id int64) (*entity.Activity, error)
	GetActivityList(ctx context.Context, filter entity.ActivityListFilter) ([]entity.Activity, int64, error)

	CreateActivity(ctx context.Context, act entity.Activity) error
	MarkActivityCompleted(ctx context.Context, id int64, at time.Time) error
	DeleteActivity(ctx context.Context, id int64) error
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
	enforcer  authz.Enforcer
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Enforcer   authz.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("activity.usecase").Start(ctx, name)
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
		return nil, goerror.NewBusiness("Activity not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

func (s *Usecase) ensureAccount(ctx context.Context, accountID int64) error {
	exists, err := s.repoDB.AccountExists(ctx, accountID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check account exists", "account_id", accountID, "error", err)
		return goerror.NewServer(err)
	}
	if !exists {
		return goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	return nil
}

func (s *Usecase) getActivity(ctx context.Context, id int64) (*entity.Activity, error) {
	act, err := s.repoDB.GetActivityByID(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Activity not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get activity by id", "activity_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	return act, nil
}

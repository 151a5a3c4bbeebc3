package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/authz"
	"github.com/shandysiswandi/gocrm/internal/pkg/clock"
	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/idempotency"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/jwt"
	"github.com/shandysiswandi/gocrm/internal/pkg/storage"
	"github.com/shandysiswandi/gocrm/internal/pkg/uid"
	"github.com/shandysiswandi/gocrm/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type AccountEvent struct {
	AccountID   int64
	AccountName string
	ActorID     int64
	ActorEmail  string
	OccurredAt  time.Time
}

type repoMessaging interface {
	PublishAccountCreated(ctx context.Context, ev AccountEvent) error
	PublishAccountUpdated(ctx context.Context, ev AccountEvent) error
	PublishAccountDeleted(ctx context.Context, ev AccountEvent) error
}

type repoDB interface {
	GetAccountByID(ctx context.Context, id int64) (*entity.Account, error)
	GetAccountList(ctx context.Context, filter entity.AccountListFilter) ([]entity.Account, int64, error)
	GetAccountSummary(ctx context.Context) (*entity.AccountSummary, error)

	CreateAccount(ctx context.Context, acc entity.Account) error
	UpdateAccount(ctx context.Context, acc entity.Account) error
	MarkAccountDeleted(ctx context.Context, id, byID int64, at time.Time) error
}

// stateChecker is served by the region module.
type stateChecker interface {
	StateExists(ctx context.Context, id int64) (bool, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	states        stateChecker
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	storage       storage.Storage
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	enforcer      authz.Enforcer
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	States        stateChecker
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Storage       storage.Storage
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Enforcer      authz.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		states:        dep.States,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		storage:       dep.Storage,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
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
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

func (s *Usecase) getAccount(ctx context.Context, id int64) (*entity.Account, error) {
	acc, err := s.repoDB.GetAccountByID(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by id", "account_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	return acc, nil
}

func (s *Usecase) accountEvent(clm *jwt.Claims, acc entity.Account, at time.Time) AccountEvent {
	return AccountEvent{
		AccountID:   acc.ID,
		AccountName: acc.AccountName,
		ActorID:     clm.UserID,
		ActorEmail:  clm.UserEmail,
		OccurredAt:  at,
	}
}

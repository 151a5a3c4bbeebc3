package account

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gocrm/internal/account/inbound"
	"github.com/shandysiswandi/gocrm/internal/account/outbound/db"
	"github.com/shandysiswandi/gocrm/internal/account/outbound/mq"
	"github.com/shandysiswandi/gocrm/internal/account/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/authz"
	"github.com/shandysiswandi/gocrm/internal/pkg/clock"
	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/shandysiswandi/gocrm/internal/pkg/idempotency"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/messaging"
	"github.com/shandysiswandi/gocrm/internal/pkg/router"
	"github.com/shandysiswandi/gocrm/internal/pkg/storage"
	"github.com/shandysiswandi/gocrm/internal/pkg/uid"
	"github.com/shandysiswandi/gocrm/internal/pkg/validator"
)

// stateChecker is served by the region module.
type stateChecker interface {
	StateExists(ctx context.Context, id int64) (bool, error)
}

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	States      stateChecker               `validate:"required"`
	Enforcer    authz.Enforcer             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Storage     storage.Storage            `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAccount := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAccount,
		RepoMessaging: repoMsg,
		States:        dep.States,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Storage:       dep.Storage,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

package activity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gocrm/internal/activity/inbound"
	"github.com/shandysiswandi/gocrm/internal/activity/outbound/db"
	"github.com/shandysiswandi/gocrm/internal/activity/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/authz"
	"github.com/shandysiswandi/gocrm/internal/pkg/clock"
	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/shandysiswandi/gocrm/internal/pkg/goroutine"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/messaging"
	"github.com/shandysiswandi/gocrm/internal/pkg/router"
	"github.com/shandysiswandi/gocrm/internal/pkg/uid"
	"github.com/shandysiswandi/gocrm/internal/pkg/validator"
)

type Dependency struct {
	// Ctx scopes the consumers. Without it only the HTTP endpoints are registered.
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	Router     *router.Router
	Enforcer   authz.Enforcer
	Messaging  messaging.Messaging
	Goroutine  *goroutine.Manager
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Validator  validator.Validator
}

func New(dep Dependency) error {
	dbActivity := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbActivity,
		Validator:  dep.Validator,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
		Enforcer:   dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		return inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}

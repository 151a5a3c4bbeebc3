package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gocrm/internal/account"
	"github.com/shandysiswandi/gocrm/internal/activity"
	"github.com/shandysiswandi/gocrm/internal/region"
)

func (a *App) initModules() {
	// accounts validate state_id through region, so it is always built
	states, err := region.New(region.Dependency{
		DBConn:     a.dbConn,
		Redis:      a.cacheConn,
		Router:     a.router,
		Enforcer:   a.casbin,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		ServeHTTP:  a.config.GetBool("modules.region.enabled"),
	})
	if err != nil {
		slog.Error("failed to init module region", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.account.enabled") {
		if err := account.New(account.Dependency{
			DBConn:      a.dbConn,
			Router:      a.router,
			States:      states,
			Enforcer:    a.casbin,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Storage:     a.storage,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module account", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.activity.enabled") {
		if err := activity.New(activity.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Router:     a.router,
			Enforcer:   a.casbin,
			Messaging:  a.messaging,
			Goroutine:  a.goroutine,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module activity", "error", err)
			os.Exit(1)
		}
	}
}

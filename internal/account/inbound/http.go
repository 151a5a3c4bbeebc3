package inbound

import (
	"context"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/account/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
	"github.com/shandysiswandi/gocrm/internal/pkg/router"
)

type uc interface {
	AccountRules(ctx context.Context) fieldrule.RuleSet
	AccountValidate(ctx context.Context, in usecase.AccountValidateInput) error

	AccountList(ctx context.Context, in usecase.AccountListInput) (*usecase.AccountListOutput, error)
	AccountDetail(ctx context.Context, in usecase.AccountDetailInput) (*entity.Account, error)
	AccountCreate(ctx context.Context, in usecase.AccountCreateInput) (*entity.Account, error)
	AccountUpdate(ctx context.Context, in usecase.AccountUpdateInput) (*entity.Account, error)
	AccountDelete(ctx context.Context, in usecase.AccountDeleteInput) error

	AccountSummary(ctx context.Context) (*entity.AccountSummary, error)
	AccountExport(ctx context.Context, in usecase.AccountExportInput) (*usecase.AccountExportOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Rule publication (public) and pre-flight validation
	r.GET("/api/v1/accounts-rules", end.AccountRules)
	r.POST("/api/v1/accounts-validate", end.AccountValidate)

	// Accounts (need authenticated & authorization)
	r.GET("/api/v1/accounts", end.AccountList)
	r.GET("/api/v1/accounts/:id", end.AccountDetail)
	r.POST("/api/v1/accounts", end.AccountCreate)
	r.PUT("/api/v1/accounts/:id", end.AccountUpdate)
	r.DELETE("/api/v1/accounts/:id", end.AccountDelete)

	// Reporting
	r.GET("/api/v1/accounts-summary", end.AccountSummary)
	r.POST("/api/v1/accounts-export", end.AccountExport)
}

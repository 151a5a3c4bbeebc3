package inbound

import (
	"context"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/shandysiswandi/gocrm/internal/activity/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/router"
)

type uc interface {
	ActivityCreate(ctx context.Context, in usecase.ActivityCreateInput) (*entity.Activity, error)
	ActivityList(ctx context.Context, in usecase.ActivityListInput) (*usecase.ActivityListOutput, error)
	ActivityComplete(ctx context.Context, in usecase.ActivityCompleteInput) (*entity.Activity, error)
	ActivityDelete(ctx context.Context, in usecase.ActivityDeleteInput) error

	ConsumeAccountEvent(ctx context.Context, in usecase.ConsumeAccountEventInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Activities of an account (need authenticated & authorization)
	r.GET("/api/v1/accounts/:id/activities", end.ActivityList)
	r.POST("/api/v1/accounts/:id/activities", end.ActivityCreate)

	r.POST("/api/v1/activities/:id/complete", end.ActivityComplete)
	r.DELETE("/api/v1/activities/:id", end.ActivityDelete)
}

package inbound

import (
	"context"

	"github.com/shandysiswandi/gocrm/internal/pkg/router"
	"github.com/shandysiswandi/gocrm/internal/region/entity"
	"github.com/shandysiswandi/gocrm/internal/region/usecase"
)

type uc interface {
	StateList(ctx context.Context, in usecase.StateListInput) ([]entity.State, error)
	StateDetail(ctx context.Context, in usecase.StateDetailInput) (*entity.State, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// States and provinces (need authenticated & authorization)
	r.GET("/api/v1/states", end.StateList)
	r.GET("/api/v1/states/:id", end.StateDetail)
}

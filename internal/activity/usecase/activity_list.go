package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ActivityListInput struct {
	AccountID int64  `validate:"gt=0"`
	Kind      string `validate:"omitempty,oneof_ci=call email meeting note system"`
	Page      int32  `validate:"gte=0"`
	Size      int32  `validate:"gte=0"`
}

type ActivityListOutput struct {
	Activities []entity.Activity
	Total      int64
	Page       int32
	Size       int32
}

// ActivityList returns an account's activities, newest first.
func (s *Usecase) ActivityList(ctx context.Context, in ActivityListInput) (*ActivityListOutput, error) {
	ctx, span := s.startSpan(ctx, "ActivityList")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermObjActivity, constant.PermActRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.ensureAccount(ctx, in.AccountID); err != nil {
		return nil, err
	}

	page := max(in.Page, 1)
	size := in.Size
	if size <= 0 {
		size = defaultPageSize
	}
	size = min(size, maxPageSize)

	activities, total, err := s.repoDB.GetActivityList(ctx, entity.ActivityListFilter{
		AccountID: in.AccountID,
		Kind:      entity.Kind(strings.ToLower(strings.TrimSpace(in.Kind))),
		Size:      size,
		Offset:    (page - 1) * size,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get activity list", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ActivityListOutput{
		Activities: activities,
		Total:      total,
		Page:       page,
		Size:       size,
	}, nil
}

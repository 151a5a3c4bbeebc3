package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

type ActivityCompleteInput struct {
	ID int64 `validate:"gt=0"`
}

// ActivityComplete sets the completion time once.
func (s *Usecase) ActivityComplete(ctx context.Context, in ActivityCompleteInput) (*entity.Activity, error) {
	ctx, span := s.startSpan(ctx, "ActivityComplete")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermObjActivity, constant.PermActWrite); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	act, err := s.getActivity(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if act.Completed() {
		return nil, goerror.NewBusiness("Activity already completed", goerror.CodeConflict)
	}

	now := s.clock.Now()
	if err := s.repoDB.MarkActivityCompleted(ctx, act.ID, now); err != nil {
		switch {
		case errors.Is(err, goerror.ErrConflict):
			return nil, goerror.NewBusiness("Activity already completed", goerror.CodeConflict)
		case errors.Is(err, goerror.ErrNotFound):
			return nil, goerror.NewBusiness("Activity not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo mark activity completed", "activity_id", act.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	act.CompletedAt = &now
	return act, nil
}

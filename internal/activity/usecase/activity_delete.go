package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

type ActivityDeleteInput struct {
	ID int64 `validate:"gt=0"`
}

func (s *Usecase) ActivityDelete(ctx context.Context, in ActivityDeleteInput) error {
	ctx, span := s.startSpan(ctx, "ActivityDelete")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermObjActivity, constant.PermActDelete); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.repoDB.DeleteActivity(ctx, in.ID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("Activity not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo delete activity", "activity_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

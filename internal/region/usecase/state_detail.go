package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/region/entity"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

type StateDetailInput struct {
	ID int64 `validate:"gt=0"`
}

func (s *Usecase) StateDetail(ctx context.Context, in StateDetailInput) (*entity.State, error) {
	ctx, span := s.startSpan(ctx, "StateDetail")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermObjRegion, constant.PermActRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	st, err := s.repoDB.GetStateByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("State not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get state by id", "state_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return st, nil
}

// StateExists serves other modules and does no authorization of its own.
func (s *Usecase) StateExists(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.startSpan(ctx, "StateExists")
	defer span.End()

	if id <= 0 {
		return false, nil
	}

	_, err := s.repoDB.GetStateByID(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

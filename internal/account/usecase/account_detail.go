package usecase

import (
	"context"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

type AccountDetailInput struct {
	ID int64 `validate:"gt=0"`
}

func (s *Usecase) AccountDetail(ctx context.Context, in AccountDetailInput) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "AccountDetail")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermObjAccount, constant.PermActRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.getAccount(ctx, in.ID)
}

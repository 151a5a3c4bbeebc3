package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

type AccountUpdateInput struct {
	ID     int64 `validate:"gt=0"`
	Record fieldrule.Record
}

// AccountUpdate replaces the editable data of an account.
func (s *Usecase) AccountUpdate(ctx context.Context, in AccountUpdateInput) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "AccountUpdate")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermObjAccount, constant.PermActWrite)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	current, err := s.getAccount(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	data, err := s.checkRecord(ctx, in.Record)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	acc := *current
	acc.AccountData = data
	acc.UpdatedBy = clm.UserID
	acc.UpdatedAt = now

	if err := s.repoDB.UpdateAccount(ctx, acc); err != nil {
		switch {
		case errors.Is(err, goerror.ErrNotFound):
			return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
		case errors.Is(err, goerror.ErrConflict):
			return nil, goerror.NewBusiness("Account email already exists", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo update account", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	s.ins.Metrics().AccountWrite(ctx, "update")

	if err := s.repoMessaging.PublishAccountUpdated(ctx, s.accountEvent(clm, acc, now)); err != nil {
		slog.ErrorContext(ctx, "failed to publish account updated", "account_id", acc.ID, "error", err)
	}

	return &acc, nil
}

package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

type AccountDeleteInput struct {
	ID int64 `validate:"gt=0"`
}

// AccountDelete soft deletes an account. Deleted accounts disappear from
// every read.
func (s *Usecase) AccountDelete(ctx context.Context, in AccountDeleteInput) error {
	ctx, span := s.startSpan(ctx, "AccountDelete")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermObjAccount, constant.PermActDelete)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.getAccount(ctx, in.ID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if err := s.repoDB.MarkAccountDeleted(ctx, acc.ID, clm.UserID, now); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("Account not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo mark account deleted", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}
	s.ins.Metrics().AccountWrite(ctx, "delete")

	if err := s.repoMessaging.PublishAccountDeleted(ctx, s.accountEvent(clm, *acc, now)); err != nil {
		slog.ErrorContext(ctx, "failed to publish account deleted", "account_id", acc.ID, "error", err)
	}

	return nil
}

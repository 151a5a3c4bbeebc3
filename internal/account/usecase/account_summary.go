package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

// AccountSummary reports totals and breakdowns over all live accounts.
func (s *Usecase) AccountSummary(ctx context.Context) (*entity.AccountSummary, error) {
	ctx, span := s.startSpan(ctx, "AccountSummary")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermObjAccount, constant.PermActRead); err != nil {
		return nil, err
	}

	summary, err := s.repoDB.GetAccountSummary(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account summary", "error", err)
		return nil, goerror.NewServer(err)
	}

	return summary, nil
}

package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type AccountListInput struct {
	Search      string `validate:"omitempty,max=100"`
	Industry    string `validate:"omitempty,max=100"`
	StateID     int64  `validate:"gte=0"`
	AccountType string `validate:"omitempty,oneof_ci=prospect customer partner vendor"`
	SortBy      string `validate:"omitempty,oneof=name created_at annual_revenue number_of_employees"`
	SortOrder   string `validate:"omitempty,oneof_ci=asc desc"`
	Page        int32  `validate:"gte=0"`
	Size        int32  `validate:"gte=0"`
}

type AccountListOutput struct {
	Accounts []entity.Account
	Total    int64
	Page     int32
	Size     int32
}

func (s *Usecase) AccountList(ctx context.Context, in AccountListInput) (*AccountListOutput, error) {
	ctx, span := s.startSpan(ctx, "AccountList")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermObjAccount, constant.PermActRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	page := max(in.Page, 1)
	size := in.Size
	if size <= 0 {
		size = defaultPageSize
	}
	size = min(size, maxPageSize)

	filter := listFilter(in)
	filter.Size = size
	filter.Offset = (page - 1) * size

	accounts, total, err := s.repoDB.GetAccountList(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account list", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AccountListOutput{
		Accounts: accounts,
		Total:    total,
		Page:     page,
		Size:     size,
	}, nil
}

// listFilter copies the filter and sort fields. Paging is left to the caller.
func listFilter(in AccountListInput) entity.AccountListFilter {
	accountType, _ := entity.ParseAccountType(in.AccountType)
	if strings.TrimSpace(in.AccountType) == "" {
		accountType = ""
	}

	return entity.AccountListFilter{
		Search:      strings.TrimSpace(in.Search),
		Industry:    strings.TrimSpace(in.Industry),
		StateID:     in.StateID,
		AccountType: accountType,
		SortBy:      in.SortBy,
		SortOrder:   in.SortOrder,
	}
}

package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/storage"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

const (
	defaultExportPageSize  = 1000
	defaultExportURLExpiry = 15 * time.Minute
)

type AccountExportInput struct {
	Search      string `validate:"omitempty,max=100"`
	Industry    string `validate:"omitempty,max=100"`
	StateID     int64  `validate:"gte=0"`
	AccountType string `validate:"omitempty,oneof_ci=prospect customer partner vendor"`
	SortBy      string `validate:"omitempty,oneof=name created_at annual_revenue number_of_employees"`
	SortOrder   string `validate:"omitempty,oneof_ci=asc desc"`
}

type AccountExportOutput struct {
	Key       string
	URL       string
	Rows      int
	ExpiresAt time.Time
}

// AccountExport writes every account matching the filter to a CSV object and
// returns a presigned download URL for it.
func (s *Usecase) AccountExport(ctx context.Context, in AccountExportInput) (*AccountExportOutput, error) {
	ctx, span := s.startSpan(ctx, "AccountExport")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermObjAccount, constant.PermActExport)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	pageSize := int32(s.cfg.GetInt("account.export.page_size"))
	if pageSize <= 0 {
		pageSize = defaultExportPageSize
	}
	expiry := s.cfg.GetMinute("account.export.url_expiry_minutes")
	if expiry <= 0 {
		expiry = defaultExportURLExpiry
	}

	filter := listFilter(AccountListInput{
		Search:      in.Search,
		Industry:    in.Industry,
		StateID:     in.StateID,
		AccountType: in.AccountType,
		SortBy:      in.SortBy,
		SortOrder:   in.SortOrder,
	})
	filter.Size = pageSize

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(entity.CSVHeader); err != nil {
		return nil, goerror.NewServer(err)
	}

	rows := 0
	for {
		accounts, total, err := s.repoDB.GetAccountList(ctx, filter)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get account list for export", "offset", filter.Offset, "error", err)
			return nil, goerror.NewServer(err)
		}

		for _, acc := range accounts {
			if err := w.Write(acc.CSVRow()); err != nil {
				return nil, goerror.NewServer(err)
			}
		}
		rows += len(accounts)

		if len(accounts) < int(pageSize) || int64(rows) >= total {
			break
		}
		filter.Offset += pageSize
	}

	w.Flush()
	if err := w.Error(); err != nil {
		slog.ErrorContext(ctx, "failed to flush account export", "error", err)
		return nil, goerror.NewServer(err)
	}

	key := "exports/accounts/" + s.uuid.Generate() + ".csv"
	_, err = s.storage.Put(ctx, key, &buf, storage.PutOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv",
		Metadata: map[string]string{
			"exported-by": strconv.FormatInt(clm.UserID, 10),
			"rows":        strconv.Itoa(rows),
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to put account export", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	url, err := s.storage.PresignGet(ctx, key, expiry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign account export", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AccountExportOutput{
		Key:       key,
		URL:       url,
		Rows:      rows,
		ExpiresAt: s.clock.Now().Add(expiry),
	}, nil
}

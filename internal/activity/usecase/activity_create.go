package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

type ActivityCreateInput struct {
	AccountID    int64  `validate:"gt=0"`
	Kind         string `validate:"required,oneof_ci=call email meeting note"`
	Subject      string `validate:"required,max=255"`
	Notes        string `validate:"max=5000"`
	ContactEmail string `validate:"max=255,crm_email"`
	ContactPhone string `validate:"crm_phone"`
	DueAt        *time.Time
}

func (s *Usecase) ActivityCreate(ctx context.Context, in ActivityCreateInput) (*entity.Activity, error) {
	ctx, span := s.startSpan(ctx, "ActivityCreate")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermObjActivity, constant.PermActWrite)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.ensureAccount(ctx, in.AccountID); err != nil {
		return nil, err
	}

	kind, _ := entity.ParseKind(in.Kind)
	act := entity.Activity{
		ID:           s.uid.Generate(),
		AccountID:    in.AccountID,
		Kind:         kind,
		Subject:      strings.TrimSpace(in.Subject),
		Notes:        strings.TrimSpace(in.Notes),
		ContactEmail: strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		DueAt:        in.DueAt,
		CreatedBy:    clm.UserID,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repoDB.CreateActivity(ctx, act); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo create activity", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}
	s.ins.Metrics().ActivityLogged(ctx, string(act.Kind), "api")

	return &act, nil
}

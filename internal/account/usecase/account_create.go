package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/idempotency"
	"github.com/shandysiswandi/gocrm/internal/pkg/jwt"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

type AccountCreateInput struct {
	Record         fieldrule.Record
	IdempotencyKey string `validate:"omitempty,max=128"`
}

func (s *Usecase) AccountCreate(ctx context.Context, in AccountCreateInput) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "AccountCreate")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermObjAccount, constant.PermActWrite)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	data, err := s.checkRecord(ctx, in.Record)
	if err != nil {
		return nil, err
	}

	if in.IdempotencyKey == "" {
		return s.createAccount(ctx, clm, data)
	}

	// the key is scoped to the caller so two users cannot collide
	key := "account:create:" + strconv.FormatInt(clm.UserID, 10) + ":" + in.IdempotencyKey
	var created *entity.Account
	result, err := s.idemp.Exec(ctx, key, func(ctx context.Context) (string, error) {
		acc, err := s.createAccount(ctx, clm, data)
		if err != nil {
			return "", err
		}
		created = acc
		return strconv.FormatInt(acc.ID, 10), nil
	},
		idempotency.WithLockDuration(s.cfg.GetSecond("account.idempotency.lock_seconds")),
		idempotency.WithStateTTL(s.cfg.GetSecond("account.idempotency.ttl_seconds")),
	)

	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		id, perr := strconv.ParseInt(result, 10, 64)
		if perr != nil {
			slog.ErrorContext(ctx, "failed to parse idempotent result", "result", result, "error", perr)
			return nil, goerror.NewServer(perr)
		}
		return s.getAccount(ctx, id)
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		return nil, goerror.NewBusiness("A request with the same idempotency key is in progress", goerror.CodeConflict)
	default:
		var gerr *goerror.Error
		if errors.As(err, &gerr) {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to run idempotent account create", "error", err)
		return nil, goerror.NewServer(err)
	}
}

func (s *Usecase) createAccount(ctx context.Context, clm *jwt.Claims, data entity.AccountData) (*entity.Account, error) {
	now := s.clock.Now()
	acc := entity.Account{
		ID:          s.uid.Generate(),
		AccountData: data,
		CreatedBy:   clm.UserID,
		UpdatedBy:   clm.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repoDB.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Account email already exists", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create account", "error", err)
		return nil, goerror.NewServer(err)
	}
	s.ins.Metrics().AccountWrite(ctx, "create")

	if err := s.repoMessaging.PublishAccountCreated(ctx, s.accountEvent(clm, acc, now)); err != nil {
		slog.ErrorContext(ctx, "failed to publish account created", "account_id", acc.ID, "error", err)
	}

	return &acc, nil
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

// AccountRules returns the rule set clients run before submitting.
func (s *Usecase) AccountRules(ctx context.Context) fieldrule.RuleSet {
	_, span := s.startSpan(ctx, "AccountRules")
	defer span.End()

	return entity.AccountRules
}

type AccountValidateInput struct {
	Record fieldrule.Record
}

// AccountValidate runs the same checks as create and update without writing.
func (s *Usecase) AccountValidate(ctx context.Context, in AccountValidateInput) error {
	ctx, span := s.startSpan(ctx, "AccountValidate")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermObjAccount, constant.PermActWrite); err != nil {
		return err
	}

	_, err := s.checkRecord(ctx, in.Record)
	return err
}

// checkRecord runs the account rules and maps the record.
//
// Rule violations come first in rule order, followed by violations found
// while mapping (account type, state) on fields the rules did not flag.
func (s *Usecase) checkRecord(ctx context.Context, rec fieldrule.Record) (entity.AccountData, error) {
	violations, err := entity.AccountRules.Validate(rec)
	if err != nil {
		slog.WarnContext(ctx, "account record could not be validated", "error", err)
		return entity.AccountData{}, goerror.NewInvalidInput(err)
	}

	data, extra, err := entity.AccountDataFromRecord(rec)
	if err != nil {
		slog.WarnContext(ctx, "account record could not be mapped", "error", err)
		return entity.AccountData{}, goerror.NewInvalidInput(err)
	}

	flagged := lo.SliceToMap(violations, func(fe fieldrule.FieldError) (string, struct{}) {
		return fe.Field, struct{}{}
	})
	for _, fe := range extra {
		if _, ok := flagged[fe.Field]; !ok {
			violations = append(violations, fe)
			flagged[fe.Field] = struct{}{}
		}
	}

	if data.StateID != nil {
		if _, ok := flagged[entity.FieldStateID]; !ok {
			exists, err := s.states.StateExists(ctx, *data.StateID)
			if err != nil {
				slog.ErrorContext(ctx, "failed to check state exists", "state_id", *data.StateID, "error", err)
				return entity.AccountData{}, goerror.NewServer(err)
			}
			if !exists {
				violations = append(violations, fieldrule.FieldError{Field: entity.FieldStateID, Message: entity.MsgUnknownState})
			}
		}
	}

	if len(violations) > 0 {
		s.ins.Metrics().ValidationFailures(ctx, "account", lo.Map(violations, func(fe fieldrule.FieldError, _ int) string {
			return fe.Field
		})...)
		return entity.AccountData{}, goerror.NewFieldViolations(lo.Map(violations, func(fe fieldrule.FieldError, _ int) goerror.FieldError {
			return goerror.FieldError{Field: fe.Field, Message: fe.Message}
		})...)
	}

	return data, nil
}

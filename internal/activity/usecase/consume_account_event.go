package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gocrm/internal/activity/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/valueobject"
	"github.com/shandysiswandi/gocrm/internal/shared/event"
)

type ConsumeAccountEventInput struct {
	Event       string `validate:"required"`
	AccountID   int64  `validate:"gt=0"`
	AccountName string
	ActorID     int64
	ActorEmail  string
	OccurredAt  time.Time
}

var eventSubjects = map[string]string{
	event.AccountCreatedDestination: "Account created",
	event.AccountUpdatedDestination: "Account updated",
	event.AccountDeletedDestination: "Account deleted",
}

// ConsumeAccountEvent records an account change as a system activity.
// Events for unknown accounts are dropped.
func (s *Usecase) ConsumeAccountEvent(ctx context.Context, in ConsumeAccountEventInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAccountEvent")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "dropping invalid account event", "event", in.Event, "error", err)
		s.ins.Metrics().EventConsumed(ctx, in.Event, instrument.OutcomeDropped)
		return nil
	}

	subject, ok := eventSubjects[in.Event]
	if !ok {
		slog.WarnContext(ctx, "dropping unknown account event", "event", in.Event)
		s.ins.Metrics().EventConsumed(ctx, in.Event, instrument.OutcomeDropped)
		return nil
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.clock.Now()
	}

	meta := valueobject.Metadata{}.
		With(entity.MetaEvent, in.Event).
		With(entity.MetaActorID, in.ActorID).
		With(entity.MetaActorEmail, in.ActorEmail).
		With(entity.MetaOccurredAt, occurredAt.UTC().Format(time.RFC3339))

	notes := in.AccountName
	if in.ActorEmail != "" {
		notes += " by " + in.ActorEmail
	}

	act := entity.Activity{
		ID:        s.uid.Generate(),
		AccountID: in.AccountID,
		Kind:      entity.KindSystem,
		Subject:   subject,
		Notes:     notes,
		Metadata:  meta,
		CreatedBy: in.ActorID,
		CreatedAt: occurredAt,
	}

	if err := s.repoDB.CreateActivity(ctx, act); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "dropping account event for unknown account", "event", in.Event, "account_id", in.AccountID)
			s.ins.Metrics().EventConsumed(ctx, in.Event, instrument.OutcomeDropped)
			return nil
		}
		slog.ErrorContext(ctx, "failed to repo create system activity", "event", in.Event, "account_id", in.AccountID, "error", err)
		s.ins.Metrics().EventConsumed(ctx, in.Event, instrument.OutcomeFailed)
		return err
	}

	s.ins.Metrics().EventConsumed(ctx, in.Event, instrument.OutcomeHandled)
	s.ins.Metrics().ActivityLogged(ctx, string(act.Kind), in.Event)
	return nil
}

package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gocrm/internal/activity/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/messaging"
	"github.com/shandysiswandi/gocrm/internal/pkg/uid"
	"github.com/shandysiswandi/gocrm/internal/shared/event"
)

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(messaging.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) AccountCreatedActivity(ctx context.Context, msg messaging.Message) error {
	return h.accountActivity(ctx, "AccountCreatedActivity", event.AccountCreatedDestination, msg)
}

func (h *MQHandler) AccountUpdatedActivity(ctx context.Context, msg messaging.Message) error {
	return h.accountActivity(ctx, "AccountUpdatedActivity", event.AccountUpdatedDestination, msg)
}

func (h *MQHandler) AccountDeletedActivity(ctx context.Context, msg messaging.Message) error {
	return h.accountActivity(ctx, "AccountDeletedActivity", event.AccountDeletedDestination, msg)
}

func (h *MQHandler) accountActivity(ctx context.Context, name, topic string, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("activity.inbound.mq").Start(ctx, name)
	defer span.End()

	slog.InfoContext(ctx, "consume: account event", "topic", topic, "msg_id", msg.ID, "msg_body", string(msg.Body))

	var payload event.AccountMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of account event", "topic", topic, "msg_body", string(msg.Body), "error", err)
		return nil
	}

	occurredAt, err := time.Parse(time.RFC3339, payload.OccurredAt)
	if err != nil {
		slog.WarnContext(ctx, "account event has no valid occurred_at", "topic", topic, "occurred_at", payload.OccurredAt)
	}

	if err := h.uc.ConsumeAccountEvent(ctx, usecase.ConsumeAccountEventInput{
		Event:       topic,
		AccountID:   payload.AccountID,
		AccountName: payload.AccountName,
		ActorID:     payload.ActorID,
		ActorEmail:  payload.ActorEmail,
		OccurredAt:  occurredAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume account event", "topic", topic, "msg_body", string(msg.Body), "error", err)
		return err
	}

	return nil
}

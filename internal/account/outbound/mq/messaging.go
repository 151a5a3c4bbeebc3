package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shandysiswandi/gocrm/internal/account/usecase"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/messaging"
	"github.com/shandysiswandi/gocrm/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishAccountCreated(ctx context.Context, ev usecase.AccountEvent) error {
	return m.publish(ctx, "PublishAccountCreated", event.AccountCreatedDestination, ev)
}

func (m *Messaging) PublishAccountUpdated(ctx context.Context, ev usecase.AccountEvent) error {
	return m.publish(ctx, "PublishAccountUpdated", event.AccountUpdatedDestination, ev)
}

func (m *Messaging) PublishAccountDeleted(ctx context.Context, ev usecase.AccountEvent) error {
	return m.publish(ctx, "PublishAccountDeleted", event.AccountDeletedDestination, ev)
}

func (m *Messaging) publish(ctx context.Context, name, topic string, ev usecase.AccountEvent) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, name)
	defer span.End()

	span.SetAttributes(attribute.String("messaging.destination", topic))

	body, err := json.Marshal(event.AccountMessage{
		AccountID:   ev.AccountID,
		AccountName: ev.AccountName,
		ActorID:     ev.ActorID,
		ActorEmail:  ev.ActorEmail,
		OccurredAt:  ev.OccurredAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if err := m.client.Publish(ctx, topic, messaging.Message{
		// one account's events stay on one kafka partition
		Key:     []byte(strconv.FormatInt(ev.AccountID, 10)),
		Body:    body,
		Headers: map[string]string{messaging.HeaderCorrelationID: cID},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

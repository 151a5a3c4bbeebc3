package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/shandysiswandi/gocrm/internal/pkg/goroutine"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/pkg/messaging"
	"github.com/shandysiswandi/gocrm/internal/pkg/uid"
	"github.com/shandysiswandi/gocrm/internal/shared/event"
)

// RegisterMQConsumer starts the consumers listed in
// modules.activity.consumer_names. Each consumer name doubles as its group.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) error {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.activity.consumer_names")
	concurrency := max(cfg.GetInt("modules.activity.consumer_concurrency"), 1)

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		handler messaging.Handler
	}{
		{
			name:    event.AccountCreatedConsumerActivity,
			topic:   event.AccountCreatedDestination,
			handler: mqHandler.AccountCreatedActivity,
		},
		{
			name:    event.AccountUpdatedConsumerActivity,
			topic:   event.AccountUpdatedDestination,
			handler: mqHandler.AccountUpdatedActivity,
		},
		{
			name:    event.AccountDeletedConsumerActivity,
			topic:   event.AccountDeletedDestination,
			handler: mqHandler.AccountDeletedActivity,
		},
	}

	for _, consumer := range consumers {
		if !slices.Contains(enableConsumerNames, consumer.name) {
			continue
		}

		err := routine.Go(ctx, consumer.name, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
			return messenger.Consume(pCtx,
				consumer.topic,
				consumer.handler,
				messaging.WithGroup(consumer.name),
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

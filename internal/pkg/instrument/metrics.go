package instrument

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcomes of consuming one broker message.
const (
	OutcomeHandled = "handled"
	OutcomeDropped = "dropped"
	OutcomeFailed  = "failed"
)

// Results of a region cache lookup.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds the CRM business counters.
type Metrics struct {
	accountWrites      metric.Int64Counter
	validationFailures metric.Int64Counter
	activitiesLogged   metric.Int64Counter
	eventsConsumed     metric.Int64Counter
	cacheLookups       metric.Int64Counter
}

// NewMetrics registers the CRM counters on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var errs []error

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{count}"))
		errs = append(errs, err)
		return c
	}

	m.accountWrites = counter("gocrm.account.writes", "Accounts created, updated or deleted")
	m.validationFailures = counter("gocrm.validation.failures", "Field violations returned to clients, per field")
	m.activitiesLogged = counter("gocrm.activity.logged", "Activities stored, by kind and source")
	m.eventsConsumed = counter("gocrm.events.consumed", "Account events taken off the broker, by outcome")
	m.cacheLookups = counter("gocrm.region.cache.lookups", "State list cache lookups, by result")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// AccountWrite counts one account mutation. op is create, update or delete.
func (m *Metrics) AccountWrite(ctx context.Context, op string) {
	m.accountWrites.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// ValidationFailures counts each violated field of one rejected record.
func (m *Metrics) ValidationFailures(ctx context.Context, entity string, fields ...string) {
	for _, field := range fields {
		m.validationFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("entity", entity),
			attribute.String("field", field),
		))
	}
}

// ActivityLogged counts one stored activity. source is "api" or the event name.
func (m *Metrics) ActivityLogged(ctx context.Context, kind, source string) {
	m.activitiesLogged.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("source", source),
	))
}

// EventConsumed counts one consumed message for topic.
func (m *Metrics) EventConsumed(ctx context.Context, topic, outcome string) {
	m.eventsConsumed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("outcome", outcome),
	))
}

// CacheLookup counts one region cache read.
func (m *Metrics) CacheLookup(ctx context.Context, result string) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

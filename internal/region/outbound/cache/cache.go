package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/region/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "region:states:"

type state struct {
	ID          int64  `json:"id,string"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

// Cache keeps state lists in redis as JSON under "region:states:<country>".
type Cache struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func New(client redis.UniversalClient, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

// Key returns the redis key of a country's list. The list of every state is
// stored under "all".
func Key(country string) string {
	if country == "" {
		return keyPrefix + "all"
	}
	return keyPrefix + country
}

// GetStates reports false on a cache miss.
func (c *Cache) GetStates(ctx context.Context, country string) (_ []entity.State, _ bool, err error) {
	ctx, span := c.startSpan(ctx, "GetStates", country)
	defer func() { c.endSpan(span, err) }()

	raw, err := c.client.Get(ctx, Key(country)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cached []state
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, err
	}

	states := make([]entity.State, 0, len(cached))
	for _, st := range cached {
		states = append(states, entity.State(st))
	}

	return states, true, nil
}

func (c *Cache) SetStates(ctx context.Context, country string, states []entity.State, ttl time.Duration) (err error) {
	ctx, span := c.startSpan(ctx, "SetStates", country)
	defer func() { c.endSpan(span, err) }()

	cached := make([]state, 0, len(states))
	for _, st := range states {
		cached = append(cached, state(st))
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, Key(country), data, ttl).Err()
}

func (c *Cache) startSpan(ctx context.Context, name, country string) (context.Context, trace.Span) {
	return c.ins.Tracer("region.outbound.cache").Start(ctx, name,
		trace.WithAttributes(attribute.String("cache.key", Key(country))))
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

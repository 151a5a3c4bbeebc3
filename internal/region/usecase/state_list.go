package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/gocrm/internal/pkg/goerror"
	"github.com/shandysiswandi/gocrm/internal/pkg/instrument"
	"github.com/shandysiswandi/gocrm/internal/region/entity"
	"github.com/shandysiswandi/gocrm/internal/shared/constant"
)

const defaultCacheTTL = time.Hour

type StateListInput struct {
	Country string `validate:"omitempty,len=2,alpha"`
}

// StateList returns the states of a country, read through the cache.
func (s *Usecase) StateList(ctx context.Context, in StateListInput) ([]entity.State, error) {
	ctx, span := s.startSpan(ctx, "StateList")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermObjRegion, constant.PermActRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	country := strings.ToUpper(strings.TrimSpace(in.Country))

	states, found, err := s.repoCache.GetStates(ctx, country)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "failed to repo cache get states", "country", country, "error", err)
		s.ins.Metrics().CacheLookup(ctx, instrument.CacheError)
	case found:
		s.ins.Metrics().CacheLookup(ctx, instrument.CacheHit)
		return states, nil
	default:
		s.ins.Metrics().CacheLookup(ctx, instrument.CacheMiss)
	}

	states, err = s.repoDB.GetStateList(ctx, country)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get state list", "country", country, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.cfg.GetSecond("region.cache_ttl_seconds")
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	if err := s.repoCache.SetStates(ctx, country, states, ttl); err != nil {
		slog.WarnContext(ctx, "failed to repo cache set states", "country", country, "error", err)
	}

	return states, nil
}

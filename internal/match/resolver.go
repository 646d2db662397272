package match

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jalmitra/groundwater-advisory/internal/catalog"
	"github.com/jalmitra/groundwater-advisory/internal/domain"
	"github.com/jalmitra/groundwater-advisory/internal/observability"
)

// Strategy is one text-matching tier in the resolver cascade.
type Strategy interface {
	Name() string
	Match(ctx context.Context, query string, k int) ([]domain.Match, error)
}

// candidatesPerStrategy is how many candidates each strategy is asked for.
const candidatesPerStrategy = 5

// Resolver orchestrates the matching strategies. Text resolution walks the
// strategy list in order (semantic first, then fuzzy), degrading on errors
// and empty results; coordinate search is a separate entry point that never
// touches the cascade.
type Resolver struct {
	catalog    *catalog.Catalog
	strategies []Strategy
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewResolver creates a resolver over the given strategy cascade.
func NewResolver(c *catalog.Catalog, strategies []Strategy, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		catalog:    c,
		strategies: strategies,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness reports whether the resolver can serve queries. The catalog
// is loaded before the server starts, so this only guards against an empty
// or missing catalog.
func (r *Resolver) CheckReadiness(_ context.Context) error {
	if r.catalog == nil || r.catalog.Len() == 0 {
		return errors.New("catalog not loaded")
	}
	return nil
}

// ResolveText resolves a free-text location query to the single best block.
// lat/lon are the caller's original coordinates, passed through verbatim onto
// the resolution for auditing; they play no part in text matching.
//
// Strategy errors are absorbed here: a failing semantic backend degrades to
// fuzzy matching with the same query, never a merge of partial results. Only
// when every strategy returns empty does the resolver report ErrNoMatch.
func (r *Resolver) ResolveText(ctx context.Context, query string, lat, lon float64) (domain.Resolution, error) {
	start := time.Now()
	defer func() {
		r.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	}()

	for _, s := range r.strategies {
		matches, err := s.Match(ctx, query, candidatesPerStrategy)
		if err != nil {
			r.logger.Warn("matching strategy failed, degrading",
				"strategy", s.Name(),
				"query", query,
				"error", err,
			)
			r.metrics.ResolveRequests.WithLabelValues(s.Name(), "error").Inc()
			continue
		}
		if len(matches) == 0 {
			r.metrics.ResolveRequests.WithLabelValues(s.Name(), "empty").Inc()
			continue
		}

		best := selectBest(matches)
		r.metrics.ResolveRequests.WithLabelValues(s.Name(), "hit").Inc()
		r.logger.Debug("location resolved",
			"strategy", s.Name(),
			"query", query,
			"block_id", best.Block.ID,
			"confidence", best.Confidence,
		)
		return domain.NewResolution(best, s.Name(), query, lat, lon), nil
	}

	r.metrics.NoMatchTotal.Inc()
	return domain.Resolution{}, domain.ErrNoMatch
}

// ResolveCoordinates returns the blocks within radiusKm of the query point,
// nearest first. A zero or negative radius falls back to DefaultRadiusKm. The
// result may be empty; that is not an error.
func (r *Resolver) ResolveCoordinates(_ context.Context, lat, lon, radiusKm float64) ([]domain.Match, error) {
	if err := domain.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	r.metrics.CoordinateSearches.Inc()
	return SearchByCoordinates(r.catalog, lat, lon, radiusKm), nil
}

// selectBest picks the candidate with the highest confidence, breaking ties
// by lowest block id so repeated queries are reproducible.
func selectBest(matches []domain.Match) domain.Match {
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Confidence > best.Confidence ||
			(m.Confidence == best.Confidence && m.Block.ID < best.Block.ID) {
			best = m
		}
	}
	return best
}

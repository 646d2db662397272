package match

import (
	"context"
	"sort"
	"strings"

	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/jalmitra/groundwater-advisory/internal/catalog"
	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

// fuzzyThreshold is the minimum partial-ratio score (0–100) a label must
// exceed — strictly — to count as a candidate.
const fuzzyThreshold = 60

// FuzzyMatcher ranks catalog labels against a query by partial-ratio string
// similarity. Partial ratio tolerates word reordering, truncation, and minor
// misspelling ("Ludhiana block 3" vs "Ludhiana District Block 3") without
// needing tokenization or stemming. It never fails; an empty result simply
// means nothing scored above the threshold.
type FuzzyMatcher struct {
	catalog *catalog.Catalog
}

// NewFuzzyMatcher creates a fuzzy matcher over the catalog's display labels.
func NewFuzzyMatcher(c *catalog.Catalog) *FuzzyMatcher {
	return &FuzzyMatcher{catalog: c}
}

// Name identifies the strategy in logs, metrics, and resolutions.
func (m *FuzzyMatcher) Name() string { return domain.StrategyFuzzy }

// Match returns up to k candidates scoring strictly above the threshold,
// ranked by descending score. Ties keep catalog order (first seen wins), so
// results are deterministic for fixed inputs. Confidence is score/100.
func (m *FuzzyMatcher) Match(_ context.Context, query string, k int) ([]domain.Match, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	type scored struct {
		label string
		score int
	}
	var candidates []scored
	for _, label := range m.catalog.Labels() {
		s := fuzzywuzzy.PartialRatio(q, strings.ToLower(label))
		if s > fuzzyThreshold {
			candidates = append(candidates, scored{label: label, score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	matches := make([]domain.Match, 0, len(candidates))
	for _, c := range candidates {
		block, ok := m.catalog.ByLabel(c.label)
		if !ok {
			continue
		}
		matches = append(matches, domain.Match{
			Block:      block,
			Confidence: float64(c.score) / 100,
		})
	}
	return matches, nil
}

package match

import (
	"context"
	"fmt"
	"time"

	"github.com/jalmitra/groundwater-advisory/internal/catalog"
	"github.com/jalmitra/groundwater-advisory/internal/domain"
)

// SemanticMatcher ranks catalog blocks against a query by embedding-space
// similarity. The embedding backend call is time-bounded; any backend error
// (or an index that has not been built yet) surfaces as
// domain.ErrBackendUnavailable, which the resolver absorbs by degrading to
// the fuzzy matcher.
type SemanticMatcher struct {
	catalog  *catalog.Catalog
	embedder domain.Embedder
	index    *Index
	timeout  time.Duration
}

// NewSemanticMatcher wires the embedding backend and the document index.
func NewSemanticMatcher(c *catalog.Catalog, embedder domain.Embedder, index *Index, timeout time.Duration) *SemanticMatcher {
	return &SemanticMatcher{catalog: c, embedder: embedder, index: index, timeout: timeout}
}

// Name identifies the strategy in logs, metrics, and resolutions.
func (m *SemanticMatcher) Name() string { return domain.StrategySemantic }

// BuildIndex embeds every catalog block's document and installs the vectors.
// Called once at startup; until it succeeds, Match reports the backend as
// unavailable.
func (m *SemanticMatcher) BuildIndex(ctx context.Context) error {
	blocks := m.catalog.Blocks()
	docs := make([]IndexedDocument, len(blocks))
	texts := make([]string, len(blocks))
	for i, b := range blocks {
		docs[i] = IndexedDocument{ID: b.ID, Text: b.Document()}
		texts[i] = docs[i].Text
	}

	vectors, err := m.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed catalog documents: %w", err)
	}
	if err := m.index.Build(docs, vectors); err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	return nil
}

// Match embeds the query and returns the k most similar blocks. Confidence is
// computed by domain.OverlapConfidence against each hit's document text, not
// from the index's cosine similarity, so the score has the same [0, 1]
// semantics as the other strategies.
func (m *SemanticMatcher) Match(ctx context.Context, query string, k int) ([]domain.Match, error) {
	if !m.index.Ready() {
		return nil, fmt.Errorf("%w: index not built", domain.ErrBackendUnavailable)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	vector, err := m.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrBackendUnavailable, err)
	}

	hits, err := m.index.Search(vector, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	matches := make([]domain.Match, 0, len(hits))
	for _, hit := range hits {
		block, ok := m.catalog.ByID(hit.ID)
		if !ok {
			continue
		}
		matches = append(matches, domain.Match{
			Block:      block,
			Confidence: domain.OverlapConfidence(query, hit.Text),
		})
	}
	return matches, nil
}

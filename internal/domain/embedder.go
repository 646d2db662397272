package domain

import "context"

// Embedder converts text into vectors via an external embedding backend.
type Embedder interface {
	// EmbedQuery embeds a single free-text query.
	EmbedQuery(ctx context.Context, query string) ([]float64, error)

	// EmbedDocuments embeds a batch of block documents, one vector per input.
	EmbedDocuments(ctx context.Context, docs []string) ([][]float64, error)
}

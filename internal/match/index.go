package match

import (
	"errors"
	"math"
	"sort"
	"sync"
)

// IndexedDocument pairs a block id with the document text that was embedded.
type IndexedDocument struct {
	ID   int
	Text string
}

// ScoredDocument is an index search hit with its cosine similarity.
type ScoredDocument struct {
	IndexedDocument
	Similarity float64
}

// Index is an in-memory brute-force cosine similarity index over block
// document embeddings. It is built once after startup (possibly asynchronously
// while the service already answers fuzzy-only) and is read-only afterwards;
// the mutex only guards the build/read handoff. Brute force is fine here: the
// catalog holds thousands of vectors, not millions.
type Index struct {
	mu        sync.RWMutex
	docs      []IndexedDocument
	vectors   [][]float64
	dimension int
	ready     bool
}

// NewIndex creates an empty, not-ready index.
func NewIndex() *Index { return &Index{} }

// Build installs documents and their vectors and marks the index ready.
func (ix *Index) Build(docs []IndexedDocument, vectors [][]float64) error {
	if len(docs) == 0 {
		return errors.New("no documents to index")
	}
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	dim := len(vectors[0])
	for _, v := range vectors {
		if len(v) != dim {
			return errors.New("vector dimension mismatch")
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.docs = docs
	ix.vectors = vectors
	ix.dimension = dim
	ix.ready = true
	return nil
}

// Ready reports whether the index has been built.
func (ix *Index) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.ready
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Search returns the k documents most similar to the query vector, descending
// by cosine similarity with ties broken by lowest block id.
func (ix *Index) Search(vector []float64, k int) ([]ScoredDocument, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if !ix.ready {
		return nil, errors.New("index not built")
	}
	if len(vector) != ix.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}

	hits := make([]ScoredDocument, len(ix.docs))
	for i := range ix.docs {
		hits[i] = ScoredDocument{
			IndexedDocument: ix.docs[i],
			Similarity:      cosineSimilarity(ix.vectors[i], vector),
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ID < hits[j].ID
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors
// without assuming either is normalized. Zero vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Package embedding provides an HTTP client for an OpenAI-compatible
// embeddings backend, plus an LRU cache decorator for query embeddings.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/jalmitra/groundwater-advisory/internal/observability"
)

// documentBatchSize bounds how many documents go into one backend request.
const documentBatchSize = 100

// Client implements domain.Embedder against an OpenAI-compatible
// POST /v1/embeddings endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an embeddings client.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// EmbedQuery embeds a single free-text query.
func (c *Client) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	vectors, err := c.embed(ctx, []string{query}, "query")
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}
	return vectors[0], nil
}

// EmbedDocuments embeds block documents in batches, preserving input order.
func (c *Client) EmbedDocuments(ctx context.Context, docs []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(docs))
	for start := 0; start < len(docs); start += documentBatchSize {
		end := start + documentBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch, err := c.embed(ctx, docs[start:end], "documents")
		if err != nil {
			return nil, fmt.Errorf("embed documents %d-%d: %w", start, end, err)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (c *Client) embed(ctx context.Context, inputs []string, kind string) ([][]float64, error) {
	start := time.Now()

	body, err := json.Marshal(request{Model: c.model, Input: inputs})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.EmbeddingRequests.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.EmbeddingDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.metrics.EmbeddingRequests.WithLabelValues(kind, "error").Inc()
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding API error: status %d: %s", resp.StatusCode, payload)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.metrics.EmbeddingRequests.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Data) != len(inputs) {
		c.metrics.EmbeddingRequests.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(apiResp.Data))
	}

	// Some backends return entries out of order; the index field is authoritative.
	sort.Slice(apiResp.Data, func(i, j int) bool { return apiResp.Data[i].Index < apiResp.Data[j].Index })

	vectors := make([][]float64, len(apiResp.Data))
	for i, d := range apiResp.Data {
		vectors[i] = d.Embedding
	}

	c.metrics.EmbeddingRequests.WithLabelValues(kind, "success").Inc()
	return vectors, nil
}

// OpenAI-compatible API types.

type request struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type response struct {
	Data []embeddingData `json:"data"`
}

type embeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

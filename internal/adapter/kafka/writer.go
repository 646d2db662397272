// Package kafka publishes resolution audit events to a Kafka topic. The
// producer is feature-flagged; when disabled the service runs without it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/jalmitra/groundwater-advisory/internal/domain"
	"github.com/jalmitra/groundwater-advisory/internal/observability"
)

// AuditEvent is the JSON payload published for each successful resolution.
type AuditEvent struct {
	Query           string    `json:"query"`
	Strategy        string    `json:"strategy"`
	BlockID         int       `json:"block_id"`
	MatchedLocation string    `json:"matched_location"`
	Confidence      float64   `json:"confidence"`
	Language        string    `json:"language"`
	ResolvedAt      time.Time `json:"resolved_at"`
}

// NewAuditEvent builds an audit event from a resolution.
func NewAuditEvent(res domain.Resolution, language string) AuditEvent {
	return AuditEvent{
		Query:           res.Query,
		Strategy:        res.Strategy,
		BlockID:         res.Block.ID,
		MatchedLocation: res.MatchedLocation,
		Confidence:      res.ConfidenceScore,
		Language:        language,
		ResolvedAt:      res.ResolvedAt,
	}
}

// Writer produces audit events to the configured Kafka topic.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the audit topic.
func NewWriter(brokers []string, topic string, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// Publish serializes and sends one audit event.
func (w *Writer) Publish(ctx context.Context, event AuditEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		w.metrics.AuditEvents.WithLabelValues("error").Inc()
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		w.metrics.AuditEvents.WithLabelValues("error").Inc()
		return fmt.Errorf("publish audit event: %w", err)
	}
	w.metrics.AuditEvents.WithLabelValues("published").Inc()
	return nil
}

// PublishResolution adapts a domain resolution into an audit event and
// publishes it. Satisfies httpapi.AuditSink.
func (w *Writer) PublishResolution(ctx context.Context, res domain.Resolution, language string) error {
	return w.Publish(ctx, NewAuditEvent(res, language))
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AuditEvent into a Kafka message keyed by the
// matched block id so per-block event history stays in partition order.
func serializeToMessage(event AuditEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize audit event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%d", event.BlockID)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "strategy", Value: []byte(event.Strategy)},
			{Key: "resolved_at", Value: []byte(event.ResolvedAt.Format(time.RFC3339))},
		},
	}, nil
}

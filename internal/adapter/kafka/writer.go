// Package kafka publishes prediction records to the event stream consumed
// by downstream auditing and analytics services.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/fire-risk-service/internal/config"
	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// Writer produces prediction events to a Kafka topic.
// It implements predictor.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured prediction topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one prediction record and writes it to the topic.
// The record ID is the message key, so consumers can deduplicate replays.
func (w *Writer) Publish(ctx context.Context, rec domain.PredictionRecord) error {
	msg, err := serializeToMessage(rec)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a PredictionRecord into a Kafka message.
func serializeToMessage(rec domain.PredictionRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_label", Value: []byte(rec.RiskLabel)},
			{Key: "predicted_at", Value: []byte(rec.PredictedAt.Format(time.RFC3339))},
		},
	}, nil
}

//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/fire-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/fire-risk-service/internal/config"
	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

const testTopic = "test-fire-risk-predictions"

// startKafka launches a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve broker addresses")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic pre-creates a topic so the first publish does not race topic
// auto-creation.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPredictionPublishRoundTrip verifies that a published prediction record
// arrives on the topic with its JSON body and routing headers intact.
func TestPredictionPublishRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	predictedAt := time.Date(2026, time.August, 1, 14, 30, 0, 0, time.UTC)
	rec := domain.PredictionRecord{
		ID: "pred-itest01",
		ClimateReading: domain.ClimateReading{
			RelativeHumidityPercent: 26,
			WindSpeedKmh:            31,
			TemperatureCelsius:      41,
		},
		Prediction: domain.Prediction{
			RiskLabel:       domain.RiskModerateOrHigh,
			Confidence:      0.91,
			RiskProbability: 0.91,
		},
		PredictedAt: predictedAt,
	}

	require.NoError(t, writer.Publish(ctx, rec))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from prediction topic")

	assert.Equal(t, []byte("pred-itest01"), msg.Key)

	var got domain.PredictionRecord
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, domain.RiskModerateOrHigh, got.RiskLabel)
	assert.InDelta(t, 0.91, got.RiskProbability, 1e-9)
	assert.Equal(t, 26.0, got.RelativeHumidityPercent)
	assert.True(t, predictedAt.Equal(got.PredictedAt))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "moderate_or_high", headers["risk_label"])
	parsed, err := time.Parse(time.RFC3339, headers["predicted_at"])
	assert.NoError(t, err, "predicted_at should be valid RFC3339")
	assert.True(t, predictedAt.Equal(parsed))
}

// TestPublishMultipleRecords verifies ordering by key and that each record is
// individually consumable.
func TestPublishMultipleRecords(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	at := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	labels := []domain.RiskLabel{domain.RiskLow, domain.RiskModerateOrHigh, domain.RiskLow}
	for i, label := range labels {
		rec := domain.PredictionRecord{
			ID: fmt.Sprintf("pred-multi%02d", i),
			ClimateReading: domain.ClimateReading{
				RelativeHumidityPercent: 60,
				WindSpeedKmh:            float64(5 * i),
				TemperatureCelsius:      20,
			},
			Prediction: domain.Prediction{
				RiskLabel:       label,
				Confidence:      0.8,
				RiskProbability: 0.2,
			},
			PredictedAt: at.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, writer.Publish(ctx, rec))
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for i, label := range labels {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read record %d", i)
		assert.Equal(t, fmt.Sprintf("pred-multi%02d", i), string(msg.Key))

		var got domain.PredictionRecord
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, label, got.RiskLabel)
	}
}

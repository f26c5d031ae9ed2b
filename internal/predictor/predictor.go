// Package predictor implements the prediction-serving contract: validate a
// climate reading, evaluate the calibrated forest, threshold the result,
// and record the outcome.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/history"
	"github.com/couchcryptid/fire-risk-service/internal/model"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
)

// Publisher delivers prediction records to the event stream.
// Implemented by the kafka adapter.
type Publisher interface {
	Publish(ctx context.Context, rec domain.PredictionRecord) error
}

// cacheKey is a reading's feature vector. The model is deterministic and
// immutable, so identical inputs always map to identical predictions.
type cacheKey [3]float64

// Options configure a Predictor. History, Publisher, and Metrics are
// optional; Threshold and CacheSize fall back to defaults when zero.
type Options struct {
	Threshold float64 // decision threshold for the positive class, default 0.5
	CacheSize int     // LRU entries, default 1024
	History   *history.Store
	Publisher Publisher
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

// Predictor owns the loaded model and serves stateless predictions.
// Safe for concurrent use.
type Predictor struct {
	forest    *model.Forest
	threshold float64
	hist      *history.Store
	publisher Publisher
	cache     *lru.Cache[cacheKey, domain.Prediction]
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Predictor around an already-loaded forest.
func New(forest *model.Forest, opts Options) (*Predictor, error) {
	if forest == nil {
		return nil, errors.New("predictor: forest is required")
	}
	if opts.Threshold == 0 {
		opts.Threshold = 0.5
	}
	if opts.Threshold <= 0 || opts.Threshold >= 1 {
		return nil, fmt.Errorf("predictor: threshold %g outside (0, 1)", opts.Threshold)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1024
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}

	cache, err := lru.New[cacheKey, domain.Prediction](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("predictor: create cache: %w", err)
	}

	return &Predictor{
		forest:    forest,
		threshold: opts.Threshold,
		hist:      opts.History,
		publisher: opts.Publisher,
		cache:     cache,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}, nil
}

// Threshold returns the configured decision threshold.
func (p *Predictor) Threshold() float64 { return p.threshold }

// CheckReadiness reports whether the service can serve predictions. The
// model loads before the server starts listening, so this only guards
// against wiring mistakes.
func (p *Predictor) CheckReadiness(_ context.Context) error {
	if p.forest == nil {
		return errors.New("model not loaded")
	}
	return nil
}

// Predict classifies one climate reading. It returns the stamped prediction
// record, or a *domain.ValidationError when the reading is outside the
// trained input domain (in which case no inference is attempted).
func (p *Predictor) Predict(ctx context.Context, reading domain.ClimateReading) (domain.PredictionRecord, error) {
	if err := reading.Validate(); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			p.metrics.ValidationFailures.WithLabelValues(verr.Field).Inc()
		}
		return domain.PredictionRecord{}, err
	}

	pred, err := p.classify(reading)
	if err != nil {
		return domain.PredictionRecord{}, err
	}

	rec := domain.NewPredictionRecord(reading, pred)
	p.metrics.Predictions.WithLabelValues(string(pred.RiskLabel)).Inc()

	if p.hist != nil {
		p.hist.Add(rec)
		p.metrics.HistorySize.Set(float64(p.hist.Len()))
	}
	p.publish(ctx, rec)

	return rec, nil
}

// classify runs the (memoized) forest evaluation and thresholds the result.
func (p *Predictor) classify(reading domain.ClimateReading) (domain.Prediction, error) {
	key := cacheKey{reading.RelativeHumidityPercent, reading.WindSpeedKmh, reading.TemperatureCelsius}
	if pred, ok := p.cache.Get(key); ok {
		p.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return pred, nil
	}
	p.metrics.CacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	probability, err := p.forest.PositiveProbability(reading.Features())
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("evaluate model: %w", err)
	}
	p.metrics.InferenceDuration.Observe(time.Since(start).Seconds())

	pred := domain.ClassifyRisk(probability, p.threshold)
	p.cache.Add(key, pred)
	return pred, nil
}

// publish delivers the record to the event stream when a publisher is
// configured. Failures are logged and counted, never returned: a prediction
// that was served must not fail because the audit stream is down.
func (p *Predictor) publish(ctx context.Context, rec domain.PredictionRecord) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, rec); err != nil {
		p.logger.Warn("publish prediction event failed", "error", err, "id", rec.ID)
		p.metrics.PublishTotal.WithLabelValues("error").Inc()
		return
	}
	p.metrics.PublishTotal.WithLabelValues("success").Inc()
}

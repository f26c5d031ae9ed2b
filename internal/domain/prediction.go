package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// RiskLabel is the binary fire-risk classification.
type RiskLabel string

const (
	RiskLow            RiskLabel = "low"
	RiskModerateOrHigh RiskLabel = "moderate_or_high"
)

// Prediction is the outcome of one classification. RiskProbability is the
// calibrated probability of the positive (moderate_or_high) class;
// Confidence is the calibrated probability of the predicted class.
// Constructed per request, never mutated.
type Prediction struct {
	RiskLabel       RiskLabel `json:"risk_label"`
	Confidence      float64   `json:"confidence"`
	RiskProbability float64   `json:"risk_probability"`
}

// ClassifyRisk turns a calibrated positive-class probability into a
// Prediction. The label is moderate_or_high when the probability strictly
// exceeds the threshold.
func ClassifyRisk(probability, threshold float64) Prediction {
	if probability > threshold {
		return Prediction{
			RiskLabel:       RiskModerateOrHigh,
			Confidence:      probability,
			RiskProbability: probability,
		}
	}
	return Prediction{
		RiskLabel:       RiskLow,
		Confidence:      1 - probability,
		RiskProbability: probability,
	}
}

// PredictionRecord is a Prediction joined with its input and timestamp, as
// kept in the history store and published to the prediction event stream.
type PredictionRecord struct {
	ID string `json:"id"`
	ClimateReading
	Prediction
	PredictedAt time.Time `json:"predicted_at"`
}

// NewPredictionRecord stamps a prediction with the current time and a
// deterministic ID derived from the inputs and that timestamp.
func NewPredictionRecord(reading ClimateReading, pred Prediction) PredictionRecord {
	now := clock.Now().UTC()
	return PredictionRecord{
		ID:             generateID(reading, now),
		ClimateReading: reading,
		Prediction:     pred,
		PredictedAt:    now,
	}
}

// generateID produces a short deterministic ID from the reading and time.
// Reprocessing the same inputs at the same instant yields the same ID, so
// downstream consumers can deduplicate on it.
func generateID(r ClimateReading, at time.Time) string {
	input := fmt.Sprintf("%g|%g|%g|%s",
		r.RelativeHumidityPercent, r.WindSpeedKmh, r.TemperatureCelsius,
		at.Format(time.RFC3339Nano))
	hash := sha256.Sum256([]byte(input))
	return "pred-" + hex.EncodeToString(hash[:8])
}

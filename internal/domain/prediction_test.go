package domain_test

import (
	"testing"
	"time"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk_AboveThreshold(t *testing.T) {
	p := domain.ClassifyRisk(0.8, 0.5)
	assert.Equal(t, domain.RiskModerateOrHigh, p.RiskLabel)
	assert.Equal(t, 0.8, p.Confidence)
	assert.Equal(t, 0.8, p.RiskProbability)
}

func TestClassifyRisk_BelowThreshold(t *testing.T) {
	p := domain.ClassifyRisk(0.2, 0.5)
	assert.Equal(t, domain.RiskLow, p.RiskLabel)
	assert.Equal(t, 0.8, p.Confidence)
	assert.Equal(t, 0.2, p.RiskProbability)
}

func TestClassifyRisk_ExactlyThresholdIsLow(t *testing.T) {
	p := domain.ClassifyRisk(0.5, 0.5)
	assert.Equal(t, domain.RiskLow, p.RiskLabel)
	assert.Equal(t, 0.5, p.Confidence)
}

func TestClassifyRisk_CustomThreshold(t *testing.T) {
	p := domain.ClassifyRisk(0.6, 0.7)
	assert.Equal(t, domain.RiskLow, p.RiskLabel)

	p = domain.ClassifyRisk(0.71, 0.7)
	assert.Equal(t, domain.RiskModerateOrHigh, p.RiskLabel)
}

func TestNewPredictionRecord_DeterministicID(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	reading := domain.ClimateReading{RelativeHumidityPercent: 35, WindSpeedKmh: 22, TemperatureCelsius: 38}
	pred := domain.ClassifyRisk(0.9, 0.5)

	a := domain.NewPredictionRecord(reading, pred)
	b := domain.NewPredictionRecord(reading, pred)

	assert.Equal(t, a.ID, b.ID, "same inputs at the same instant must yield the same ID")
	assert.Regexp(t, `^pred-[0-9a-f]{16}$`, a.ID)
	assert.Equal(t, fakeClock.Now().UTC(), a.PredictedAt)
	assert.Equal(t, reading, a.ClimateReading)
	assert.Equal(t, pred, a.Prediction)
}

func TestNewPredictionRecord_IDVariesWithInput(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	pred := domain.ClassifyRisk(0.9, 0.5)
	a := domain.NewPredictionRecord(domain.ClimateReading{RelativeHumidityPercent: 35, WindSpeedKmh: 22, TemperatureCelsius: 38}, pred)
	b := domain.NewPredictionRecord(domain.ClimateReading{RelativeHumidityPercent: 36, WindSpeedKmh: 22, TemperatureCelsius: 38}, pred)

	assert.NotEqual(t, a.ID, b.ID)
}

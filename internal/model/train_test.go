package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticSamples builds a cleanly separable data set: dry hot months are
// positive, humid cool months are negative.
func syntheticSamples() []TrainingSample {
	var samples []TrainingSample
	for i := 0; i < 20; i++ {
		offset := float64(i % 5)
		samples = append(samples,
			TrainingSample{Features: []float64{25 + offset, 20 + offset, 35 + offset}, Positive: true},
			TrainingSample{Features: []float64{75 + offset, 5 + offset, 12 + offset}, Positive: false},
		)
	}
	return samples
}

func TestTrain_ProducesValidArtifact(t *testing.T) {
	artifact, err := Train(syntheticSamples(), TrainOptions{Trees: 10, MaxDepth: 3, Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, CurrentSchemaVersion, artifact.SchemaVersion)
	assert.Equal(t, ModelTypeRandomForest, artifact.ModelType)
	assert.Len(t, artifact.Trees, 10)
	require.NotNil(t, artifact.Calibration)
	assert.Equal(t, "isotonic", artifact.Calibration.Method)
	assert.False(t, artifact.TrainedAt.IsZero())

	_, err = New(artifact)
	require.NoError(t, err, "trained artifact must pass structural validation")
}

func TestTrain_SeparatesClasses(t *testing.T) {
	artifact, err := Train(syntheticSamples(), TrainOptions{Trees: 15, MaxDepth: 4, Seed: 3})
	require.NoError(t, err)

	f, err := New(artifact)
	require.NoError(t, err)

	dryHot, err := f.PositiveProbability([]float64{27, 22, 37})
	require.NoError(t, err)
	humidCool, err := f.PositiveProbability([]float64{77, 7, 14})
	require.NoError(t, err)

	assert.Greater(t, dryHot, humidCool, "dry hot months must score higher risk")
	assert.GreaterOrEqual(t, dryHot, 0.0)
	assert.LessOrEqual(t, dryHot, 1.0)
	assert.GreaterOrEqual(t, humidCool, 0.0)
	assert.LessOrEqual(t, humidCool, 1.0)
}

func TestTrain_DeterministicForSeed(t *testing.T) {
	a, err := Train(syntheticSamples(), TrainOptions{Trees: 5, Seed: 42})
	require.NoError(t, err)
	b, err := Train(syntheticSamples(), TrainOptions{Trees: 5, Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, a.Trees, b.Trees)
	assert.Equal(t, a.Calibration.X, b.Calibration.X)
	assert.Equal(t, a.Calibration.Y, b.Calibration.Y)
}

func TestTrain_RejectsBadInput(t *testing.T) {
	_, err := Train(nil, TrainOptions{})
	assert.Error(t, err)

	_, err = Train([]TrainingSample{
		{Features: []float64{50, 10, 20}, Positive: true},
		{Features: []float64{50, 10}, Positive: false},
		{Features: []float64{50, 10, 20}, Positive: true},
		{Features: []float64{50, 10, 20}, Positive: false},
	}, TrainOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "features")
}

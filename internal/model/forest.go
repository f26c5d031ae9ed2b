package model

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// Forest is the evaluable in-memory form of an Artifact. It is immutable
// after construction and safe for concurrent use.
type Forest struct {
	trees       [][]Node
	calibration *Calibration
	trainedAt   string
}

// New validates an artifact structurally and returns its evaluable form.
func New(a *Artifact) (*Forest, error) {
	if a.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported schema_version %d (want %d)", a.SchemaVersion, CurrentSchemaVersion)
	}
	if a.ModelType != ModelTypeRandomForest {
		return nil, fmt.Errorf("unsupported model_type %q", a.ModelType)
	}
	if len(a.FeatureNames) != len(domain.FeatureOrder) {
		return nil, fmt.Errorf("artifact has %d features, want %d", len(a.FeatureNames), len(domain.FeatureOrder))
	}
	for i, name := range domain.FeatureOrder {
		if a.FeatureNames[i] != name {
			return nil, fmt.Errorf("feature %d is %q, want %q", i, a.FeatureNames[i], name)
		}
	}
	if len(a.Trees) == 0 {
		return nil, errors.New("artifact contains no trees")
	}
	for ti, tree := range a.Trees {
		if err := validateTree(tree, len(domain.FeatureOrder)); err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
	}
	if a.Calibration != nil {
		if err := a.Calibration.validate(); err != nil {
			return nil, err
		}
	}

	f := &Forest{trees: a.Trees, calibration: a.Calibration}
	if !a.TrainedAt.IsZero() {
		f.trainedAt = a.TrainedAt.Format("2006-01-02")
	}
	return f, nil
}

func validateTree(nodes []Node, featureCount int) error {
	if len(nodes) == 0 {
		return errors.New("empty node array")
	}
	for i, n := range nodes {
		if n.IsLeaf {
			if n.LeafValue < 0 || n.LeafValue > 1 {
				return fmt.Errorf("node %d: leaf_value %g outside [0, 1]", i, n.LeafValue)
			}
			continue
		}
		if n.FeatureIdx < 0 || n.FeatureIdx >= featureCount {
			return fmt.Errorf("node %d: feature_idx %d out of range", i, n.FeatureIdx)
		}
		// Children must point forward to rule out cycles.
		if n.Left <= i || n.Left >= len(nodes) || n.Right <= i || n.Right >= len(nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

// TreeCount returns the number of trees in the forest.
func (f *Forest) TreeCount() int { return len(f.trees) }

// Calibrated reports whether the artifact carried a calibration block.
func (f *Forest) Calibrated() bool { return f.calibration != nil }

// TrainedAt returns the artifact's training date as YYYY-MM-DD, or "" when
// the artifact did not record one.
func (f *Forest) TrainedAt() string { return f.trainedAt }

// PositiveProbability evaluates the forest on a feature vector and returns
// the calibrated probability of the positive class.
func (f *Forest) PositiveProbability(features []float64) (float64, error) {
	if len(features) != len(domain.FeatureOrder) {
		return 0, fmt.Errorf("feature vector has %d values, want %d", len(features), len(domain.FeatureOrder))
	}

	var sum float64
	for _, tree := range f.trees {
		sum += evalTree(tree, features)
	}
	raw := sum / float64(len(f.trees))

	if f.calibration != nil {
		return f.calibration.Apply(raw), nil
	}
	return raw, nil
}

// RawProbability evaluates the forest without calibration. Used by the
// trainer to fit the calibration curve.
func (f *Forest) RawProbability(features []float64) float64 {
	var sum float64
	for _, tree := range f.trees {
		sum += evalTree(tree, features)
	}
	return sum / float64(len(f.trees))
}

// evalTree walks a flattened tree iteratively. Structural validity is
// guaranteed by New, so descent cannot go out of bounds.
func evalTree(nodes []Node, features []float64) float64 {
	idx := 0
	for {
		n := nodes[idx]
		if n.IsLeaf {
			return n.LeafValue
		}
		if features[n.FeatureIdx] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

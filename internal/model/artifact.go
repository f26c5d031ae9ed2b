// Package model loads and evaluates the calibrated random-forest artifact
// produced by the external training pipeline.
//
// # Artifact Format
//
// The artifact is a single JSON document:
//
//	{
//	  "schema_version": 1,
//	  "model_type": "random_forest",
//	  "feature_names": ["relative_humidity_percent", "wind_speed_kmh", "temperature_celsius"],
//	  "trees": [[{...node...}, ...], ...],
//	  "calibration": {"method": "isotonic", "x": [...], "y": [...]},
//	  "trained_at": "2026-05-01T00:00:00Z"
//	}
//
// Each tree is a flat node array. Descent starts at index 0 and goes left
// when x[feature_idx] <= threshold. Leaf nodes carry the positive-class
// fraction observed at that leaf during training. The raw forest probability
// is the mean of the per-tree leaf values; the calibration block maps it to
// a calibrated probability by linear interpolation between isotonic knots.
// An artifact without a calibration block yields raw probabilities.
package model

import "time"

// CurrentSchemaVersion is the only artifact schema this service reads.
const CurrentSchemaVersion = 1

// ModelTypeRandomForest is the only model type this service evaluates.
const ModelTypeRandomForest = "random_forest"

// Artifact is the on-disk form of the trained model.
type Artifact struct {
	SchemaVersion int          `json:"schema_version"`
	ModelType     string       `json:"model_type"`
	FeatureNames  []string     `json:"feature_names"`
	Trees         [][]Node     `json:"trees"`
	Calibration   *Calibration `json:"calibration,omitempty"`
	TrainedAt     time.Time    `json:"trained_at,omitempty"`
}

// Node is one node of a flattened decision tree. Left and Right are indices
// into the tree's node array; they are meaningless on leaves.
type Node struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	Left       int     `json:"left"`
	Right      int     `json:"right"`
	LeafValue  float64 `json:"leaf_value"`
	IsLeaf     bool    `json:"is_leaf"`
}

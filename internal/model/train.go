package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// TrainingSample is one labeled monthly observation.
type TrainingSample struct {
	Features []float64
	Positive bool // true = month had moderate/high fire activity
}

// TrainOptions control the dev trainer. Zero values fall back to defaults.
type TrainOptions struct {
	Trees    int   // default 25
	MaxDepth int   // default 4
	MinLeaf  int   // minimum samples per leaf, default 2
	Seed     int64 // bootstrap sampling seed, default 1
}

// Train builds a calibrated random-forest artifact from labeled samples.
//
// This is a development-fixture trainer: it exists so cmd/trainmodel and the
// test suite can produce structurally valid artifacts without the external
// training pipeline. Trees are grown on bootstrap samples with gini splits
// at per-feature medians, leaves store positive-class fractions, and the
// calibration curve is an isotonic fit of the labels on the raw forest
// probabilities over the training set.
func Train(samples []TrainingSample, opts TrainOptions) (*Artifact, error) {
	if len(samples) < 4 {
		return nil, errors.New("train: need at least 4 samples")
	}
	featureCount := len(domain.FeatureOrder)
	for i, s := range samples {
		if len(s.Features) != featureCount {
			return nil, fmt.Errorf("train: sample %d has %d features, want %d", i, len(s.Features), featureCount)
		}
	}
	if opts.Trees <= 0 {
		opts.Trees = 25
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 4
	}
	if opts.MinLeaf <= 0 {
		opts.MinLeaf = 2
	}
	if opts.Seed == 0 {
		opts.Seed = 1
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	trees := make([][]Node, opts.Trees)
	for t := range trees {
		boot := make([]TrainingSample, len(samples))
		for i := range boot {
			boot[i] = samples[rng.Intn(len(samples))]
		}
		trees[t] = growTree(boot, 0, opts.MaxDepth, opts.MinLeaf)
	}

	artifact := &Artifact{
		SchemaVersion: CurrentSchemaVersion,
		ModelType:     ModelTypeRandomForest,
		FeatureNames:  append([]string(nil), domain.FeatureOrder...),
		Trees:         trees,
		TrainedAt:     time.Now().UTC(),
	}

	// Fit calibration on the training set's raw forest outputs. Good enough
	// for a dev artifact; the external pipeline uses a held-out split.
	uncalibrated, err := New(artifact)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	raw := make([]float64, len(samples))
	targets := make([]float64, len(samples))
	for i, s := range samples {
		raw[i] = uncalibrated.RawProbability(s.Features)
		if s.Positive {
			targets[i] = 1
		}
	}
	cal, err := FitIsotonic(raw, targets)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	artifact.Calibration = cal

	return artifact, nil
}

// growTree recursively builds a flattened tree over the given samples.
func growTree(samples []TrainingSample, depth, maxDepth, minLeaf int) []Node {
	frac := positiveFraction(samples)
	if depth >= maxDepth || frac == 0 || frac == 1 || len(samples) < 2*minLeaf {
		return []Node{{FeatureIdx: -1, Left: -1, Right: -1, LeafValue: frac, IsLeaf: true}}
	}

	featureIdx, threshold, ok := bestSplit(samples, minLeaf)
	if !ok {
		return []Node{{FeatureIdx: -1, Left: -1, Right: -1, LeafValue: frac, IsLeaf: true}}
	}

	var left, right []TrainingSample
	for _, s := range samples {
		if s.Features[featureIdx] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	leftNodes := growTree(left, depth+1, maxDepth, minLeaf)
	rightNodes := growTree(right, depth+1, maxDepth, minLeaf)

	nodes := make([]Node, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, Node{
		FeatureIdx: featureIdx,
		Threshold:  threshold,
		Left:       1,
		Right:      1 + len(leftNodes),
	})
	nodes = append(nodes, offsetChildren(leftNodes, 1)...)
	nodes = append(nodes, offsetChildren(rightNodes, 1+len(leftNodes))...)
	return nodes
}

// offsetChildren shifts a subtree's child indices to their position in the
// parent's flattened node array.
func offsetChildren(nodes []Node, offset int) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if !n.IsLeaf {
			n.Left += offset
			n.Right += offset
		}
		out[i] = n
	}
	return out
}

// bestSplit picks the feature/threshold pair with the lowest weighted gini
// impurity, trying each feature's median as the candidate threshold.
func bestSplit(samples []TrainingSample, minLeaf int) (int, float64, bool) {
	featureCount := len(samples[0].Features)
	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := math.MaxFloat64

	for f := 0; f < featureCount; f++ {
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = s.Features[f]
		}
		threshold := median(values)

		var left, right []TrainingSample
		for _, s := range samples {
			if s.Features[f] <= threshold {
				left = append(left, s)
			} else {
				right = append(right, s)
			}
		}
		if len(left) < minLeaf || len(right) < minLeaf {
			continue
		}

		impurity := weightedGini(left, right)
		if impurity < bestImpurity {
			bestImpurity = impurity
			bestFeature = f
			bestThreshold = threshold
		}
	}

	if bestFeature == -1 {
		return -1, 0, false
	}
	return bestFeature, bestThreshold, true
}

func weightedGini(left, right []TrainingSample) float64 {
	lw := float64(len(left))
	rw := float64(len(right))
	total := lw + rw
	return (lw/total)*gini(left) + (rw/total)*gini(right)
}

func gini(samples []TrainingSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	p := positiveFraction(samples)
	return 1 - p*p - (1-p)*(1-p)
}

func positiveFraction(samples []TrainingSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var pos int
	for _, s := range samples {
		if s.Positive {
			pos++
		}
	}
	return float64(pos) / float64(len(samples))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

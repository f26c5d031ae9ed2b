package model

import (
	"errors"
	"fmt"
	"sort"
)

// Calibration maps raw forest probabilities to calibrated probabilities by
// linear interpolation between isotonic regression knots. X must be strictly
// increasing and Y non-decreasing in [0, 1]; inputs outside the knot range
// clamp to the boundary values.
type Calibration struct {
	Method string    `json:"method"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

func (c *Calibration) validate() error {
	if len(c.X) == 0 || len(c.X) != len(c.Y) {
		return errors.New("calibration: x and y must be non-empty and the same length")
	}
	for i := range c.X {
		if c.Y[i] < 0 || c.Y[i] > 1 {
			return fmt.Errorf("calibration: y[%d]=%g outside [0, 1]", i, c.Y[i])
		}
		if i == 0 {
			continue
		}
		if c.X[i] <= c.X[i-1] {
			return fmt.Errorf("calibration: x not strictly increasing at index %d", i)
		}
		if c.Y[i] < c.Y[i-1] {
			return fmt.Errorf("calibration: y decreasing at index %d", i)
		}
	}
	return nil
}

// Apply maps a raw probability through the calibration curve.
func (c *Calibration) Apply(p float64) float64 {
	n := len(c.X)
	if p <= c.X[0] {
		return c.Y[0]
	}
	if p >= c.X[n-1] {
		return c.Y[n-1]
	}
	// First knot with X >= p; interpolate between it and its predecessor.
	i := sort.SearchFloat64s(c.X, p)
	if c.X[i] == p {
		return c.Y[i]
	}
	x0, x1 := c.X[i-1], c.X[i]
	y0, y1 := c.Y[i-1], c.Y[i]
	return y0 + (y1-y0)*(p-x0)/(x1-x0)
}

// FitIsotonic fits an isotonic regression of targets on raw scores using the
// pool-adjacent-violators algorithm and returns it as calibration knots.
// Targets are typically 0/1 class labels; raw scores are uncalibrated forest
// probabilities. Ties in raw are merged by weighted average before pooling.
func FitIsotonic(raw, targets []float64) (*Calibration, error) {
	if len(raw) == 0 || len(raw) != len(targets) {
		return nil, errors.New("isotonic fit: raw and targets must be non-empty and the same length")
	}

	type point struct {
		x, y, w float64
	}

	pts := make([]point, len(raw))
	for i := range raw {
		pts[i] = point{x: raw[i], y: targets[i], w: 1}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].x < pts[j].x })

	// Merge identical x values so the knot sequence is strictly increasing.
	merged := pts[:1]
	for _, p := range pts[1:] {
		last := &merged[len(merged)-1]
		if p.x == last.x {
			total := last.w + p.w
			last.y = (last.y*last.w + p.y*p.w) / total
			last.w = total
			continue
		}
		merged = append(merged, p)
	}

	// Pool adjacent violators: repeatedly merge blocks whose weighted mean
	// decreases, so the fitted sequence is non-decreasing.
	blocks := make([]point, 0, len(merged))
	for _, p := range merged {
		blocks = append(blocks, p)
		for len(blocks) > 1 && blocks[len(blocks)-1].y < blocks[len(blocks)-2].y {
			a, b := blocks[len(blocks)-2], blocks[len(blocks)-1]
			total := a.w + b.w
			blocks = blocks[:len(blocks)-2]
			blocks = append(blocks, point{
				x: b.x, // block is represented by its rightmost x
				y: (a.y*a.w + b.y*b.w) / total,
				w: total,
			})
		}
	}

	cal := &Calibration{Method: "isotonic", X: make([]float64, len(blocks)), Y: make([]float64, len(blocks))}
	for i, b := range blocks {
		cal.X[i] = b.x
		cal.Y[i] = clamp01(b.y)
	}
	return cal, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

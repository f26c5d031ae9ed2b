// Package domain models fire-risk predictions over monthly climate readings.
//
// # Data Source
//
// The classifier behind this service was trained by an external pipeline on
// historical monthly climate records and fire-activity reports from the
// Córdoba region. The training pipeline exports the calibrated random forest
// as a JSON artifact; this service only loads and evaluates it. See the
// internal/model package for the artifact schema.
//
// # Input Conventions
//
// A reading carries three monthly climate values, in the units and inclusive
// ranges the model was trained on:
//
//	relative_humidity_percent: [20, 100] percent
//	wind_speed_kmh:            [0, 40] km/h
//	temperature_celsius:       [0, 45] °C
//
// Values outside these ranges are rejected before inference; the model has
// never seen such inputs and its output for them would be meaningless.
// NaN and infinities are rejected for the same reason.
//
// # Risk Labels
//
// The classifier is binary:
//
//	low              — conditions resemble months with little fire activity
//	moderate_or_high — conditions resemble months with elevated fire activity
//
// The positive class is moderate_or_high. Its calibrated probability is
// compared against a configurable decision threshold (0.5 by default) to
// produce the label. Confidence is the calibrated probability of whichever
// class was predicted.
//
// # Record IDs
//
// Prediction record IDs are deterministic SHA-256 hashes of the input values
// and the prediction timestamp. Replaying the same request at the same
// instant produces the same ID, which keeps downstream consumers of the
// prediction event stream idempotent. See [NewPredictionRecord].
package domain

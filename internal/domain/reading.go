package domain

import (
	"fmt"
	"math"
)

// Field names used in validation errors and on the wire. The order in
// FeatureOrder is the feature-vector order the model was trained with.
const (
	FieldRelativeHumidity = "relative_humidity_percent"
	FieldWindSpeed        = "wind_speed_kmh"
	FieldTemperature      = "temperature_celsius"
)

// FeatureOrder is the canonical ordering of inputs in the model's feature
// vector. Artifacts whose feature list disagrees with this are rejected.
var FeatureOrder = []string{FieldRelativeHumidity, FieldWindSpeed, FieldTemperature}

// FieldBound is an inclusive valid range for one climate input.
type FieldBound struct {
	Min float64
	Max float64
}

// Bounds holds the authoritative input domains. These match the ranges the
// training data covered; all components MUST validate against them.
var Bounds = map[string]FieldBound{
	FieldRelativeHumidity: {Min: 20, Max: 100},
	FieldWindSpeed:        {Min: 0, Max: 40},
	FieldTemperature:      {Min: 0, Max: 45},
}

// ClimateReading is one set of monthly climate inputs to the classifier.
type ClimateReading struct {
	RelativeHumidityPercent float64 `json:"relative_humidity_percent"`
	WindSpeedKmh            float64 `json:"wind_speed_kmh"`
	TemperatureCelsius      float64 `json:"temperature_celsius"`
}

// ValidationError reports an input outside its valid domain. Field names the
// offending input using its wire name.
type ValidationError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: value %g outside valid range [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

// Validate checks every field against its inclusive domain. It returns a
// *ValidationError naming the first offending field, or nil when the reading
// is within the trained input space.
func (r ClimateReading) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{FieldRelativeHumidity, r.RelativeHumidityPercent},
		{FieldWindSpeed, r.WindSpeedKmh},
		{FieldTemperature, r.TemperatureCelsius},
	}
	for _, c := range checks {
		b := Bounds[c.field]
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || c.value < b.Min || c.value > b.Max {
			return &ValidationError{Field: c.field, Value: c.value, Min: b.Min, Max: b.Max}
		}
	}
	return nil
}

// Features returns the reading as a feature vector in FeatureOrder.
func (r ClimateReading) Features() []float64 {
	return []float64{r.RelativeHumidityPercent, r.WindSpeedKmh, r.TemperatureCelsius}
}

// Command predict runs a single classification against a model artifact
// from the command line, without starting the HTTP server.
//
// Usage:
//
//	go run ./cmd/predict \
//	  -model artifacts/fire_risk_rf.json \
//	  -humidity 28 -wind 24 -temp 39
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/model"
)

func main() {
	modelPath := flag.String("model", "artifacts/fire_risk_rf.json", "path to the model artifact")
	humidity := flag.Float64("humidity", 0, "relative humidity in percent [20, 100]")
	wind := flag.Float64("wind", 0, "wind speed in km/h [0, 40]")
	temp := flag.Float64("temp", 0, "temperature in celsius [0, 45]")
	threshold := flag.Float64("threshold", 0.5, "decision threshold for the moderate/high class")
	flag.Parse()

	if err := run(*modelPath, *humidity, *wind, *temp, *threshold); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(modelPath string, humidity, wind, temp, threshold float64) error {
	reading := domain.ClimateReading{
		RelativeHumidityPercent: humidity,
		WindSpeedKmh:            wind,
		TemperatureCelsius:      temp,
	}
	if err := reading.Validate(); err != nil {
		return err
	}

	forest, err := model.Load(modelPath)
	if err != nil {
		return err
	}

	probability, err := forest.PositiveProbability(reading.Features())
	if err != nil {
		return err
	}
	pred := domain.ClassifyRisk(probability, threshold)

	fmt.Printf("model: %s (%d trees, calibrated=%v, trained %s)\n",
		modelPath, forest.TreeCount(), forest.Calibrated(), forest.TrainedAt())
	fmt.Printf("input: humidity=%g%% wind=%g km/h temp=%g°C\n", humidity, wind, temp)
	fmt.Printf("risk: %s (probability %.4f, confidence %.4f)\n",
		pred.RiskLabel, pred.RiskProbability, pred.Confidence)
	return nil
}

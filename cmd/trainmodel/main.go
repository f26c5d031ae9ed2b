// Command trainmodel builds a calibrated random-forest artifact from a
// labeled CSV of monthly climate observations. It exists so local
// development and the test suite have a way to produce structurally valid
// artifacts; production artifacts come from the offline training pipeline.
//
// The input CSV must have a header row with the columns
// relative_humidity_percent, wind_speed_kmh, temperature_celsius, and
// high_risk (1 for months with moderate/high fire activity, 0 otherwise).
//
// Usage:
//
//	go run ./cmd/trainmodel \
//	  -csv data/monthly_observations.csv \
//	  -out artifacts/fire_risk_rf.json \
//	  -trees 25 -max-depth 4 -seed 1
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/model"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "path to labeled observations CSV")
	outPath := flag.String("out", "artifacts/fire_risk_rf.json", "output path for the model artifact")
	trees := flag.Int("trees", 25, "number of trees")
	maxDepth := flag.Int("max-depth", 4, "maximum tree depth")
	minLeaf := flag.Int("min-leaf", 2, "minimum samples per leaf")
	seed := flag.Int64("seed", 1, "bootstrap sampling seed")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -csv")
	}

	samples, err := loadSamples(*csvPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *csvPath, err)
	}
	log.Printf("loaded %d samples (%d positive)", len(samples), countPositive(samples))

	artifact, err := model.Train(samples, model.TrainOptions{
		Trees:    *trees,
		MaxDepth: *maxDepth,
		MinLeaf:  *minLeaf,
		Seed:     *seed,
	})
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	if err := writeArtifact(*outPath, artifact); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	log.Printf("wrote artifact: %s (%d trees, %d calibration knots)",
		*outPath, len(artifact.Trees), len(artifact.Calibration.X))

	printTrainingFit(artifact, samples)
	return nil
}

// loadSamples parses the labeled CSV into training samples, resolving
// columns by header name so column order does not matter.
func loadSamples(path string) ([]model.TrainingSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[h] = i
	}
	for _, col := range append(append([]string(nil), domain.FeatureOrder...), "high_risk") {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	samples := make([]model.TrainingSample, 0, len(rows)-1)
	for i, row := range rows[1:] {
		features := make([]float64, len(domain.FeatureOrder))
		for j, col := range domain.FeatureOrder {
			v, err := strconv.ParseFloat(row[colIdx[col]], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w", i+2, col, err)
			}
			features[j] = v
		}
		label, err := strconv.ParseBool(row[colIdx["high_risk"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: column high_risk: %w", i+2, err)
		}
		samples = append(samples, model.TrainingSample{Features: features, Positive: label})
	}
	return samples, nil
}

func countPositive(samples []model.TrainingSample) int {
	var n int
	for _, s := range samples {
		if s.Positive {
			n++
		}
	}
	return n
}

func writeArtifact(path string, artifact *model.Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printTrainingFit reports training-set accuracy at the default threshold,
// useful for eyeballing whether the artifact is worth keeping.
func printTrainingFit(artifact *model.Artifact, samples []model.TrainingSample) {
	forest, err := model.New(artifact)
	if err != nil {
		log.Printf("fit check skipped: %v", err)
		return
	}

	var correct int
	for _, s := range samples {
		p, err := forest.PositiveProbability(s.Features)
		if err != nil {
			log.Printf("fit check skipped: %v", err)
			return
		}
		predicted := p > 0.5
		if predicted == s.Positive {
			correct++
		}
	}
	fmt.Printf("training-set accuracy at threshold 0.5: %d/%d (%.1f%%)\n",
		correct, len(samples), 100*float64(correct)/float64(len(samples)))
}

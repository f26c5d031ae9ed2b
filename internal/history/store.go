// Package history keeps a bounded in-memory log of recent predictions and
// exports it as CSV. Records are not persisted across restarts; durable
// consumers subscribe to the prediction event stream instead.
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// csvHeader is the column order of exported history files.
var csvHeader = []string{
	"id",
	"predicted_at",
	"relative_humidity_percent",
	"wind_speed_kmh",
	"temperature_celsius",
	"risk_label",
	"risk_probability",
	"confidence",
}

// Store is a fixed-capacity, newest-first log of prediction records.
// Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	limit   int
	records []domain.PredictionRecord
}

// NewStore creates a Store that retains at most limit records, discarding
// the oldest once full.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = 1
	}
	return &Store{limit: limit}
}

// Add appends a record, evicting the oldest when the store is full.
func (s *Store) Add(rec domain.PredictionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	if len(s.records) > s.limit {
		s.records = s.records[len(s.records)-s.limit:]
	}
}

// List returns a copy of the stored records, newest first.
func (s *Store) List() []domain.PredictionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PredictionRecord, len(s.records))
	for i, rec := range s.records {
		out[len(s.records)-1-i] = rec
	}
	return out
}

// Len returns the number of records currently stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// WriteCSV writes the history, newest first, as CSV with a header row.
func (s *Store) WriteCSV(w io.Writer) error {
	records := s.List()

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.PredictedAt.Format(time.RFC3339),
			formatFloat(rec.RelativeHumidityPercent),
			formatFloat(rec.WindSpeedKmh),
			formatFloat(rec.TemperatureCelsius),
			string(rec.RiskLabel),
			strconv.FormatFloat(rec.RiskProbability, 'f', 4, 64),
			strconv.FormatFloat(rec.Confidence, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

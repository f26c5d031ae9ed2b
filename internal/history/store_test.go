package history_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecord(id string, humidity float64) domain.PredictionRecord {
	return domain.PredictionRecord{
		ID: id,
		ClimateReading: domain.ClimateReading{
			RelativeHumidityPercent: humidity,
			WindSpeedKmh:            15,
			TemperatureCelsius:      25,
		},
		Prediction: domain.Prediction{
			RiskLabel:       domain.RiskLow,
			Confidence:      0.8,
			RiskProbability: 0.2,
		},
		PredictedAt: time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_NewestFirst(t *testing.T) {
	s := history.NewStore(10)
	s.Add(makeRecord("a", 30))
	s.Add(makeRecord("b", 40))
	s.Add(makeRecord("c", 50))

	records := s.List()
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "a", records[2].ID)
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	s := history.NewStore(2)
	s.Add(makeRecord("a", 30))
	s.Add(makeRecord("b", 40))
	s.Add(makeRecord("c", 50))

	records := s.List()
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, 2, s.Len())
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := history.NewStore(10)
	s.Add(makeRecord("a", 30))

	records := s.List()
	records[0].ID = "mutated"

	assert.Equal(t, "a", s.List()[0].ID)
}

func TestStore_WriteCSV(t *testing.T) {
	s := history.NewStore(10)
	s.Add(makeRecord("a", 32.5))
	s.Add(makeRecord("b", 47))

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per record")

	assert.Equal(t, []string{
		"id", "predicted_at",
		"relative_humidity_percent", "wind_speed_kmh", "temperature_celsius",
		"risk_label", "risk_probability", "confidence",
	}, rows[0])

	assert.Equal(t, "b", rows[1][0], "newest record first")
	assert.Equal(t, "47", rows[1][2])
	assert.Equal(t, "a", rows[2][0])
	assert.Equal(t, "32.5", rows[2][2])
	assert.Equal(t, "2026-07-01T12:00:00Z", rows[1][1])
	assert.Equal(t, "low", rows[1][5])
	assert.Equal(t, "0.2000", rows[1][6])
	assert.Equal(t, "0.8000", rows[1][7])
}

func TestStore_WriteCSV_EmptyHistoryHasHeaderOnly(t *testing.T) {
	s := history.NewStore(10)

	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := history.NewStore(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Add(makeRecord(fmt.Sprintf("r-%d", i), 30))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}

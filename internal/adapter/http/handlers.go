package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// maxBodyBytes caps prediction request bodies; three floats never need more.
const maxBodyBytes = 1 << 16

// errorResponse is the JSON body of a failed API request. Field and
// ValidRange are set for domain validation failures so clients can
// re-prompt with the allowed bounds.
type errorResponse struct {
	Error      string      `json:"error"`
	Field      string      `json:"field,omitempty"`
	ValidRange *[2]float64 `json:"valid_range,omitempty"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	reading, ok := decodeReading(w, r)
	if !ok {
		return
	}

	rec, err := s.predictor.Predict(r.Context(), reading)
	if err != nil {
		s.writePredictError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	records := s.history.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"predictions": records,
		"count":       len(records),
	})
}

func (s *Server) handleHistoryCSV(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="prediction_history.csv"`)
	if err := s.history.WriteCSV(w); err != nil {
		s.logger.Error("write history csv failed", "error", err)
	}
}

// decodeReading parses the JSON request body, writing a 400 on failure.
func decodeReading(w http.ResponseWriter, r *http.Request) (domain.ClimateReading, bool) {
	var reading domain.ClimateReading
	if err := jsonDecode(r, &reading); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: expected JSON with numeric climate fields"})
		return domain.ClimateReading{}, false
	}
	return reading, true
}

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v)
}

// writePredictError maps predictor failures to HTTP responses. Validation
// failures are the caller's to correct; anything else is a 500.
func (s *Server) writePredictError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      verr.Error(),
			Field:      verr.Field,
			ValidRange: &[2]float64{verr.Min, verr.Max},
		})
		return
	}
	s.logger.Error("prediction failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

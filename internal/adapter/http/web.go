package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.html").
	Funcs(template.FuncMap{
		"mulpct": func(p float64) float64 { return p * 100 },
	}).
	ParseFS(templateFS, "templates/index.html"))

// formField describes one numeric input on the form page.
type formField struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Value string
}

// pageData is the template context for the form page.
type pageData struct {
	Fields  []formField
	Result  *domain.PredictionRecord
	Error   string
	History []domain.PredictionRecord
}

// formFields returns the three inputs with their bounds and sticky values.
func formFields(values map[string]string) []formField {
	fields := []formField{
		{Name: domain.FieldRelativeHumidity, Label: "Relative Humidity (%)", Value: "50"},
		{Name: domain.FieldWindSpeed, Label: "Wind Speed (km/h)", Value: "15"},
		{Name: domain.FieldTemperature, Label: "Temperature (°C)", Value: "25"},
	}
	for i := range fields {
		b := domain.Bounds[fields[i].Name]
		fields[i].Min = b.Min
		fields[i].Max = b.Max
		if v, ok := values[fields[i].Name]; ok {
			fields[i].Value = v
		}
	}
	return fields
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderIndex(w, pageData{
		Fields:  formFields(nil),
		History: s.history.List(),
	})
}

func (s *Server) handleFormPredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form submission", http.StatusBadRequest)
		return
	}

	values := map[string]string{
		domain.FieldRelativeHumidity: strings.TrimSpace(r.PostFormValue(domain.FieldRelativeHumidity)),
		domain.FieldWindSpeed:        strings.TrimSpace(r.PostFormValue(domain.FieldWindSpeed)),
		domain.FieldTemperature:      strings.TrimSpace(r.PostFormValue(domain.FieldTemperature)),
	}

	reading, err := parseFormReading(values)
	if err == nil {
		var rec domain.PredictionRecord
		rec, err = s.predictor.Predict(r.Context(), reading)
		if err == nil {
			s.renderIndex(w, pageData{
				Fields:  formFields(values),
				Result:  &rec,
				History: s.history.List(),
			})
			return
		}
	}

	msg := "prediction failed"
	var verr *domain.ValidationError
	var perr *formParseError
	switch {
	case errors.As(err, &verr):
		msg = verr.Error()
	case errors.As(err, &perr):
		msg = perr.Error()
	default:
		s.logger.Error("form prediction failed", "error", err)
	}

	s.renderIndex(w, pageData{
		Fields:  formFields(values),
		Error:   msg,
		History: s.history.List(),
	})
}

type formParseError struct {
	field string
}

func (e *formParseError) Error() string {
	return e.field + ": must be a number"
}

// parseFormReading converts form values into a reading. Malformed numerics
// are reported per field, same as domain validation failures.
func parseFormReading(values map[string]string) (domain.ClimateReading, error) {
	parse := func(field string) (float64, error) {
		v, err := strconv.ParseFloat(values[field], 64)
		if err != nil {
			return 0, &formParseError{field: field}
		}
		return v, nil
	}

	humidity, err := parse(domain.FieldRelativeHumidity)
	if err != nil {
		return domain.ClimateReading{}, err
	}
	wind, err := parse(domain.FieldWindSpeed)
	if err != nil {
		return domain.ClimateReading{}, err
	}
	temp, err := parse(domain.FieldTemperature)
	if err != nil {
		return domain.ClimateReading{}, err
	}

	return domain.ClimateReading{
		RelativeHumidityPercent: humidity,
		WindSpeedKmh:            wind,
		TemperatureCelsius:      temp,
	}, nil
}

func (s *Server) renderIndex(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render form page failed", "error", err)
	}
}

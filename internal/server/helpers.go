package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"finboard/internal"
	"finboard/internal/dart"
	"finboard/internal/narrative"
	"finboard/internal/pipeline"
)

const (
	defaultYear      = 2023
	defaultStartYear = 2020
	defaultEndYear   = 2023
)

var errBadParam = errors.New("invalid query parameter")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeOK(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeError(w http.ResponseWriter, status int, message string, extra map[string]any) {
	body := map[string]any{"success": false, "error": message}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		se       *dart.SourceError
		te       *dart.TransportError
		rangeErr *pipeline.RangeError
	)
	switch {
	case errors.Is(err, errBadParam),
		errors.Is(err, pipeline.ErrInvalidYear),
		errors.Is(err, pipeline.ErrInvalidReportPeriod),
		errors.Is(err, pipeline.ErrInvalidRange),
		errors.Is(err, pipeline.ErrEmptyCorpCode):
		return http.StatusBadRequest
	case errors.Is(err, dart.ErrMissingAPIKey),
		errors.Is(err, narrative.ErrMissingAPIKey),
		errors.Is(err, narrative.ErrInvalidAPIKey),
		errors.Is(err, narrative.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, narrative.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.As(err, &se) && se.NoData():
		return http.StatusNotFound
	case errors.As(err, &rangeErr):
		return http.StatusNotFound
	case errors.As(err, &se), errors.As(err, &te):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errBadParamf(name)
	}
	return v, nil
}

func periodParam(r *http.Request) (internal.ReportPeriod, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("report_type"))
	if raw == "" {
		return internal.ReportAnnual, nil
	}
	p, ok := internal.ParseReportPeriod(raw)
	if !ok {
		return "", pipeline.ErrInvalidReportPeriod
	}
	return p, nil
}

type paramError struct{ name string }

func (e paramError) Error() string { return "invalid query parameter: " + e.name }
func (e paramError) Unwrap() error { return errBadParam }

func errBadParamf(name string) error { return paramError{name: name} }

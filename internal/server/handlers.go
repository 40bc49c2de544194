package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"finboard/internal"
	"finboard/internal/narrative"
	"finboard/internal/pipeline"
)

var errAnalyzerDisabled = fmt.Errorf("narrative analysis is not configured: %w", narrative.ErrMissingAPIKey)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	companies, err := s.directory.Search(q, s.opts.SearchLimit)
	if err != nil {
		s.fail(w, err, nil)
		return
	}
	writeOK(w, map[string]any{"companies": companies, "total": len(companies)})
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	company, ok := s.lookupCompany(w, r.PathValue("corp_code"))
	if !ok {
		return
	}
	writeOK(w, map[string]any{"company": company})
}

func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	corpCode := r.PathValue("corp_code")
	year, period, err := yearParams(r)
	if err != nil {
		s.fail(w, err, nil)
		return
	}

	res, err := s.resolver.ResolveYear(r.Context(), corpCode, year, period)
	if err != nil {
		s.fail(w, err, nil)
		return
	}
	writeOK(w, yearPayload(res))
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	corpCode := r.PathValue("corp_code")
	start, end, period, err := s.rangeParams(r)
	if err != nil {
		s.fail(w, err, nil)
		return
	}

	series, err := s.resolver.ResolveRange(r.Context(), corpCode, start, end, period)
	if err != nil {
		s.fail(w, err, rangeExtra(err))
		return
	}
	writeOK(w, map[string]any{
		"data":       series,
		"chart_data": pipeline.SeriesChart(series),
		"errors":     diagnosticStrings(series.Errors),
	})
}

func (s *Server) handleAnalyzeYear(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.fail(w, errAnalyzerDisabled, nil)
		return
	}
	company, ok := s.lookupCompany(w, r.PathValue("corp_code"))
	if !ok {
		return
	}
	year, period, err := yearParams(r)
	if err != nil {
		s.fail(w, err, nil)
		return
	}

	res, err := s.resolver.ResolveYear(r.Context(), company.CorpCode, year, period)
	if err != nil {
		s.fail(w, fmt.Errorf("resolve financials: %w", err), nil)
		return
	}
	analysis, err := s.analyzer.AnalyzeYear(r.Context(), company.CorpName, res.Summary)
	if err != nil {
		s.fail(w, err, nil)
		return
	}
	writeOK(w, map[string]any{
		"analysis":     analysis,
		"company_name": company.CorpName,
		"year":         year,
		"report_type":  period,
		"resolved":     res.Resolved,
	})
}

func (s *Server) handleAnalyzeTrends(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.fail(w, errAnalyzerDisabled, nil)
		return
	}
	company, ok := s.lookupCompany(w, r.PathValue("corp_code"))
	if !ok {
		return
	}
	start, end, period, err := s.rangeParams(r)
	if err != nil {
		s.fail(w, err, nil)
		return
	}

	series, err := s.resolver.ResolveRange(r.Context(), company.CorpCode, start, end, period)
	if err != nil {
		s.fail(w, fmt.Errorf("resolve financials: %w", err), rangeExtra(err))
		return
	}
	analysis, err := s.analyzer.AnalyzeTrends(r.Context(), company.CorpName, series)
	if err != nil {
		s.fail(w, err, nil)
		return
	}
	writeOK(w, map[string]any{
		"trend_analysis": analysis,
		"company_name":   company.CorpName,
		"years":          fmt.Sprintf("%d-%d", start, end),
		"report_type":    period,
		"errors":         diagnosticStrings(series.Errors),
	})
}

func (s *Server) lookupCompany(w http.ResponseWriter, corpCode string) (*internal.Company, bool) {
	company, err := s.directory.Company(corpCode)
	if err != nil {
		s.fail(w, err, nil)
		return nil, false
	}
	if company == nil {
		writeError(w, http.StatusNotFound, "company not found: "+corpCode, nil)
		return nil, false
	}
	return company, true
}

func (s *Server) fail(w http.ResponseWriter, err error, extra map[string]any) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeError(w, status, err.Error(), extra)
}

func yearParams(r *http.Request) (int, internal.ReportPeriod, error) {
	year, err := intParam(r, "year", defaultYear)
	if err != nil {
		return 0, "", err
	}
	period, err := periodParam(r)
	if err != nil {
		return 0, "", err
	}
	return year, period, nil
}

func (s *Server) rangeParams(r *http.Request) (int, int, internal.ReportPeriod, error) {
	start, err := intParam(r, "start_year", defaultStartYear)
	if err != nil {
		return 0, 0, "", err
	}
	end, err := intParam(r, "end_year", defaultEndYear)
	if err != nil {
		return 0, 0, "", err
	}
	period, err := periodParam(r)
	if err != nil {
		return 0, 0, "", err
	}
	if end-start+1 > s.opts.MaxRangeYears {
		return 0, 0, "", fmt.Errorf("%w: at most %d years per request", errBadParam, s.opts.MaxRangeYears)
	}
	return start, end, period, nil
}

func yearPayload(res internal.YearResult) map[string]any {
	return map[string]any{
		"summary":     res.Summary,
		"chart_data":  pipeline.ChartData(res.Summary),
		"requested":   res.Requested,
		"resolved":    res.Resolved,
		"substituted": res.Substituted(),
		"attempts":    res.Attempts,
	}
}

func rangeExtra(err error) map[string]any {
	var rangeErr *pipeline.RangeError
	if errors.As(err, &rangeErr) {
		return map[string]any{"errors": diagnosticStrings(rangeErr.Diagnostics)}
	}
	return nil
}

func diagnosticStrings(diags []internal.YearDiagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.String())
	}
	return out
}

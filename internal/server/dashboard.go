package server

import (
	"bytes"
	"net/http"

	"finboard/internal"
)

type dashboardRow struct {
	Label    string
	Account  string
	Current  int64
	Previous int64
}

type dashboardPage struct {
	Company     internal.Company
	Year        int
	Period      internal.ReportPeriod
	Resolved    internal.Selector
	Substituted bool
	Rows        []dashboardRow
	Warnings    []string
	Error       string
}

var dashboardCategories = []struct {
	category internal.Category
	label    string
}{
	{internal.CategoryTotalAssets, "자산총계"},
	{internal.CategoryTotalLiabilities, "부채총계"},
	{internal.CategoryTotalEquity, "자본총계"},
	{internal.CategoryRevenue, "매출액"},
	{internal.CategoryOperatingProfit, "영업이익"},
	{internal.CategoryNetProfit, "당기순이익"},
}

// handleDashboard renders the company page with the requested year's summary.
// A failed lookup is shown on the page rather than failing the request.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	corpCode := r.PathValue("corp_code")
	company, err := s.directory.Company(corpCode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if company == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	page := dashboardPage{Company: *company}
	year, period, err := yearParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	page.Year, page.Period = year, period

	res, err := s.resolver.ResolveYear(r.Context(), company.CorpCode, year, period)
	if err != nil {
		page.Error = err.Error()
	} else {
		page.Resolved = res.Resolved
		page.Substituted = res.Substituted()
		page.Warnings = res.Summary.Warnings
		for _, c := range dashboardCategories {
			e, ok := res.Summary.Lookup(c.category)
			if !ok {
				continue
			}
			page.Rows = append(page.Rows, dashboardRow{Label: c.label, Account: e.Account, Current: e.Current, Previous: e.Previous})
		}
	}

	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "dashboard.html", page); err != nil {
		s.logger.Error().Err(err).Msg("render dashboard")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

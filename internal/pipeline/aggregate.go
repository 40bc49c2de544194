package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"finboard/internal"
)

// RangeError is returned when no year of a range could be resolved.
type RangeError struct {
	Diagnostics []internal.YearDiagnostic
}

func (e *RangeError) Error() string {
	parts := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		parts = append(parts, d.String())
	}
	return fmt.Sprintf("no year resolved: %s", strings.Join(parts, "; "))
}

type yearOutcome struct {
	result internal.YearResult
	err    error
}

// ResolveRange resolves every year of [startYear, endYear] and lines the
// results up as parallel series in ascending year order. Years that fail are
// reported as diagnostics; the call fails only when every year fails.
func (r *Resolver) ResolveRange(ctx context.Context, corpCode string, startYear, endYear int, period internal.ReportPeriod) (internal.MultiYearSeries, error) {
	corpCode = strings.TrimSpace(corpCode)
	if err := ValidateYear(startYear); err != nil {
		return internal.MultiYearSeries{}, err
	}
	if err := ValidateYear(endYear); err != nil {
		return internal.MultiYearSeries{}, err
	}
	if startYear > endYear {
		return internal.MultiYearSeries{}, ErrInvalidRange
	}
	if !period.Valid() {
		return internal.MultiYearSeries{}, ErrInvalidReportPeriod
	}
	if corpCode == "" {
		return internal.MultiYearSeries{}, ErrEmptyCorpCode
	}

	outcomes := make([]yearOutcome, endYear-startYear+1)

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := range outcomes {
		year := startYear + i
		g.Go(func() error {
			res, err := r.ResolveYear(ctx, corpCode, year, period)
			outcomes[i] = yearOutcome{result: res, err: err}
			return nil
		})
	}
	_ = g.Wait()

	series := internal.NewMultiYearSeries()
	for i, out := range outcomes {
		year := startYear + i
		if out.err != nil {
			r.logger.Warn().
				Str("corp_code", corpCode).
				Int("year", year).
				Err(out.err).
				Msg("year failed")
			series.Errors = append(series.Errors, internal.YearDiagnostic{Year: year, Message: out.err.Error()})
			continue
		}
		s := out.result.Summary
		series.Years = append(series.Years, year)
		series.Revenue = append(series.Revenue, s.Current(internal.CategoryRevenue))
		series.OperatingProfit = append(series.OperatingProfit, s.Current(internal.CategoryOperatingProfit))
		series.NetProfit = append(series.NetProfit, s.Current(internal.CategoryNetProfit))
		series.TotalAssets = append(series.TotalAssets, s.Current(internal.CategoryTotalAssets))
		series.TotalLiabilities = append(series.TotalLiabilities, s.Current(internal.CategoryTotalLiabilities))
		series.TotalEquity = append(series.TotalEquity, s.Current(internal.CategoryTotalEquity))
	}

	if !series.OK() {
		return series, &RangeError{Diagnostics: series.Errors}
	}
	return series, nil
}

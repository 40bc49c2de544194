package pipeline

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/ternarybob/arbor"

	"finboard/internal"
	"finboard/internal/dart"
	"finboard/internal/logging"
)

const (
	minYear = 1000
	maxYear = 9999
)

var (
	ErrInvalidYear         = errors.New("year must be a 4-digit number")
	ErrInvalidReportPeriod = errors.New("report period must be one of 11011, 11012, 11013, 11014")
	ErrInvalidRange        = errors.New("start year must not be after end year")
	ErrEmptyCorpCode       = errors.New("corp code is required")
)

// StatementSource performs a single statement request for one selector.
// *dart.Client satisfies it.
type StatementSource interface {
	FetchStatements(ctx context.Context, sel internal.Selector) ([]internal.RawLineItem, error)
}

// Resolver turns (company, year, period) requests into classified summaries,
// substituting nearby filings when the requested one does not exist.
type Resolver struct {
	source  StatementSource
	logger  arbor.ILogger
	workers int
}

func NewResolver(source StatementSource, logger arbor.ILogger, workers int) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}
	if workers <= 0 {
		workers = 1
	}
	return &Resolver{source: source, logger: logger, workers: workers}
}

func ValidateYear(year int) error {
	if year < minYear || year > maxYear {
		return ErrInvalidYear
	}
	return nil
}

func ValidateSelector(sel internal.Selector) error {
	if strings.TrimSpace(sel.CorpCode) == "" {
		return ErrEmptyCorpCode
	}
	if err := ValidateYear(sel.Year); err != nil {
		return err
	}
	if !sel.Period.Valid() {
		return ErrInvalidReportPeriod
	}
	return nil
}

// FallbackPlan lists the selectors tried after a "no data" answer for sel, in order.
func FallbackPlan(sel internal.Selector) []internal.Selector {
	return slices.Collect(fallbackSeq(sel))
}

// fallbackSeq yields the previous two years for the same period, then every
// other period for the original year in enumeration order.
func fallbackSeq(sel internal.Selector) iter.Seq[internal.Selector] {
	return func(yield func(internal.Selector) bool) {
		for _, back := range []int{1, 2} {
			year := sel.Year - back
			if year < minYear {
				continue
			}
			if !yield(internal.Selector{CorpCode: sel.CorpCode, Year: year, Period: sel.Period}) {
				return
			}
		}
		for _, period := range internal.ReportPeriods {
			if period == sel.Period {
				continue
			}
			if !yield(internal.Selector{CorpCode: sel.CorpCode, Year: sel.Year, Period: period}) {
				return
			}
		}
	}
}

// ResolveYear fetches and classifies one year. Only a "no data" answer leads to
// substitutes being tried; if none of them succeed the first error is returned.
func (r *Resolver) ResolveYear(ctx context.Context, corpCode string, year int, period internal.ReportPeriod) (internal.YearResult, error) {
	requested := internal.Selector{CorpCode: strings.TrimSpace(corpCode), Year: year, Period: period}
	if err := ValidateSelector(requested); err != nil {
		return internal.YearResult{}, err
	}

	attempts := 1
	summary, original := r.attempt(ctx, requested)
	if original == nil {
		return internal.YearResult{Requested: requested, Resolved: requested, Summary: summary, Attempts: attempts}, nil
	}
	if !dart.IsNoData(original) {
		return internal.YearResult{}, original
	}

	for alt := range fallbackSeq(requested) {
		attempts++
		summary, err := r.attempt(ctx, alt)
		if err != nil {
			continue
		}
		r.logger.Info().
			Str("corp_code", requested.CorpCode).
			Int("year", requested.Year).
			Str("reprt_code", string(requested.Period)).
			Int("resolved_year", alt.Year).
			Str("resolved_reprt_code", string(alt.Period)).
			Msg("substituted disclosure")
		return internal.YearResult{Requested: requested, Resolved: alt, Summary: summary, Attempts: attempts}, nil
	}

	return internal.YearResult{}, original
}

func (r *Resolver) attempt(ctx context.Context, sel internal.Selector) (internal.CanonicalSummary, error) {
	items, err := r.source.FetchStatements(ctx, sel)
	if err != nil {
		r.logger.Debug().
			Str("corp_code", sel.CorpCode).
			Int("year", sel.Year).
			Str("reprt_code", string(sel.Period)).
			Str("status", dart.StatusOf(err)).
			Err(err).
			Msg("statement attempt failed")
		return internal.CanonicalSummary{}, err
	}
	return Classify(items), nil
}

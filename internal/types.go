package internal

import (
	"fmt"
	"strings"
)

type ReportPeriod string

const (
	ReportAnnual     ReportPeriod = "11011"
	ReportSemiannual ReportPeriod = "11012"
	ReportQ1         ReportPeriod = "11013"
	ReportQ3         ReportPeriod = "11014"
)

// ReportPeriods is the fixed enumeration order used when substituting periods.
var ReportPeriods = []ReportPeriod{ReportAnnual, ReportSemiannual, ReportQ1, ReportQ3}

func (p ReportPeriod) Valid() bool {
	switch p {
	case ReportAnnual, ReportSemiannual, ReportQ1, ReportQ3:
		return true
	default:
		return false
	}
}

func (p ReportPeriod) Name() string {
	switch p {
	case ReportAnnual:
		return "사업보고서"
	case ReportSemiannual:
		return "반기보고서"
	case ReportQ1:
		return "1분기보고서"
	case ReportQ3:
		return "3분기보고서"
	default:
		return "알 수 없음"
	}
}

// ParseReportPeriod accepts the four disclosure codes and a few readable aliases.
func ParseReportPeriod(input string) (ReportPeriod, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "11011", "annual":
		return ReportAnnual, true
	case "11012", "semiannual", "half":
		return ReportSemiannual, true
	case "11013", "q1":
		return ReportQ1, true
	case "11014", "q3":
		return ReportQ3, true
	default:
		return "", false
	}
}

type StatementType string

const (
	StatementBalanceSheet StatementType = "BS"
	StatementIncome       StatementType = "IS"
)

type Division string

const (
	DivisionConsolidated Division = "CFS"
	DivisionSeparate     Division = "OFS"
)

// Selector identifies one disclosure request.
type Selector struct {
	CorpCode string       `json:"corp_code"`
	Year     int          `json:"bsns_year"`
	Period   ReportPeriod `json:"reprt_code"`
}

func (s Selector) String() string {
	return fmt.Sprintf("%s/%d/%s", s.CorpCode, s.Year, s.Period)
}

// RawLineItem is one disclosed accounting fact as returned by the statement source.
type RawLineItem struct {
	CorpCode      string        `json:"corp_code"`
	Year          string        `json:"bsns_year"`
	ReportCode    string        `json:"reprt_code"`
	StockCode     string        `json:"stock_code"`
	AccountName   string        `json:"account_nm"`
	Division      Division      `json:"fs_div"`
	StatementName string        `json:"fs_nm"`
	Statement     StatementType `json:"sj_div"`
	CurrentAmount string        `json:"thstrm_amount"`
	PriorAmount   string        `json:"frmtrm_amount"`
	Currency      string        `json:"currency"`
}

type Category string

const (
	CategoryTotalAssets      Category = "total_assets"
	CategoryTotalLiabilities Category = "total_liabilities"
	CategoryTotalEquity      Category = "total_equity"
	CategoryRevenue          Category = "revenue"
	CategoryOperatingProfit  Category = "operating_profit"
	CategoryNetProfit        Category = "net_profit"
)

type Entry struct {
	Account  string   `json:"account"`
	Current  int64    `json:"current"`
	Previous int64    `json:"previous"`
	Division Division `json:"fs_div"`
}

type BasicInfo struct {
	CorpCode      string `json:"corp_code"`
	Year          string `json:"bsns_year"`
	ReportCode    string `json:"reprt_code"`
	StockCode     string `json:"stock_code"`
	StatementName string `json:"fs_nm"`
	Currency      string `json:"currency"`
}

type CanonicalSummary struct {
	BasicInfo       BasicInfo          `json:"basic_info"`
	BalanceSheet    map[Category]Entry `json:"balance_sheet"`
	IncomeStatement map[Category]Entry `json:"income_statement"`
	Warnings        []string           `json:"warnings,omitempty"`
}

func NewCanonicalSummary() CanonicalSummary {
	return CanonicalSummary{
		BalanceSheet:    map[Category]Entry{},
		IncomeStatement: map[Category]Entry{},
	}
}

func (s CanonicalSummary) Lookup(cat Category) (Entry, bool) {
	if e, ok := s.BalanceSheet[cat]; ok {
		return e, true
	}
	e, ok := s.IncomeStatement[cat]
	return e, ok
}

// Current returns the current-period amount of a category, or zero when absent.
func (s CanonicalSummary) Current(cat Category) int64 {
	e, _ := s.Lookup(cat)
	return e.Current
}

func (s CanonicalSummary) Previous(cat Category) int64 {
	e, _ := s.Lookup(cat)
	return e.Previous
}

type YearResult struct {
	Requested Selector         `json:"requested"`
	Resolved  Selector         `json:"resolved"`
	Summary   CanonicalSummary `json:"summary"`
	Attempts  int              `json:"attempts"`
}

// Substituted reports whether the data came from a selector other than the one asked for.
func (r YearResult) Substituted() bool {
	return r.Requested != r.Resolved
}

type YearDiagnostic struct {
	Year    int    `json:"year"`
	Message string `json:"message"`
}

func (d YearDiagnostic) String() string {
	return fmt.Sprintf("%d: %s", d.Year, d.Message)
}

type MultiYearSeries struct {
	Years            []int            `json:"years"`
	Revenue          []int64          `json:"revenue"`
	OperatingProfit  []int64          `json:"operating_profit"`
	NetProfit        []int64          `json:"net_profit"`
	TotalAssets      []int64          `json:"total_assets"`
	TotalLiabilities []int64          `json:"total_liabilities"`
	TotalEquity      []int64          `json:"total_equity"`
	Errors           []YearDiagnostic `json:"errors"`
}

func NewMultiYearSeries() MultiYearSeries {
	return MultiYearSeries{
		Years:            []int{},
		Revenue:          []int64{},
		OperatingProfit:  []int64{},
		NetProfit:        []int64{},
		TotalAssets:      []int64{},
		TotalLiabilities: []int64{},
		TotalEquity:      []int64{},
		Errors:           []YearDiagnostic{},
	}
}

// OK reports whether at least one year resolved.
func (m MultiYearSeries) OK() bool {
	return len(m.Years) > 0
}

// Columns returns every numeric series keyed by its category.
func (m MultiYearSeries) Columns() map[Category][]int64 {
	return map[Category][]int64{
		CategoryRevenue:          m.Revenue,
		CategoryOperatingProfit:  m.OperatingProfit,
		CategoryNetProfit:        m.NetProfit,
		CategoryTotalAssets:      m.TotalAssets,
		CategoryTotalLiabilities: m.TotalLiabilities,
		CategoryTotalEquity:      m.TotalEquity,
	}
}

type Company struct {
	CorpCode    string `json:"corp_code"`
	CorpName    string `json:"corp_name"`
	CorpEngName string `json:"corp_eng_name"`
	StockCode   string `json:"stock_code"`
	ModifyDate  string `json:"modify_date"`
}

func (c Company) Listed() bool {
	return strings.TrimSpace(c.StockCode) != ""
}

type DirectoryStats struct {
	Total    int `json:"total_companies"`
	Listed   int `json:"listed_companies"`
	Unlisted int `json:"unlisted_companies"`
}

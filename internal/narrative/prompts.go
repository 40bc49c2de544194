package narrative

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"finboard/internal"
	"finboard/internal/util"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptLibrary struct {
	YearAnalysis  *template.Template
	TrendAnalysis *template.Template
}

var promptFuncs = template.FuncMap{
	"eok": func(v int64) string {
		return strconv.FormatFloat(util.ToEok(v), 'f', -1, 64)
	},
	"eoks": func(vs []int64) string {
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = strconv.FormatFloat(util.ToEok(v), 'f', -1, 64)
		}
		return strings.Join(parts, ", ")
	},
	"years": func(ys []int) string {
		parts := make([]string, len(ys))
		for i, y := range ys {
			parts[i] = strconv.Itoa(y)
		}
		return strings.Join(parts, ", ")
	},
}

var loadPrompts = sync.OnceValues(func() (*promptLibrary, error) {
	var raw struct {
		YearAnalysis  string `yaml:"year_analysis"`
		TrendAnalysis string `yaml:"trend_analysis"`
	}
	if err := yaml.Unmarshal(promptsYAML, &raw); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}

	lib := &promptLibrary{}
	var err error
	if lib.YearAnalysis, err = template.New("year_analysis").Funcs(promptFuncs).Parse(raw.YearAnalysis); err != nil {
		return nil, err
	}
	if lib.TrendAnalysis, err = template.New("trend_analysis").Funcs(promptFuncs).Parse(raw.TrendAnalysis); err != nil {
		return nil, err
	}
	return lib, nil
})

type yearPromptData struct {
	Company          string
	Year             string
	TotalAssets      internal.Entry
	TotalLiabilities internal.Entry
	TotalEquity      internal.Entry
	Revenue          internal.Entry
	OperatingProfit  internal.Entry
	NetProfit        internal.Entry
}

type trendPromptData struct {
	Company string
	internal.MultiYearSeries
}

func renderYearPrompt(company string, s internal.CanonicalSummary) (string, error) {
	lib, err := loadPrompts()
	if err != nil {
		return "", err
	}
	data := yearPromptData{
		Company:          company,
		Year:             s.BasicInfo.Year,
		TotalAssets:      s.BalanceSheet[internal.CategoryTotalAssets],
		TotalLiabilities: s.BalanceSheet[internal.CategoryTotalLiabilities],
		TotalEquity:      s.BalanceSheet[internal.CategoryTotalEquity],
		Revenue:          s.IncomeStatement[internal.CategoryRevenue],
		OperatingProfit:  s.IncomeStatement[internal.CategoryOperatingProfit],
		NetProfit:        s.IncomeStatement[internal.CategoryNetProfit],
	}
	var b strings.Builder
	if err := lib.YearAnalysis.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderTrendPrompt(company string, series internal.MultiYearSeries) (string, error) {
	lib, err := loadPrompts()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := lib.TrendAnalysis.Execute(&b, trendPromptData{Company: company, MultiYearSeries: series}); err != nil {
		return "", err
	}
	return b.String(), nil
}

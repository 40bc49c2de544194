package pipeline

import (
	"strconv"

	"finboard/internal"
)

type StatementChart struct {
	Labels   []string `json:"labels"`
	Current  []int64  `json:"current_data"`
	Previous []int64  `json:"previous_data"`
}

type SummaryChart struct {
	BalanceSheet    StatementChart `json:"balance_sheet"`
	IncomeStatement StatementChart `json:"income_statement"`
}

type RevenueTrend struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type ProfitTrend struct {
	Labels          []string `json:"labels"`
	OperatingProfit []int64  `json:"operating_profit"`
	NetProfit       []int64  `json:"net_profit"`
}

type BalanceTrend struct {
	Labels      []string `json:"labels"`
	Assets      []int64  `json:"assets"`
	Liabilities []int64  `json:"liabilities"`
	Equity      []int64  `json:"equity"`
}

type TrendChart struct {
	Years   []int        `json:"years"`
	Revenue RevenueTrend `json:"revenue_trend"`
	Profit  ProfitTrend  `json:"profit_trend"`
	Balance BalanceTrend `json:"balance_trend"`
}

var (
	balanceSheetOrder    = []internal.Category{internal.CategoryTotalAssets, internal.CategoryTotalLiabilities, internal.CategoryTotalEquity}
	incomeStatementOrder = []internal.Category{internal.CategoryRevenue, internal.CategoryOperatingProfit, internal.CategoryNetProfit}
)

// ChartData shapes a summary for bar charts, labelled by the disclosed account names.
// Absent categories are left out.
func ChartData(summary internal.CanonicalSummary) SummaryChart {
	return SummaryChart{
		BalanceSheet:    statementChart(summary.BalanceSheet, balanceSheetOrder),
		IncomeStatement: statementChart(summary.IncomeStatement, incomeStatementOrder),
	}
}

func statementChart(entries map[internal.Category]internal.Entry, order []internal.Category) StatementChart {
	chart := StatementChart{Labels: []string{}, Current: []int64{}, Previous: []int64{}}
	for _, cat := range order {
		e, ok := entries[cat]
		if !ok {
			continue
		}
		chart.Labels = append(chart.Labels, e.Account)
		chart.Current = append(chart.Current, e.Current)
		chart.Previous = append(chart.Previous, e.Previous)
	}
	return chart
}

func SeriesChart(series internal.MultiYearSeries) TrendChart {
	labels := make([]string, 0, len(series.Years))
	for _, y := range series.Years {
		labels = append(labels, strconv.Itoa(y))
	}
	return TrendChart{
		Years:   series.Years,
		Revenue: RevenueTrend{Labels: labels, Data: series.Revenue},
		Profit: ProfitTrend{
			Labels:          labels,
			OperatingProfit: series.OperatingProfit,
			NetProfit:       series.NetProfit,
		},
		Balance: BalanceTrend{
			Labels:      labels,
			Assets:      series.TotalAssets,
			Liabilities: series.TotalLiabilities,
			Equity:      series.TotalEquity,
		},
	}
}

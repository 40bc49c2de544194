package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"finboard/internal"
)

var categoryLabels = map[internal.Category]string{
	internal.CategoryTotalAssets:      "자산총계",
	internal.CategoryTotalLiabilities: "부채총계",
	internal.CategoryTotalEquity:      "자본총계",
	internal.CategoryRevenue:          "매출액",
	internal.CategoryOperatingProfit:  "영업이익",
	internal.CategoryNetProfit:        "당기순이익",
}

func ExportSummaryToXLSX(result internal.YearResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"statement", "category", "label", "account_nm", "fs_div", "current", "previous"}
	writeRow(f, sheet, 1, toAny(headers)...)

	r := 2
	for _, part := range []struct {
		name    string
		order   []internal.Category
		entries map[internal.Category]internal.Entry
	}{
		{"BS", balanceSheetOrder, result.Summary.BalanceSheet},
		{"IS", incomeStatementOrder, result.Summary.IncomeStatement},
	} {
		for _, cat := range part.order {
			e, ok := part.entries[cat]
			if !ok {
				continue
			}
			writeRow(f, sheet, r, part.name, string(cat), categoryLabels[cat], e.Account, string(e.Division), e.Current, e.Previous)
			r++
		}
	}

	if _, err := f.NewSheet("info"); err != nil {
		return err
	}
	rows := [][]any{
		{"corp_code", result.Requested.CorpCode},
		{"requested_year", result.Requested.Year},
		{"requested_reprt_code", string(result.Requested.Period)},
		{"resolved_year", result.Resolved.Year},
		{"resolved_reprt_code", string(result.Resolved.Period)},
		{"attempts", result.Attempts},
		{"stock_code", result.Summary.BasicInfo.StockCode},
		{"fs_nm", result.Summary.BasicInfo.StatementName},
		{"currency", result.Summary.BasicInfo.Currency},
	}
	for _, w := range result.Summary.Warnings {
		rows = append(rows, []any{"warning", w})
	}
	for i, row := range rows {
		writeRow(f, "info", i+1, row...)
	}

	return save(f, outputPath)
}

func ExportSeriesToXLSX(series internal.MultiYearSeries, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"year", "revenue", "operating_profit", "net_profit", "total_assets", "total_liabilities", "total_equity"}
	writeRow(f, sheet, 1, toAny(headers)...)

	for i, year := range series.Years {
		writeRow(f, sheet, i+2,
			year,
			series.Revenue[i],
			series.OperatingProfit[i],
			series.NetProfit[i],
			series.TotalAssets[i],
			series.TotalLiabilities[i],
			series.TotalEquity[i],
		)
	}

	if _, err := f.NewSheet("errors"); err != nil {
		return err
	}
	writeRow(f, "errors", 1, "year", "message")
	for i, d := range series.Errors {
		writeRow(f, "errors", i+2, d.Year, d.Message)
	}

	return save(f, outputPath)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func save(f *excelize.File, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

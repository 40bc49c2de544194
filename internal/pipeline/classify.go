package pipeline

import (
	"fmt"
	"strings"

	"finboard/internal"
	"finboard/internal/util"
)

// rule maps an account name to a category. A name matches when it equals
// exact (if set) or contains contains (if set).
type rule struct {
	category internal.Category
	exact    string
	contains string
}

func (r rule) matches(account string) bool {
	if r.exact != "" && account == r.exact {
		return true
	}
	return r.contains != "" && strings.Contains(account, r.contains)
}

// Rules are evaluated in order; the first match wins.
var (
	balanceSheetRules = []rule{
		{category: internal.CategoryTotalAssets, exact: "자산", contains: "자산총계"},
		{category: internal.CategoryTotalLiabilities, exact: "부채", contains: "부채총계"},
		{category: internal.CategoryTotalEquity, exact: "자본", contains: "자본총계"},
	}
	incomeStatementRules = []rule{
		{category: internal.CategoryRevenue, contains: "매출액"},
		{category: internal.CategoryOperatingProfit, contains: "영업이익"},
		{category: internal.CategoryNetProfit, contains: "당기순이익"},
	}
)

func matchCategory(rules []rule, account string) (internal.Category, bool) {
	for _, r := range rules {
		if r.matches(account) {
			return r.category, true
		}
	}
	return "", false
}

// Classify folds disclosed line items into the six canonical categories.
// Consolidated figures take precedence over separate ones regardless of order;
// otherwise the first item to fill a category keeps it. It never fails.
func Classify(items []internal.RawLineItem) internal.CanonicalSummary {
	summary := internal.NewCanonicalSummary()

	for i, item := range items {
		if i == 0 {
			summary.BasicInfo = internal.BasicInfo{
				CorpCode:      item.CorpCode,
				Year:          item.Year,
				ReportCode:    item.ReportCode,
				StockCode:     item.StockCode,
				StatementName: item.StatementName,
				Currency:      firstNonEmpty(item.Currency, "KRW"),
			}
		}

		if item.Division != internal.DivisionConsolidated && item.Division != internal.DivisionSeparate {
			continue
		}

		var (
			rules  []rule
			target map[internal.Category]internal.Entry
		)
		switch item.Statement {
		case internal.StatementBalanceSheet:
			rules, target = balanceSheetRules, summary.BalanceSheet
		case internal.StatementIncome:
			rules, target = incomeStatementRules, summary.IncomeStatement
		default:
			continue
		}

		category, ok := matchCategory(rules, item.AccountName)
		if !ok {
			continue
		}
		if existing, set := target[category]; set && !replaces(item.Division, existing.Division) {
			continue
		}

		current, okCur := util.ParseAmount(item.CurrentAmount)
		if !okCur {
			summary.Warnings = append(summary.Warnings, amountWarning(item, "thstrm_amount", item.CurrentAmount))
		}
		previous, okPrev := util.ParseAmount(item.PriorAmount)
		if !okPrev {
			summary.Warnings = append(summary.Warnings, amountWarning(item, "frmtrm_amount", item.PriorAmount))
		}

		target[category] = internal.Entry{
			Account:  item.AccountName,
			Current:  current,
			Previous: previous,
			Division: item.Division,
		}
	}

	return summary
}

// replaces reports whether an incoming division may overwrite an entry that is already set.
func replaces(incoming, existing internal.Division) bool {
	return incoming == internal.DivisionConsolidated && existing == internal.DivisionSeparate
}

func amountWarning(item internal.RawLineItem, field, value string) string {
	return fmt.Sprintf("%s %s %s: unparsable %q treated as 0", item.Division, item.AccountName, field, value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

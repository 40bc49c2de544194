package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finboard/internal"
	"finboard/internal/pipeline"
	"finboard/internal/util"
)

var summaryRows = []struct {
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

func yearCmd() *cobra.Command {
	var (
		year   int
		period string
		out    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "year [company]",
		Short: "Fetch one year's key accounts, substituting nearby filings if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := periodFlag(period)
			if err != nil {
				return err
			}
			company, err := lookupCompany(args[0])
			if err != nil {
				return err
			}
			resolver, err := newResolver()
			if err != nil {
				return err
			}

			res, err := resolver.ResolveYear(cmd.Context(), company.CorpCode, year, p)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printYear(company, res)

			if out != "" {
				if err := pipeline.ExportSummaryToXLSX(res, out); err != nil {
					return err
				}
				fmt.Printf("\nexported to %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 2023, "business year")
	cmd.Flags().StringVar(&period, "period", "annual", "annual|semiannual|q1|q3 or a report code")
	cmd.Flags().StringVar(&out, "out", "", "write an xlsx file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func printYear(company internal.Company, res internal.YearResult) {
	fmt.Printf("%s (%s)\n", company.CorpName, company.CorpCode)
	fmt.Printf("%d %s", res.Resolved.Year, res.Resolved.Period.Name())
	if res.Substituted() {
		fmt.Printf("  [requested %d %s]", res.Requested.Year, res.Requested.Period.Name())
	}
	fmt.Println()
	if name := res.Summary.BasicInfo.StatementName; name != "" {
		fmt.Printf("%s, %s\n", name, res.Summary.BasicInfo.Currency)
	}
	fmt.Println()

	for _, row := range summaryRows {
		e, ok := res.Summary.Lookup(row.category)
		if !ok {
			fmt.Printf("  %-8s %s\n", row.label, util.NoValue)
			continue
		}
		fmt.Printf("  %-8s %12s  (prev %s)\n", row.label, util.FormatAmount(e.Current), util.FormatAmount(e.Previous))
	}
	for _, w := range res.Summary.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}

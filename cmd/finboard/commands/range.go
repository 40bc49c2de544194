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

func rangeCmd() *cobra.Command {
	var (
		start  int
		end    int
		period string
		out    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "range [company]",
		Short: "Collect key accounts over a range of years",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := periodFlag(period)
			if err != nil {
				return err
			}
			if end-start+1 > cfg.MaxRangeYears {
				return fmt.Errorf("range too long: at most %d years", cfg.MaxRangeYears)
			}
			company, err := lookupCompany(args[0])
			if err != nil {
				return err
			}
			resolver, err := newResolver()
			if err != nil {
				return err
			}

			series, err := resolver.ResolveRange(cmd.Context(), company.CorpCode, start, end, p)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(series)
			}
			printSeries(company, series)

			if out != "" {
				if err := pipeline.ExportSeriesToXLSX(series, out); err != nil {
					return err
				}
				fmt.Printf("\nexported to %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", 2020, "first business year")
	cmd.Flags().IntVar(&end, "end", 2023, "last business year")
	cmd.Flags().StringVar(&period, "period", "annual", "annual|semiannual|q1|q3 or a report code")
	cmd.Flags().StringVar(&out, "out", "", "write an xlsx file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the series as JSON")
	return cmd
}

func printSeries(company internal.Company, series internal.MultiYearSeries) {
	fmt.Printf("%s (%s)\n\n", company.CorpName, company.CorpCode)
	fmt.Printf("  %-6s %10s %10s %10s %10s %10s\n", "year", "매출액", "영업이익", "순이익", "자산", "자본")
	for i, y := range series.Years {
		fmt.Printf("  %-6d %10s %10s %10s %10s %10s\n", y,
			util.FormatAmount(series.Revenue[i]),
			util.FormatAmount(series.OperatingProfit[i]),
			util.FormatAmount(series.NetProfit[i]),
			util.FormatAmount(series.TotalAssets[i]),
			util.FormatAmount(series.TotalEquity[i]),
		)
	}
	for _, d := range series.Errors {
		fmt.Printf("  failed %s\n", d)
	}
}

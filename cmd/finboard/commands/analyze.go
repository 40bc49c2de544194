package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finboard/internal/narrative"
)

func analyzeCmd() *cobra.Command {
	var (
		year   int
		start  int
		end    int
		period string
		trends bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [company]",
		Short: "Write a plain-language analysis with Gemini",
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
			provider, err := narrative.NewGeminiProvider(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			analyzer := narrative.NewAnalyzer(provider, logger)

			var analysis narrative.Analysis
			if trends {
				series, err := resolver.ResolveRange(cmd.Context(), company.CorpCode, start, end, p)
				if err != nil {
					return err
				}
				analysis, err = analyzer.AnalyzeTrends(cmd.Context(), company.CorpName, series)
				if err != nil {
					return err
				}
			} else {
				res, err := resolver.ResolveYear(cmd.Context(), company.CorpCode, year, p)
				if err != nil {
					return err
				}
				analysis, err = analyzer.AnalyzeYear(cmd.Context(), company.CorpName, res.Summary)
				if err != nil {
					return err
				}
			}

			fmt.Println(analysis.FullText)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 2023, "business year")
	cmd.Flags().IntVar(&start, "start", 2020, "first year with --trends")
	cmd.Flags().IntVar(&end, "end", 2023, "last year with --trends")
	cmd.Flags().StringVar(&period, "period", "annual", "annual|semiannual|q1|q3 or a report code")
	cmd.Flags().BoolVar(&trends, "trends", false, "analyse the multi-year trend instead of one year")
	return cmd
}

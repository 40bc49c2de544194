package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finboard/internal/catalog"
	"finboard/internal/dart"
)

func directoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Manage the local company directory",
	}
	cmd.AddCommand(directorySyncCmd(), directorySearchCmd(), directoryStatsCmd())
	return cmd
}

func directorySyncCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download the DART company list into the local directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Require("DART_API_KEY", cfg.DartAPIKey); err != nil {
				return err
			}
			d, err := openDB()
			if err != nil {
				return err
			}
			svc := catalog.NewSyncService(d, dart.NewClient(cfg, logger), logger)

			var res catalog.SyncResult
			if force {
				res, err = svc.Sync(cmd.Context())
			} else {
				res, err = svc.SyncIfStale(cmd.Context(), cfg.DirectoryMaxAge)
			}
			if err != nil {
				return err
			}
			if res.Skipped {
				fmt.Println("directory is up to date (use --force to refresh)")
				return nil
			}
			fmt.Printf("directory synced: %d companies (%d listed)\n", res.Companies, res.Listed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "refresh even if the directory is fresh")
	return cmd
}

func directorySearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search companies by name, corp code or stock code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDB()
			if err != nil {
				return err
			}
			companies, err := catalog.NewDirectory(d).Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for _, c := range companies {
				stock := c.StockCode
				if stock == "" {
					stock = "-"
				}
				fmt.Printf("%s  %-6s  %s\n", c.CorpCode, stock, c.CorpName)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "max results")
	return cmd
}

func directoryStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show directory counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDB()
			if err != nil {
				return err
			}
			stats, err := d.Stats()
			if err != nil {
				return err
			}
			svc := catalog.NewSyncService(d, nil, logger)
			last, ok, err := svc.LastSync()
			if err != nil {
				return err
			}
			fmt.Printf("total: %d\nlisted: %d\nunlisted: %d\n", stats.Total, stats.Listed, stats.Unlisted)
			if ok {
				fmt.Printf("last sync: %s\n", last.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

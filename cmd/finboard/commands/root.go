package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"finboard/internal"
	"finboard/internal/catalog"
	"finboard/internal/config"
	"finboard/internal/dart"
	"finboard/internal/logging"
	"finboard/internal/pipeline"
	"finboard/internal/storage"
	"finboard/internal/util"
)

var (
	cfg      config.Config
	logger   arbor.ILogger
	db       *storage.DB
	logLevel string
)

func Execute() error {
	root := &cobra.Command{
		Use:          "finboard",
		Short:        "Look up and summarise DART financial statements",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger = logging.New(cfg.LogLevel)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if db != nil {
				return db.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default from LOG_LEVEL)")

	root.AddCommand(directoryCmd(), yearCmd(), rangeCmd(), analyzeCmd())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return root.ExecuteContext(ctx)
}

func openDB() (*storage.DB, error) {
	if db != nil {
		return db, nil
	}
	var err error
	db, err = storage.Open(cfg.DBPath)
	return db, err
}

func newResolver() (*pipeline.Resolver, error) {
	if err := cfg.Require("DART_API_KEY", cfg.DartAPIKey); err != nil {
		return nil, err
	}
	return pipeline.NewResolver(dart.NewClient(cfg, logger), logger, cfg.RangeWorkers), nil
}

// lookupCompany accepts a corp code, a stock code or a company name.
// Names and stock codes are looked up in the local directory.
func lookupCompany(query string) (internal.Company, error) {
	query = strings.TrimSpace(query)
	d, err := openDB()
	if err != nil {
		return internal.Company{}, err
	}
	dir := catalog.NewDirectory(d)

	if util.LooksLikeCorpCode(query) {
		c, err := dir.Company(query)
		if err != nil {
			return internal.Company{}, err
		}
		if c == nil {
			return internal.Company{CorpCode: query, CorpName: query}, nil
		}
		return *c, nil
	}

	matches, err := dir.Search(query, 1)
	if err != nil {
		return internal.Company{}, err
	}
	if len(matches) == 0 {
		return internal.Company{}, fmt.Errorf("no company matches %q, run 'finboard directory sync' first if the directory is empty", query)
	}
	if util.LooksLikeStockCode(query) && matches[0].StockCode != query {
		return internal.Company{}, fmt.Errorf("no listed company has stock code %s", query)
	}
	return matches[0], nil
}

func periodFlag(raw string) (internal.ReportPeriod, error) {
	p, ok := internal.ParseReportPeriod(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", pipeline.ErrInvalidReportPeriod, raw)
	}
	return p, nil
}

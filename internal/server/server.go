package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"finboard/internal"
	"finboard/internal/logging"
	"finboard/internal/narrative"
	"finboard/internal/util"
)

//go:embed templates/*.html
var templateFiles embed.FS

type Directory interface {
	Search(query string, limit int) ([]internal.Company, error)
	Company(corpCode string) (*internal.Company, error)
}

type Resolver interface {
	ResolveYear(ctx context.Context, corpCode string, year int, period internal.ReportPeriod) (internal.YearResult, error)
	ResolveRange(ctx context.Context, corpCode string, startYear, endYear int, period internal.ReportPeriod) (internal.MultiYearSeries, error)
}

type Analyzer interface {
	AnalyzeYear(ctx context.Context, company string, summary internal.CanonicalSummary) (narrative.Analysis, error)
	AnalyzeTrends(ctx context.Context, company string, series internal.MultiYearSeries) (narrative.Analysis, error)
}

type Options struct {
	MaxRangeYears int
	SearchLimit   int
}

type Server struct {
	directory Directory
	resolver  Resolver
	analyzer  Analyzer
	logger    arbor.ILogger
	opts      Options
	pages     *template.Template
}

// New wires the HTTP layer. analyzer may be nil when no narrative provider is configured.
func New(directory Directory, resolver Resolver, analyzer Analyzer, logger arbor.ILogger, opts Options) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.MaxRangeYears <= 0 {
		opts.MaxRangeYears = 10
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 20
	}
	pages := template.Must(template.New("").Funcs(template.FuncMap{
		"amount": util.FormatAmount,
		"period": func(p internal.ReportPeriod) string { return p.Name() },
	}).ParseFS(templateFiles, "templates/*.html"))

	return &Server{
		directory: directory,
		resolver:  resolver,
		analyzer:  analyzer,
		logger:    logger,
		opts:      opts,
		pages:     pages,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/companies", s.handleSearch)
	mux.HandleFunc("GET /api/companies/{corp_code}", s.handleCompany)
	mux.HandleFunc("GET /api/financials/{corp_code}", s.handleYear)
	mux.HandleFunc("GET /api/financials/{corp_code}/range", s.handleRange)
	mux.HandleFunc("GET /api/analysis/{corp_code}", s.handleAnalyzeYear)
	mux.HandleFunc("GET /api/analysis/{corp_code}/trends", s.handleAnalyzeTrends)
	mux.HandleFunc("GET /dashboard/{corp_code}", s.handleDashboard)
	return s.withRequestLog(mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Str("duration", time.Since(start).String()).
			Msg("http request")
	})
}

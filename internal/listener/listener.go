package listener

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"finboard/internal/catalog"
	"finboard/internal/config"
	"finboard/internal/logging"
)

// Syncer refreshes the company directory when it has gone stale.
// *catalog.SyncService satisfies it.
type Syncer interface {
	SyncIfStale(ctx context.Context, maxAge time.Duration) (catalog.SyncResult, error)
}

// Service keeps the company directory fresh while the server runs.
type Service struct {
	syncer   Syncer
	interval time.Duration
	maxAge   time.Duration
	logger   arbor.ILogger
}

func NewService(syncer Syncer, cfg config.Config, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.DirectoryRefreshInterval <= 0 {
		cfg.DirectoryRefreshInterval = 24 * time.Hour
	}
	return &Service{
		syncer:   syncer,
		interval: cfg.DirectoryRefreshInterval,
		maxAge:   cfg.DirectoryMaxAge,
		logger:   logger,
	}
}

// Run checks the directory immediately and then every interval until ctx is done.
// A failed cycle is logged and retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("directory refresh failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	res, err := s.syncer.SyncIfStale(ctx, s.maxAge)
	if err != nil {
		return err
	}
	if res.Skipped {
		s.logger.Debug().Msg("directory refresh skipped, still fresh")
		return nil
	}
	s.logger.Info().
		Str("run_id", res.RunID).
		Int("companies", res.Companies).
		Msg("directory refresh done")
	return nil
}

package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"finboard/internal/logging"
	"finboard/internal/storage"
)

const lastSyncKey = "directory.last_sync"

// CorpCodeSource downloads the zipped company list. *dart.Client satisfies it.
type CorpCodeSource interface {
	DownloadCorpCodes(ctx context.Context) ([]byte, error)
}

type SyncService struct {
	db     *storage.DB
	source CorpCodeSource
	logger arbor.ILogger
	now    func() time.Time
}

type SyncResult struct {
	RunID     string
	Companies int
	Listed    int
	Skipped   bool
	Duration  time.Duration
}

func NewSyncService(db *storage.DB, source CorpCodeSource, logger arbor.ILogger) *SyncService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &SyncService{db: db, source: source, logger: logger, now: time.Now}
}

// Sync downloads the full company list and replaces the stored directory with it.
func (s *SyncService) Sync(ctx context.Context) (SyncResult, error) {
	start := s.now()
	res := SyncResult{RunID: uuid.NewString()}

	blob, err := s.source.DownloadCorpCodes(ctx)
	if err != nil {
		return res, err
	}
	companies, err := ParseCorpCodeArchive(blob)
	if err != nil {
		return res, err
	}
	if err := s.db.ReplaceCompanies(companies); err != nil {
		return res, err
	}
	if err := s.db.SetMetadata(lastSyncKey, s.now().UTC().Format(time.RFC3339)); err != nil {
		return res, err
	}

	res.Companies = len(companies)
	for _, c := range companies {
		if c.Listed() {
			res.Listed++
		}
	}
	res.Duration = s.now().Sub(start)

	s.logger.Info().
		Str("run_id", res.RunID).
		Int("companies", res.Companies).
		Int("listed", res.Listed).
		Str("duration", res.Duration.String()).
		Msg("directory synced")
	return res, nil
}

// SyncIfStale runs Sync unless the last successful sync is younger than maxAge.
func (s *SyncService) SyncIfStale(ctx context.Context, maxAge time.Duration) (SyncResult, error) {
	last, ok, err := s.LastSync()
	if err != nil {
		return SyncResult{}, err
	}
	if ok && s.now().Sub(last) < maxAge {
		s.logger.Debug().Str("last_sync", last.Format(time.RFC3339)).Msg("directory is fresh")
		return SyncResult{Skipped: true}, nil
	}
	return s.Sync(ctx)
}

func (s *SyncService) LastSync() (time.Time, bool, error) {
	last, err := s.db.GetMetadata(lastSyncKey)
	if err != nil {
		return time.Time{}, false, err
	}
	if last == nil {
		return time.Time{}, false, nil
	}
	parsed, err := time.Parse(time.RFC3339, *last)
	if err != nil {
		return time.Time{}, false, nil
	}
	return parsed, true, nil
}

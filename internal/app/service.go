// Package service wires the scrape, store, merge, index, and query
// components into the archive service behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/okian/scorevault/internal/adapters/blobs"
	"github.com/okian/scorevault/internal/adapters/scrape"
	"github.com/okian/scorevault/internal/adapters/store"
	"github.com/okian/scorevault/internal/domain/merge"
	"github.com/okian/scorevault/internal/domain/model"
	"github.com/okian/scorevault/internal/domain/query"
	"github.com/okian/scorevault/internal/domain/types"
	"github.com/okian/scorevault/internal/domain/userindex"
	"github.com/okian/scorevault/pkg/logger"
	"github.com/okian/scorevault/pkg/metrics"
)

// cronParser accepts standard five-field schedules plus an optional
// leading seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Service implements the API dependencies for the score archive.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   store.Store
	source  scrape.Source
	mirror  *blobs.Mirror
	merger  *merge.Merger
	builder *userindex.Builder
	engine  *query.Engine
	cron    *cron.Cron

	// Configuration
	dataDir            string
	sourceURL          string
	schedule           string
	loc                *time.Location
	allTimeSize        int
	viewSize           int
	avatarScanDays     int
	fetchTimeout       time.Duration
	maxConcurrentReads int

	// State
	ingestMu  sync.Mutex
	started   bool
	lastRunID string
	lastRunAt time.Time

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:            "./data",
		schedule:           "30 5 * * *",
		loc:                time.UTC,
		allTimeSize:        model.MaxAllTimeEntries,
		viewSize:           10,
		avatarScanDays:     30,
		fetchTimeout:       30 * time.Second,
		maxConcurrentReads: 8,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the components and schedules ingestion.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting archive service...",
		logger.String("dataDir", s.dataDir),
		logger.String("timezone", s.loc.String()),
	)

	if s.store == nil {
		fs, err := store.NewFileStore(s.dataDir,
			store.WithMaxConcurrentReads(s.maxConcurrentReads),
		)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = fs
	}

	if s.mirror == nil {
		m, err := blobs.NewMirror(filepath.Join(s.dataDir, "avatars"),
			blobs.WithLogger(s.logger.Named("avatars")),
			blobs.WithHTTPClient(&http.Client{Timeout: s.fetchTimeout}),
		)
		if err != nil {
			return fmt.Errorf("open avatar mirror: %w", err)
		}
		s.mirror = m
	}

	s.merger = merge.New(merge.WithMaxEntries(s.allTimeSize))
	s.builder = userindex.New()
	s.engine = query.New(s,
		query.WithViewSize(s.viewSize),
		query.WithAvatarScanDays(s.avatarScanDays),
	)

	if s.source == nil && s.sourceURL != "" {
		s.source = scrape.NewPageSource(s.sourceURL,
			scrape.WithTimeout(s.fetchTimeout),
		)
	}

	if dates, err := s.store.ListDates(ctx); err == nil {
		metrics.UpdateSnapshotCount(len(dates))
	}

	switch {
	case s.source == nil:
		s.logger.Warn(ctx, "no source url configured; scheduled ingestion disabled")
	case s.schedule == "":
		s.logger.Warn(ctx, "no schedule configured; ingestion is manual only")
	default:
		s.cron = cron.New(cron.WithLocation(s.loc), cron.WithParser(cronParser))
		if _, err := s.cron.AddFunc(s.schedule, s.scheduledRun); err != nil {
			return fmt.Errorf("schedule ingestion: %w", err)
		}
		s.cron.Start()
		s.logger.Info(ctx, "ingestion scheduled",
			logger.String("schedule", s.schedule),
			logger.String("timezone", s.loc.String()),
		)
	}

	s.started = true
	s.logger.Info(ctx, "archive service started")

	return nil
}

// Stop gracefully shuts down the service. A running ingestion is
// allowed to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}

	s.logger.Info(context.Background(), "stopping archive service...")

	c := s.cron
	s.cron = nil
	s.started = false
	s.mu.Unlock()

	// Wait for in-flight scheduled runs outside the lock: a finishing
	// ingest takes s.mu to record its run bookkeeping.
	if c != nil {
		<-c.Stop().Done()
	}

	s.logger.Info(context.Background(), "archive service stopped")
}

// scheduledRun is the cron entry point. Scheduler errors are logged,
// never propagated.
func (s *Service) scheduledRun() {
	ctx := context.Background()
	if err := s.Ingest(ctx); err != nil && !errors.Is(err, ErrIngestInProgress) {
		s.logger.Error(ctx, "scheduled ingestion failed", logger.Error(err))
	}
}

// Ingest runs one full capture cycle: scrape the page, persist the
// day's snapshot, merge it into the all-time record, rebuild the user
// index, and mirror avatars. Runs are serialized; a second caller gets
// ErrIngestInProgress instead of queueing.
func (s *Service) Ingest(ctx context.Context) error {
	if s.source == nil {
		return ErrNoSource
	}
	if !s.ingestMu.TryLock() {
		return ErrIngestInProgress
	}
	defer s.ingestMu.Unlock()

	runID := uuid.NewString()
	start := time.Now()
	log := s.logger.Named("ingest")
	log.Info(ctx, "ingestion run starting", logger.String("runID", runID))

	err := s.ingest(ctx, log)
	if err != nil {
		metrics.RecordIngestFailure()
		log.Error(ctx, "ingestion run failed",
			logger.String("runID", runID),
			logger.Error(err),
		)
		return err
	}

	metrics.RecordIngestRun()
	metrics.RecordIngestDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateLastIngestUnix(time.Now().Unix())
	s.mu.Lock()
	s.lastRunID = runID
	s.lastRunAt = time.Now()
	s.mu.Unlock()
	log.Info(ctx, "ingestion run finished",
		logger.String("runID", runID),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Service) ingest(ctx context.Context, log logger.Logger) error {
	scrapeStart := time.Now()
	res, err := s.source.Fetch(ctx)
	if err != nil {
		metrics.RecordScrapeError()
		return fmt.Errorf("fetch leaderboard page: %w", err)
	}
	metrics.RecordScrapeDuration(float64(time.Since(scrapeStart).Milliseconds()))

	now := time.Now()
	date := model.DateOf(now, s.loc)
	snap := &model.DailySnapshot{
		Date:       date,
		CapturedAt: now.UTC(),
		Games:      res.Games,
	}
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot %s: %w", date, err)
	}
	log.Info(ctx, "snapshot saved",
		logger.String("date", date.String()),
		logger.Int("games", len(snap.Games)),
	)

	current, err := s.AllTime(ctx)
	if err != nil {
		return fmt.Errorf("load all-time record: %w", err)
	}

	mergeStart := time.Now()
	merged := s.merger.Merge(current, snap.Games, date)
	metrics.RecordMergeDuration(float64(time.Since(mergeStart).Milliseconds()))
	if err := s.store.SaveAllTime(ctx, merged); err != nil {
		return fmt.Errorf("save all-time record: %w", err)
	}

	dates, err := s.store.ListDates(ctx)
	if err != nil {
		return fmt.Errorf("list snapshot dates: %w", err)
	}
	snaps, err := s.store.Snapshots(ctx, dates)
	if err != nil {
		return fmt.Errorf("load snapshots for index: %w", err)
	}

	rebuildStart := time.Now()
	idx := s.builder.RebuildIndex(snaps, merged, date)
	metrics.RecordIndexRebuildDuration(float64(time.Since(rebuildStart).Milliseconds()))
	if err := s.store.SaveUserIndex(ctx, idx); err != nil {
		return fmt.Errorf("save user index: %w", err)
	}

	s.mirror.Sync(ctx, res.Avatars)

	metrics.UpdateSnapshotCount(len(dates))
	metrics.UpdateTrackedUsers(idx.UserCount)
	metrics.UpdateTrackedGames(len(merged.Games))
	log.Info(ctx, "archive updated",
		logger.Int("snapshots", len(dates)),
		logger.Int("users", idx.UserCount),
		logger.Int("games", len(merged.Games)),
	)
	return nil
}

// RebuildIndex rebuilds the derived user index from the snapshots and
// record already on disk, without scraping. The index is a cache; this
// recovers it after deletion or a format change.
func (s *Service) RebuildIndex(ctx context.Context) error {
	if !s.ingestMu.TryLock() {
		return ErrIngestInProgress
	}
	defer s.ingestMu.Unlock()

	dates, err := s.store.ListDates(ctx)
	if err != nil {
		return fmt.Errorf("list snapshot dates: %w", err)
	}
	snaps, err := s.store.Snapshots(ctx, dates)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}
	rec, err := s.AllTime(ctx)
	if err != nil {
		return fmt.Errorf("load all-time record: %w", err)
	}

	start := time.Now()
	idx := s.builder.RebuildIndex(snaps, rec, model.DateOf(time.Now(), s.loc))
	metrics.RecordIndexRebuildDuration(float64(time.Since(start).Milliseconds()))
	if err := s.store.SaveUserIndex(ctx, idx); err != nil {
		return fmt.Errorf("save user index: %w", err)
	}

	metrics.UpdateTrackedUsers(idx.UserCount)
	s.logger.Info(ctx, "user index rebuilt",
		logger.Int("snapshots", len(snaps)),
		logger.Int("users", idx.UserCount),
	)
	return nil
}

// Leaderboard answers the given window relative to today in the
// scoreboard's home timezone.
func (s *Service) Leaderboard(ctx context.Context, w query.Window) (types.Result, error) {
	s.mu.RLock()
	engine := s.engine
	s.mu.RUnlock()
	if engine == nil {
		return nil, ErrNotStarted
	}
	return engine.Query(ctx, w, model.DateOf(time.Now(), s.loc))
}

// Users returns the persisted user index; an empty index when none has
// been built yet.
func (s *Service) Users(ctx context.Context) (*model.UserIndex, error) {
	idx, err := s.store.UserIndex(ctx)
	if errors.Is(err, store.ErrRecordNotFound) {
		return &model.UserIndex{Users: map[string]*model.UserRecord{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// User looks up one user by name, case-insensitively. Returns nil when
// the user is unknown.
func (s *Service) User(ctx context.Context, username string) (*model.UserRecord, error) {
	idx, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	return idx.Users[model.Key(username)], nil
}

// Games returns the known games as id -> display name, from the
// all-time record.
func (s *Service) Games(ctx context.Context) (map[string]string, error) {
	rec, err := s.AllTime(ctx)
	if err != nil || rec == nil {
		return map[string]string{}, err
	}
	out := make(map[string]string, len(rec.Games))
	for id, g := range rec.Games {
		out[id] = g.Name
	}
	return out, nil
}

// AvatarDir returns the local avatar mirror directory.
func (s *Service) AvatarDir() string {
	if s.mirror == nil {
		return ""
	}
	return s.mirror.Dir()
}

// Snapshot implements query.Loader: a date that was never ingested is
// a normal (nil, nil) answer.
func (s *Service) Snapshot(ctx context.Context, date model.Date) (*model.DailySnapshot, error) {
	snap, err := s.store.Snapshot(ctx, date)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// AllTime implements query.Loader. A missing record means a cold
// start; a malformed one is recovered the same way, with a warning,
// so one corrupt file never takes queries or ingestion down.
func (s *Service) AllTime(ctx context.Context) (*model.AllTimeRecord, error) {
	rec, err := s.store.AllTime(ctx)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return nil, nil
	case errors.Is(err, store.ErrMalformedRecord):
		s.logger.Warn(ctx, "all-time record is malformed, starting from scratch", logger.Error(err))
		return nil, nil
	case err != nil:
		return nil, err
	}
	return rec, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":  s.started,
		"timezone": s.loc.String(),
		"schedule": s.schedule,
		"source":   s.sourceURL != "",
	}

	if !s.started {
		return stats
	}

	if s.lastRunID != "" {
		stats["lastRunID"] = s.lastRunID
		stats["lastRunAt"] = s.lastRunAt.UTC().Format(time.RFC3339)
	}

	if dates, err := s.store.ListDates(ctx); err == nil {
		stats["snapshots"] = len(dates)
		if len(dates) > 0 {
			stats["firstSnapshot"] = dates[0].String()
			stats["lastSnapshot"] = dates[len(dates)-1].String()
		}
		metrics.UpdateSnapshotCount(len(dates))
	}
	if idx, err := s.Users(ctx); err == nil {
		stats["users"] = len(idx.Users)
	}
	if rec, err := s.AllTime(ctx); err == nil && rec != nil {
		stats["games"] = len(rec.Games)
		stats["allTimeUpdated"] = rec.LastUpdated
	}

	return stats
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/scorevault/internal/domain/model"
	"github.com/okian/scorevault/pkg/metrics"
)

// Default file store configuration constants.
const (
	defaultMaxConcurrentReads = 8
	snapshotsDirName          = "snapshots"
	allTimeFileName           = "alltime.json"
	userIndexFileName         = "users.json"
	dirPerm                   = 0o755
	filePerm                  = 0o644
)

// FileStore implements Store on a directory of JSON resources:
//
//	<root>/snapshots/YYYY-MM-DD.json
//	<root>/alltime.json
//	<root>/users.json
//
// Writes go through a temp file and rename, so readers never observe a
// partially written resource.
type FileStore struct {
	root     string
	maxReads int
}

// NewFileStore creates the directory layout under root.
func NewFileStore(root string, opts ...Option) (*FileStore, error) {
	s := &FileStore{
		root:     root,
		maxReads: defaultMaxConcurrentReads,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(filepath.Join(root, snapshotsDirName), dirPerm); err != nil {
		return nil, fmt.Errorf("create store layout: %w", err)
	}
	return s, nil
}

// SaveSnapshot writes the snapshot keyed by its date, replacing any
// prior capture of that date.
func (s *FileStore) SaveSnapshot(_ context.Context, snap *model.DailySnapshot) error {
	if snap == nil || snap.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidSnapshot)
	}
	if _, err := model.ParseDate(snap.Date.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return s.writeJSON(s.snapshotPath(snap.Date), snap)
}

// Snapshot loads one date.
func (s *FileStore) Snapshot(_ context.Context, date model.Date) (*model.DailySnapshot, error) {
	start := time.Now()
	raw, err := os.ReadFile(s.snapshotPath(date))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, date)
		}
		metrics.RecordSnapshotLoadError()
		return nil, fmt.Errorf("read snapshot %s: %w", date, err)
	}
	var snap model.DailySnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		metrics.RecordSnapshotLoadError()
		return nil, fmt.Errorf("decode snapshot %s: %w", date, err)
	}
	metrics.RecordSnapshotLoad(float64(time.Since(start).Milliseconds()))
	return &snap, nil
}

// Snapshots fan-out loads dates with bounded concurrency. Snapshots are
// immutable, so parallel reads need no coordination beyond the limit.
func (s *FileStore) Snapshots(ctx context.Context, dates []model.Date) ([]model.DailySnapshot, error) {
	found := make([]*model.DailySnapshot, len(dates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxReads)
	for i, d := range dates {
		i, d := i, d
		g.Go(func() error {
			snap, err := s.Snapshot(ctx, d)
			if err != nil {
				if errors.Is(err, ErrSnapshotNotFound) {
					return nil
				}
				return err
			}
			found[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.DailySnapshot, 0, len(found))
	for _, snap := range found {
		if snap != nil {
			out = append(out, *snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListDates scans the snapshots directory. Files that do not parse as
// dates are ignored.
func (s *FileStore) ListDates(_ context.Context) ([]model.Date, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, snapshotsDirName))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var dates []model.Date
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		if name == e.Name() {
			continue
		}
		d, err := model.ParseDate(name)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	metrics.UpdateSnapshotCount(len(dates))
	return dates, nil
}

// AllTime loads the merged record.
func (s *FileStore) AllTime(_ context.Context) (*model.AllTimeRecord, error) {
	raw, err := os.ReadFile(filepath.Join(s.root, allTimeFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("read all-time record: %w", err)
	}
	var rec model.AllTimeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if rec.Games == nil {
		// Parsed but missing its games mapping: same recovery path as
		// an unparseable file.
		return nil, fmt.Errorf("%w: missing games mapping", ErrMalformedRecord)
	}
	return &rec, nil
}

// SaveAllTime overwrites the merged record.
func (s *FileStore) SaveAllTime(_ context.Context, rec *model.AllTimeRecord) error {
	return s.writeJSON(filepath.Join(s.root, allTimeFileName), rec)
}

// UserIndex loads the derived user index.
func (s *FileStore) UserIndex(_ context.Context) (*model.UserIndex, error) {
	raw, err := os.ReadFile(filepath.Join(s.root, userIndexFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("read user index: %w", err)
	}
	var idx model.UserIndex
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return &idx, nil
}

// SaveUserIndex overwrites the derived user index.
func (s *FileStore) SaveUserIndex(_ context.Context, idx *model.UserIndex) error {
	return s.writeJSON(filepath.Join(s.root, userIndexFileName), idx)
}

func (s *FileStore) snapshotPath(date model.Date) string {
	return filepath.Join(s.root, snapshotsDirName, date.String()+".json")
}

// writeJSON writes v atomically: temp file in the target directory,
// then rename over the destination.
func (s *FileStore) writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

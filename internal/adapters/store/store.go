// Package store defines the durable snapshot/record store interface
// and errors.
package store

import (
	"context"

	"github.com/okian/scorevault/internal/domain/model"
)

// Store provides read/write access to the persisted leaderboard state:
// one snapshot resource per calendar date, one all-time resource, and
// one derived user-index resource.
//
// Snapshots are immutable once written and only ever replaced wholesale
// by a re-ingestion of the same date, so concurrent reads of
// independent dates are always safe. The all-time and user-index
// resources are overwritten wholesale by the single ingestion process.
type Store interface {
	// SaveSnapshot writes the snapshot for its date, replacing any
	// existing one (ingestion is idempotent by date key).
	SaveSnapshot(ctx context.Context, snap *model.DailySnapshot) error

	// Snapshot loads one date. Returns ErrSnapshotNotFound when the
	// date has never been ingested.
	Snapshot(ctx context.Context, date model.Date) (*model.DailySnapshot, error)

	// Snapshots fan-out loads a set of dates and returns the ones that
	// exist, ascending by date. Missing dates are skipped, not errors.
	Snapshots(ctx context.Context, dates []model.Date) ([]model.DailySnapshot, error)

	// ListDates returns every ingested date, ascending.
	ListDates(ctx context.Context) ([]model.Date, error)

	// AllTime loads the merged record. Returns ErrRecordNotFound when
	// none has been written yet and ErrMalformedRecord when the
	// resource exists but does not parse; callers recover both by
	// cold-starting an empty record.
	AllTime(ctx context.Context) (*model.AllTimeRecord, error)

	// SaveAllTime overwrites the merged record wholesale.
	SaveAllTime(ctx context.Context, rec *model.AllTimeRecord) error

	// UserIndex loads the derived user index (a cache, rebuildable at
	// any time). Returns ErrRecordNotFound when absent.
	UserIndex(ctx context.Context) (*model.UserIndex, error)

	// SaveUserIndex overwrites the derived user index.
	SaveUserIndex(ctx context.Context, idx *model.UserIndex) error
}

// Package query answers time-window leaderboard questions by selecting
// and aggregating persisted snapshots.
//
// Every missing-data case resolves to an explicit fallback or an empty
// result; the only rejected input is an unknown period name. Fallback
// chains are expressed as ordered candidate lists, not nested
// conditionals, so each step is independently testable.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/scorevault/internal/domain/model"
	"github.com/okian/scorevault/internal/domain/types"
	"github.com/okian/scorevault/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultViewSize       = 10
	defaultAvatarScanDays = 30
	weekDays              = 7
)

// Window is the closed set of queryable periods.
type Window int

const (
	WindowToday Window = iota
	WindowYesterday
	WindowWeek
	WindowMonth
	WindowAllTime
)

// String returns the wire name of the window.
func (w Window) String() string {
	switch w {
	case WindowToday:
		return "today"
	case WindowYesterday:
		return "yesterday"
	case WindowWeek:
		return "week"
	case WindowMonth:
		return "month"
	case WindowAllTime:
		return "alltime"
	default:
		return "unknown"
	}
}

// ParseWindow maps a period name to its Window.
func ParseWindow(s string) (Window, error) {
	switch s {
	case "today":
		return WindowToday, nil
	case "yesterday":
		return WindowYesterday, nil
	case "week":
		return WindowWeek, nil
	case "month":
		return WindowMonth, nil
	case "alltime":
		return WindowAllTime, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// Loader provides read access to the durable stores. Implementations
// signal a missing snapshot with (nil, nil), since absence is a normal
// answer here rather than an error, and recover a malformed all-time
// record to (nil, nil) themselves.
type Loader interface {
	Snapshot(ctx context.Context, date model.Date) (*model.DailySnapshot, error)
	AllTime(ctx context.Context) (*model.AllTimeRecord, error)
}

// Engine answers period queries against a Loader.
type Engine struct {
	loader         Loader
	viewSize       int
	avatarScanDays int
}

// New creates an Engine with configuration options.
func New(loader Loader, opts ...Option) *Engine {
	e := &Engine{
		loader:         loader,
		viewSize:       defaultViewSize,
		avatarScanDays: defaultAvatarScanDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query answers the given window relative to ref using a fresh session
// cache. Callers issuing several queries in one interaction should hold
// a Session and call Session.Query instead.
func (e *Engine) Query(ctx context.Context, w Window, ref model.Date) (types.Result, error) {
	return e.NewSession().Query(ctx, w, ref)
}

// Query on a session dispatches to the per-window strategy.
func (s *Session) Query(ctx context.Context, w Window, ref model.Date) (types.Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryDuration(w.String(), float64(time.Since(start).Milliseconds()))
	}()

	switch w {
	case WindowToday:
		return s.singleDay(ctx, model.PeriodToday, ref, ref.AddDays(-1))
	case WindowYesterday:
		return s.singleDay(ctx, model.PeriodYesterday, ref.AddDays(-1), ref)
	case WindowWeek:
		return s.aggregated(ctx, ref.AddDays(-weekDays), ref.AddDays(-1))
	case WindowMonth:
		return s.aggregated(ctx, ref.FirstOfMonth(), ref.AddDays(-1))
	case WindowAllTime:
		return s.allTime(ctx, ref)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPeriod, int(w))
	}
}

// singleDay reads one period block from the first available snapshot in
// candidate order. The today view falls back to yesterday's file (which
// may be the freshest one on disk before today's run); the yesterday
// view falls forward to today's file, where the prior day's results are
// embedded.
func (s *Session) singleDay(ctx context.Context, p model.Period, candidates ...model.Date) (types.Result, error) {
	for _, d := range candidates {
		snap, err := s.snapshot(ctx, d)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			continue
		}
		return s.renderDay(snap, p), nil
	}
	return types.Result{}, nil
}

// renderDay presents one snapshot's period blocks as-is: stored ranks
// are historical fact for that day and are trusted, with position
// filling in only when the page carried none.
func (s *Session) renderDay(snap *model.DailySnapshot, p model.Period) types.Result {
	out := make(types.Result, len(snap.Games))
	for id, g := range snap.Games {
		blk := g.Block(p)
		view := types.GameView{
			Name:         g.Name,
			TopAvatarRef: blk.TopAvatarRef,
			Scores:       []types.Entry{},
		}
		for idx, e := range blk.Scores {
			if idx >= s.engine.viewSize {
				break
			}
			rank := e.Rank
			if rank == 0 {
				rank = idx + 1
			}
			view.Scores = append(view.Scores, types.Entry{
				Rank:     rank,
				Username: e.Username,
				Score:    e.Score,
			})
		}
		out[id] = view
	}
	return out
}

// aggregated answers week/month windows: best score per user across the
// inclusive date range, missing days skipped.
func (s *Session) aggregated(ctx context.Context, from, to model.Date) (types.Result, error) {
	snaps, err := s.snapshotRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return types.Result{}, nil
	}

	result := aggregate(snaps, model.PeriodYesterday, s.engine.viewSize)

	// Winner avatars come from provenance, newest snapshot first; the
	// concrete "yesterday" record is the most authoritative recent one.
	recent := reversed(snaps)
	for id, view := range result {
		if len(view.Scores) == 0 {
			continue
		}
		view.TopAvatarRef = ResolveAvatar(recent, id, view.Scores[0].Username, false)
		result[id] = view
	}
	return result, nil
}

// allTime reads the persisted record and resolves each game's #1 avatar
// from the recent snapshot window, falling back to the record's own
// stored reference.
func (s *Session) allTime(ctx context.Context, ref model.Date) (types.Result, error) {
	rec, err := s.engine.loader.AllTime(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil || len(rec.Games) == 0 {
		return types.Result{}, nil
	}

	var recent []model.DailySnapshot
	loaded := false

	out := make(types.Result, len(rec.Games))
	for id, g := range rec.Games {
		view := types.GameView{
			Name:         g.Name,
			TopAvatarRef: g.TopAvatarRef,
			Scores:       []types.Entry{},
		}
		for i, e := range g.Scores {
			if i >= s.engine.viewSize {
				break
			}
			view.Scores = append(view.Scores, types.Entry{
				Rank:     i + 1,
				Username: e.Username,
				Score:    e.Score,
				Date:     e.AchievedOn,
			})
		}
		if len(view.Scores) > 0 {
			if !loaded {
				// One scan window shared by every game; loaded lazily
				// so an empty record costs no reads.
				recent, err = s.recentSnapshots(ctx, ref)
				if err != nil {
					return nil, err
				}
				loaded = true
			}
			if resolved := ResolveAvatar(recent, id, view.Scores[0].Username, true); resolved != "" {
				view.TopAvatarRef = resolved
			}
		}
		out[id] = view
	}
	return out, nil
}

// snapshotRange loads every existing snapshot in [from, to], ascending.
func (s *Session) snapshotRange(ctx context.Context, from, to model.Date) ([]model.DailySnapshot, error) {
	var out []model.DailySnapshot
	for _, d := range model.Range(from, to) {
		snap, err := s.snapshot(ctx, d)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			continue
		}
		out = append(out, *snap)
	}
	return out, nil
}

// recentSnapshots loads the avatar scan window ending at ref, newest
// first.
func (s *Session) recentSnapshots(ctx context.Context, ref model.Date) ([]model.DailySnapshot, error) {
	snaps, err := s.snapshotRange(ctx, ref.AddDays(-(s.engine.avatarScanDays-1)), ref)
	if err != nil {
		return nil, err
	}
	return reversed(snaps), nil
}

func reversed(in []model.DailySnapshot) []model.DailySnapshot {
	out := make([]model.DailySnapshot, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}

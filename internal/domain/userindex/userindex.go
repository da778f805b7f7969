// Package userindex derives per-user cross-game summaries by replaying
// the full snapshot history.
//
// The rebuild is a pure function of its inputs and safe to run
// repeatedly. Callers must supply snapshots sorted ascending by date:
// later observations override earlier "last seen" data and same-date
// ties break by processing order, so ordering is a precondition, not
// something the builder repairs.
package userindex

import (
	"sort"

	"github.com/okian/scorevault/internal/domain/model"
)

// defaultLastRank stands in for an absent lastAppearance rank when
// comparing same-date sightings; any real rank beats it.
const defaultLastRank = 999

// Builder rebuilds the user index.
type Builder struct{}

// New creates a Builder.
func New() *Builder {
	return &Builder{}
}

// Rebuild replays snapshots (ascending by date) and annotates the
// result with all-time ranks from allTime. Keys are canonical
// (lowercased) usernames; each record keeps the display casing of the
// user's first sighting.
func (b *Builder) Rebuild(snapshots []model.DailySnapshot, allTime *model.AllTimeRecord) map[string]*model.UserRecord {
	users := make(map[string]*model.UserRecord)

	for _, snap := range snapshots {
		// Deterministic output requires a fixed walk order over the
		// games map; last-#1-wins avatar updates depend on it.
		for _, gameID := range sortedGameIDs(snap.Games) {
			g := snap.Games[gameID]
			for _, p := range model.Periods {
				b.replayBlock(users, g.Block(p), gameID, snap.Date)
			}
		}
	}

	b.annotateAllTimeRanks(users, allTime)
	return users
}

// RebuildIndex wraps Rebuild in the persisted index shape.
func (b *Builder) RebuildIndex(snapshots []model.DailySnapshot, allTime *model.AllTimeRecord, date model.Date) *model.UserIndex {
	users := b.Rebuild(snapshots, allTime)
	return &model.UserIndex{
		LastUpdated: date,
		UserCount:   len(users),
		Users:       users,
	}
}

func (b *Builder) replayBlock(users map[string]*model.UserRecord, blk model.PeriodBlock, gameID string, date model.Date) {
	for idx, entry := range blk.Scores {
		k := model.Key(entry.Username)
		if k == "" {
			continue
		}

		// Stored rank is trusted here as historical fact for the day
		// it was recorded; only absent ranks fall back to position.
		rank := entry.Rank
		if rank == 0 {
			rank = idx + 1
		}

		u, ok := users[k]
		if !ok {
			u = &model.UserRecord{
				Username: entry.Username,
				Games:    make(map[string]*model.UserGameStat),
			}
			users[k] = u
		}

		if rank == 1 && blk.TopAvatarRef != "" {
			// Last #1 appearance wins.
			u.Avatar = blk.TopAvatarRef
		}

		if date.After(u.LastSeen) {
			u.LastSeen = date
			u.LastAppearance = &model.Appearance{Game: gameID, Rank: rank, Date: date}
		} else if date == u.LastSeen {
			current := defaultLastRank
			if u.LastAppearance != nil {
				current = u.LastAppearance.Rank
			}
			if rank < current {
				u.LastAppearance = &model.Appearance{Game: gameID, Rank: rank, Date: date}
			}
		}

		gs, ok := u.Games[gameID]
		if !ok {
			gs = &model.UserGameStat{}
			u.Games[gameID] = gs
		}
		if entry.Score > gs.BestScore {
			// Score, date, and rank move together.
			gs.BestScore = entry.Score
			gs.Date = date
			gs.Rank = rank
		}
	}
}

// annotateAllTimeRanks walks each game's sorted all-time list and sets
// allTimeRank from the 1-based position. Users missing from either side
// are left without one.
func (b *Builder) annotateAllTimeRanks(users map[string]*model.UserRecord, allTime *model.AllTimeRecord) {
	if allTime == nil || allTime.Games == nil {
		return
	}
	for gameID, g := range allTime.Games {
		for pos, entry := range g.Scores {
			u, ok := users[model.Key(entry.Username)]
			if !ok {
				continue
			}
			gs, ok := u.Games[gameID]
			if !ok {
				continue
			}
			gs.AllTimeRank = pos + 1
		}
	}
}

func sortedGameIDs(games map[string]model.GameDay) []string {
	ids := make([]string, 0, len(games))
	for id := range games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

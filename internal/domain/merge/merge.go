// Package merge folds one day's scraped scores into the durable
// all-time leaderboard.
//
// The merge is a pure function of (current record, incoming day, date):
// calling it twice with identical inputs yields identical output. That
// idempotence is load-bearing: re-running an ingestion for a date must
// not churn provenance or drift ranks.
package merge

import (
	"sort"

	"github.com/okian/scorevault/internal/domain/model"
)

// Merger computes all-time record updates.
type Merger struct {
	maxEntries int
}

// New creates a Merger with configuration options.
func New(opts ...Option) *Merger {
	m := &Merger{
		maxEntries: model.MaxAllTimeEntries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge folds incoming (gameId -> that day's blocks) captured on date
// into current and returns the new record. current may be nil or carry
// a nil Games map (a malformed persisted record is recovered upstream
// by treating it as absent); both trigger cold-start seeding.
//
// Per game:
//   - absent from current: seeded from the incoming highscores block,
//     the source site's own accumulated ranking, with every entry
//     stamped achievedOn = date since no earlier provenance is known;
//   - present: candidates from highscores then today replace or insert
//     only on a strictly better score. Equal scores never touch the
//     stored entry, so the earliest achievedOn survives.
//
// The result is sorted descending by score (stable on exact ties),
// truncated to the configured cap, and re-ranked 1..len.
func (m *Merger) Merge(current *model.AllTimeRecord, incoming map[string]model.GameDay, date model.Date) *model.AllTimeRecord {
	out := &model.AllTimeRecord{
		LastUpdated: date,
		Games:       make(map[string]model.AllTimeGame),
	}

	var prior map[string]model.AllTimeGame
	if current != nil && current.Games != nil {
		prior = current.Games
	}

	// Games with no incoming data today carry over untouched.
	for id, g := range prior {
		if _, ok := incoming[id]; !ok {
			out.Games[id] = g
		}
	}

	for id, day := range incoming {
		existing, known := prior[id]
		out.Games[id] = m.mergeGame(existing, known, day, date)
	}

	return out
}

func (m *Merger) mergeGame(existing model.AllTimeGame, known bool, day model.GameDay, date model.Date) model.AllTimeGame {
	var entries []model.AllTimeEntry
	if known {
		entries = append(entries, existing.Scores...)
		m.fold(&entries, day.Highscores.Scores, date)
		m.fold(&entries, day.Today.Scores, date)
	} else {
		// Cold start: the site's highscores table is the only known
		// all-time state. Provenance begins today.
		for _, s := range day.Highscores.Scores {
			entries = append(entries, model.AllTimeEntry{
				Username:   s.Username,
				Score:      s.Score,
				AchievedOn: date,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > m.maxEntries {
		entries = entries[:m.maxEntries]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	g := model.AllTimeGame{
		Name:         day.Name,
		TopAvatarRef: existing.TopAvatarRef,
		Scores:       entries,
	}
	if g.Name == "" {
		g.Name = existing.Name
	}

	// Only adopt the day's own avatar when today's ingestion produced
	// the #1 entry; otherwise the stored reference is known-good and a
	// missing one must not clobber it.
	if len(entries) > 0 && entries[0].AchievedOn == date {
		switch {
		case day.Today.TopAvatarRef != "":
			g.TopAvatarRef = day.Today.TopAvatarRef
		case day.Highscores.TopAvatarRef != "":
			g.TopAvatarRef = day.Highscores.TopAvatarRef
		}
	}

	return g
}

// fold applies candidates to entries in place: insert unknown users,
// replace a user's entry only on a strictly greater score.
func (m *Merger) fold(entries *[]model.AllTimeEntry, candidates []model.ScoreEntry, date model.Date) {
	index := make(map[string]int, len(*entries))
	for i, e := range *entries {
		index[model.Key(e.Username)] = i
	}

	for _, c := range candidates {
		k := model.Key(c.Username)
		if k == "" {
			continue
		}
		i, seen := index[k]
		if !seen {
			index[k] = len(*entries)
			*entries = append(*entries, model.AllTimeEntry{
				Username:   c.Username,
				Score:      c.Score,
				AchievedOn: date,
			})
			continue
		}
		if c.Score > (*entries)[i].Score {
			// Display casing stays first-seen; only score and
			// provenance move.
			(*entries)[i].Score = c.Score
			(*entries)[i].AchievedOn = date
		}
	}
}

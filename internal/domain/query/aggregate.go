package query

import (
	"sort"

	"github.com/okian/scorevault/internal/domain/model"
	"github.com/okian/scorevault/internal/domain/types"
)

// best tracks one user's best observation across a day range.
type best struct {
	username string
	score    int
	date     model.Date
}

// aggregate folds a date range into best-score-per-user views, one per
// game. Snapshots must be ascending by date. The source period is read
// per day, falling back to that day's own yesterday block when the
// requested block is empty; a strictly better score overwrites, a tie
// keeps the first-seen date. Ranks are re-derived from the final sort;
// stored ranks are never reused across days.
func aggregate(snaps []model.DailySnapshot, source model.Period, viewSize int) types.Result {
	type gameAgg struct {
		name  string
		order []string // canonical keys in first-seen order, for stable ties
		bests map[string]*best
	}
	games := make(map[string]*gameAgg)

	for _, snap := range snaps {
		for id, g := range snap.Games {
			blk := g.Block(source)
			if blk.IsEmpty() {
				blk = g.Yesterday
			}
			if blk.IsEmpty() {
				continue
			}

			agg, ok := games[id]
			if !ok {
				agg = &gameAgg{bests: make(map[string]*best)}
				games[id] = agg
			}
			if g.Name != "" {
				agg.name = g.Name
			}

			for _, e := range blk.Scores {
				k := model.Key(e.Username)
				if k == "" {
					continue
				}
				b, seen := agg.bests[k]
				if !seen {
					agg.order = append(agg.order, k)
					agg.bests[k] = &best{username: e.Username, score: e.Score, date: snap.Date}
					continue
				}
				if e.Score > b.score {
					b.score = e.Score
					b.date = snap.Date
				}
			}
		}
	}

	out := make(types.Result, len(games))
	for id, agg := range games {
		entries := make([]types.Entry, 0, len(agg.order))
		for _, k := range agg.order {
			b := agg.bests[k]
			entries = append(entries, types.Entry{
				Username: b.username,
				Score:    b.score,
				Date:     b.date,
			})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Score > entries[j].Score
		})
		if len(entries) > viewSize {
			entries = entries[:viewSize]
		}
		for i := range entries {
			entries[i].Rank = i + 1
		}
		out[id] = types.GameView{Name: agg.name, Scores: entries}
	}
	return out
}

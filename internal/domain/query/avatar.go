package query

import "github.com/okian/scorevault/internal/domain/model"

// highscoresFirst and recentFirst are the two fixed period priority
// sequences for avatar provenance. All-time lookups trust the
// highscores block most (that is where an all-time entry lives on the
// source page); recent lookups trust the concrete yesterday record.
var (
	highscoresFirst = []model.Period{model.PeriodHighscores, model.PeriodYesterday, model.PeriodToday}
	recentFirst     = []model.Period{model.PeriodYesterday, model.PeriodToday, model.PeriodHighscores}
)

// ResolveAvatar scans snapshots in the caller's order (typically newest
// first) and returns the first avatar reference whose period block has
// username as its rank-1 entry. The username match is exact and
// case-sensitive: an avatar belongs to the literal string the page
// showed, not to a normalized identity. Blocks that match but carry no
// reference do not end the scan. Returns "" when the window is
// exhausted.
func ResolveAvatar(snapshots []model.DailySnapshot, gameID, username string, prioritizeHighscores bool) string {
	order := recentFirst
	if prioritizeHighscores {
		order = highscoresFirst
	}

	for _, snap := range snapshots {
		g, ok := snap.Games[gameID]
		if !ok {
			continue
		}
		for _, p := range order {
			blk := g.Block(p)
			if blk.IsEmpty() || blk.TopAvatarRef == "" {
				continue
			}
			if blk.Scores[0].Username == username {
				return blk.TopAvatarRef
			}
		}
	}
	return ""
}

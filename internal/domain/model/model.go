// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// MaxAllTimeEntries caps each game's all-time score list.
const MaxAllTimeEntries = 50

// Key returns the canonical map key for a username. Display casing is
// preserved elsewhere (first sighting wins); lookups and merges always
// compare through this key.
func Key(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Period identifies one scoring window inside a snapshot.
type Period int

const (
	PeriodYesterday Period = iota
	PeriodToday
	PeriodHighscores
)

// String returns the period's snapshot field name.
func (p Period) String() string {
	switch p {
	case PeriodYesterday:
		return "yesterday"
	case PeriodToday:
		return "today"
	case PeriodHighscores:
		return "highscores"
	default:
		return "unknown"
	}
}

// Periods enumerates all scoring windows in snapshot-replay order.
// The user index depends on this order for same-date tie handling.
var Periods = []Period{PeriodYesterday, PeriodToday, PeriodHighscores}

// ScoreEntry is a single leaderboard row as captured from the source
// page. Rank is historical fact for the day it was recorded; ranked
// views derived later always recompute rank from a sort.
type ScoreEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// PeriodBlock is one game's score table for one scoring window on one
// day, plus the avatar reference of that window's top player when the
// page exposed one.
type PeriodBlock struct {
	TopAvatarRef string       `json:"topAvatarRef,omitempty"`
	Scores       []ScoreEntry `json:"scores"`
}

// IsEmpty reports whether the block carries no rows.
func (b PeriodBlock) IsEmpty() bool { return len(b.Scores) == 0 }

// GameDay holds all three period blocks for one game on one day.
type GameDay struct {
	Name       string      `json:"name"`
	Today      PeriodBlock `json:"today"`
	Yesterday  PeriodBlock `json:"yesterday"`
	Highscores PeriodBlock `json:"highscores"`
}

// Block selects a period block by its closed enumeration. Adding a
// period is a compile-time-checked change here.
func (g GameDay) Block(p Period) PeriodBlock {
	switch p {
	case PeriodYesterday:
		return g.Yesterday
	case PeriodToday:
		return g.Today
	case PeriodHighscores:
		return g.Highscores
	default:
		return PeriodBlock{}
	}
}

// DailySnapshot is the dated, immutable capture of leaderboard state
// for all tracked games. One snapshot exists per calendar date;
// re-ingesting a date replaces it wholesale.
type DailySnapshot struct {
	Date       Date               `json:"date"`
	CapturedAt time.Time          `json:"capturedAt"`
	Games      map[string]GameDay `json:"games"`
}

// AllTimeEntry is a ScoreEntry with provenance: the date the score was
// first observed at its current value.
type AllTimeEntry struct {
	Rank       int    `json:"rank"`
	Username   string `json:"username"`
	Score      int    `json:"score"`
	AchievedOn Date   `json:"achievedOn"`
}

// AllTimeGame is one game's durable top-N list.
type AllTimeGame struct {
	Name         string         `json:"name"`
	TopAvatarRef string         `json:"topAvatarRef,omitempty"`
	Scores       []AllTimeEntry `json:"scores"`
}

// AllTimeRecord is the continuously merged top-N-per-game leaderboard
// spanning all ingested history. It carries state not recoverable from
// any single snapshot (the source site's own accumulated ranking seeds
// it) and therefore persists independently of the snapshot sequence.
type AllTimeRecord struct {
	LastUpdated Date                   `json:"lastUpdated"`
	Games       map[string]AllTimeGame `json:"games"`
}

// Appearance records where a user was last sighted.
type Appearance struct {
	Game string `json:"game"`
	Rank int    `json:"rank"`
	Date Date   `json:"date"`
}

// UserGameStat summarizes one user's standing in one game. Zero values
// mean "not observed": a Rank of 0 or an empty Date is absent, never a
// real observation.
type UserGameStat struct {
	BestScore   int  `json:"bestScore"`
	Date        Date `json:"date,omitempty"`
	Rank        int  `json:"rank,omitempty"`
	AllTimeRank int  `json:"allTimeRank,omitempty"`
}

// UserRecord is a derived, rebuildable summary of one player. It is a
// pure function of the snapshot history plus the all-time record and is
// never hand-edited.
type UserRecord struct {
	Username       string                   `json:"username"`
	Avatar         string                   `json:"avatar,omitempty"`
	LastSeen       Date                     `json:"lastSeen,omitempty"`
	LastAppearance *Appearance              `json:"lastAppearance,omitempty"`
	Games          map[string]*UserGameStat `json:"games"`
}

// UserIndex is the persisted form of the derived user mapping. Treated
// as a cache: rebuildable at any time from snapshots plus the all-time
// record.
type UserIndex struct {
	LastUpdated Date                   `json:"lastUpdated"`
	UserCount   int                    `json:"userCount"`
	Users       map[string]*UserRecord `json:"users"`
}

// Package types contains common read-side types used across the application
package types

import "github.com/okian/scorevault/internal/domain/model"

// Entry represents a leaderboard row in a query result. Date is set on
// aggregated views (week/month/alltime) where a row's score carries the
// day it was achieved; single-day views leave it empty.
type Entry struct {
	Rank     int        `json:"rank"`
	Username string     `json:"username"`
	Score    int        `json:"score"`
	Date     model.Date `json:"date,omitempty"`
}

// GameView is one game's slice of a query result.
type GameView struct {
	Name         string  `json:"name"`
	TopAvatarRef string  `json:"topAvatarRef,omitempty"`
	Scores       []Entry `json:"scores"`
}

// Result maps game id to its view for the requested period. An empty
// map is the well-formed "no data" answer, never an error.
type Result map[string]GameView

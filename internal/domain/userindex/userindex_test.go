package userindex_test

import (
	"reflect"
	"testing"

	"github.com/okian/scorevault/internal/domain/model"
	"github.com/okian/scorevault/internal/domain/userindex"
	. "github.com/smartystreets/goconvey/convey"
)

func snap(date model.Date, games map[string]model.GameDay) model.DailySnapshot {
	return model.DailySnapshot{Date: date, Games: games}
}

func TestBuilder_Rebuild(t *testing.T) {
	Convey("Given two days of snapshots", t, func() {
		b := userindex.New()
		snaps := []model.DailySnapshot{
			snap("2026-08-01", map[string]model.GameDay{
				"skeeball": {
					Name: "Skee-Ball",
					Yesterday: model.PeriodBlock{
						TopAvatarRef: "old.png",
						Scores: []model.ScoreEntry{
							{Rank: 1, Username: "Ariel", Score: 500},
							{Rank: 2, Username: "Boris", Score: 400},
						},
					},
				},
			}),
			snap("2026-08-02", map[string]model.GameDay{
				"skeeball": {
					Name: "Skee-Ball",
					Yesterday: model.PeriodBlock{
						TopAvatarRef: "new.png",
						Scores: []model.ScoreEntry{
							{Rank: 1, Username: "ARIEL", Score: 450},
							{Rank: 2, Username: "Boris", Score: 430},
						},
					},
				},
			}),
		}

		Convey("When rebuilding the index", func() {
			users := b.Rebuild(snaps, nil)

			Convey("Then users are keyed canonically with first-seen casing", func() {
				So(users, ShouldContainKey, "ariel")
				So(users["ariel"].Username, ShouldEqual, "Ariel")
			})

			Convey("And bestScore keeps the higher observation with its date and rank", func() {
				gs := users["ariel"].Games["skeeball"]
				So(gs.BestScore, ShouldEqual, 500)
				So(gs.Date, ShouldEqual, model.Date("2026-08-01"))
				So(gs.Rank, ShouldEqual, 1)
			})

			Convey("And a later, lower score still advances lastSeen", func() {
				So(users["ariel"].LastSeen, ShouldEqual, model.Date("2026-08-02"))
				So(users["ariel"].LastAppearance.Rank, ShouldEqual, 1)
			})

			Convey("And the last #1 appearance's avatar wins", func() {
				So(users["ariel"].Avatar, ShouldEqual, "new.png")
			})

			Convey("And non-#1 users never pick up an avatar", func() {
				So(users["boris"].Avatar, ShouldBeBlank)
			})
		})

		Convey("When rebuilding twice from the same input", func() {
			first := b.Rebuild(snaps, nil)
			second := b.Rebuild(snaps, nil)

			Convey("Then the output is identical", func() {
				So(reflect.DeepEqual(first, second), ShouldBeTrue)
			})
		})
	})
}

func TestBuilder_SameDateTieBreaking(t *testing.T) {
	Convey("Given one snapshot where a user appears at two ranks", t, func() {
		b := userindex.New()
		snaps := []model.DailySnapshot{
			snap("2026-08-01", map[string]model.GameDay{
				"pinball": {
					Name: "Pinball",
					Yesterday: model.PeriodBlock{
						Scores: []model.ScoreEntry{{Rank: 4, Username: "Caro", Score: 100}},
					},
					Highscores: model.PeriodBlock{
						Scores: []model.ScoreEntry{{Rank: 2, Username: "Caro", Score: 300}},
					},
				},
			}),
		}

		Convey("When rebuilding", func() {
			users := b.Rebuild(snaps, nil)

			Convey("Then the numerically better rank wins the same-date appearance", func() {
				So(users["caro"].LastAppearance.Rank, ShouldEqual, 2)
				So(users["caro"].LastAppearance.Game, ShouldEqual, "pinball")
			})
		})
	})
}

func TestBuilder_RankFallback(t *testing.T) {
	Convey("Given a block whose rows carry no stored rank", t, func() {
		b := userindex.New()
		snaps := []model.DailySnapshot{
			snap("2026-08-01", map[string]model.GameDay{
				"pinball": {
					Yesterday: model.PeriodBlock{
						Scores: []model.ScoreEntry{
							{Username: "Dana", Score: 90},
							{Username: "Eli", Score: 80},
						},
					},
				},
			}),
		}

		Convey("When rebuilding", func() {
			users := b.Rebuild(snaps, nil)

			Convey("Then position stands in for the missing rank", func() {
				So(users["dana"].Games["pinball"].Rank, ShouldEqual, 1)
				So(users["eli"].Games["pinball"].Rank, ShouldEqual, 2)
			})
		})
	})
}

func TestBuilder_AllTimeRanks(t *testing.T) {
	Convey("Given a rebuilt index and an all-time record", t, func() {
		b := userindex.New()
		snaps := []model.DailySnapshot{
			snap("2026-08-01", map[string]model.GameDay{
				"skeeball": {
					Yesterday: model.PeriodBlock{
						Scores: []model.ScoreEntry{
							{Rank: 1, Username: "Ariel", Score: 500},
							{Rank: 2, Username: "Boris", Score: 400},
						},
					},
				},
			}),
		}
		allTime := &model.AllTimeRecord{
			Games: map[string]model.AllTimeGame{
				"skeeball": {
					Scores: []model.AllTimeEntry{
						{Rank: 1, Username: "Zed", Score: 999, AchievedOn: "2026-01-01"},
						{Rank: 2, Username: "ariel", Score: 500, AchievedOn: "2026-08-01"},
					},
				},
			},
		}

		Convey("When rebuilding with the record", func() {
			users := b.Rebuild(snaps, allTime)

			Convey("Then users present on both sides get their 1-based position", func() {
				So(users["ariel"].Games["skeeball"].AllTimeRank, ShouldEqual, 2)
			})

			Convey("And users absent from the all-time list get none", func() {
				So(users["boris"].Games["skeeball"].AllTimeRank, ShouldEqual, 0)
			})

			Convey("And all-time-only users are not invented", func() {
				So(users, ShouldNotContainKey, "zed")
			})
		})
	})
}
